package fs

import (
	"os"
	"path/filepath"
	"time"
)

type realFS struct{}

// Real returns a Provider backed by the operating system's file system.
func Real() Provider { return realFS{} }

func (realFS) ReadFile(path string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotExist
		}
		return "", err
	}
	return string(contents), nil
}

func (realFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (realFS) Stat(path string) (time.Time, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, 0, ErrNotExist
		}
		return time.Time{}, 0, err
	}
	return info.ModTime(), info.Size(), nil
}

func (realFS) ReadDirectory(path string) ([]Entry, error) {
	items, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		kind := FileEntry
		if item.IsDir() {
			kind = DirEntry
		}
		entries = append(entries, Entry{Name: item.Name(), Kind: kind})
	}
	return entries, nil
}

func (realFS) IsAbs(path string) bool        { return filepath.IsAbs(path) }
func (realFS) Join(parts ...string) string   { return filepath.ToSlash(filepath.Join(parts...)) }
func (realFS) Dir(path string) string        { return filepath.ToSlash(filepath.Dir(path)) }
func (realFS) Base(path string) string       { return filepath.Base(path) }
func (realFS) Ext(path string) string        { return filepath.Ext(path) }
func (realFS) Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	return filepath.ToSlash(abs), err
}
