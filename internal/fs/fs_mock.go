package fs

import (
	"path"
	"sort"
	"strings"
	"time"
)

type mockFile struct {
	contents string
	modTime  time.Time
}

type mockFS struct {
	files map[string]mockFile
}

// MockFS returns a Provider whose contents are entirely the given map of
// absolute path to file contents. Directories are synthesized from the set
// of file paths. Used by workspace and validator tests that never want to
// touch the real file system.
func MockFS(files map[string]string) Provider {
	m := &mockFS{files: make(map[string]mockFile, len(files))}
	for k, v := range files {
		m.files[path.Clean(k)] = mockFile{contents: v}
	}
	return m
}

func (m *mockFS) ReadFile(p string) (string, error) {
	if f, ok := m.files[path.Clean(p)]; ok {
		return f.contents, nil
	}
	return "", ErrNotExist
}

func (m *mockFS) Exists(p string) bool {
	p = path.Clean(p)
	if _, ok := m.files[p]; ok {
		return true
	}
	_, err := m.ReadDirectory(p)
	return err == nil
}

func (m *mockFS) Stat(p string) (time.Time, int64, error) {
	if f, ok := m.files[path.Clean(p)]; ok {
		return f.modTime, int64(len(f.contents)), nil
	}
	return time.Time{}, 0, ErrNotExist
}

func (m *mockFS) ReadDirectory(dir string) ([]Entry, error) {
	dir = path.Clean(dir)
	seen := map[string]EntryKind{}
	for file := range m.files {
		if !strings.HasPrefix(file, dir+"/") && dir != "/" {
			continue
		}
		rest := strings.TrimPrefix(file, dir+"/")
		if rest == file && dir != "/" {
			continue
		}
		if dir == "/" {
			rest = strings.TrimPrefix(file, "/")
		}
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			seen[rest[:slash]] = DirEntry
		} else if rest != "" {
			seen[rest] = FileEntry
		}
	}
	if len(seen) == 0 {
		return nil, ErrNotExist
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Name: name, Kind: seen[name]}
	}
	return entries, nil
}

func (*mockFS) IsAbs(p string) bool      { return path.IsAbs(p) }
func (*mockFS) Join(parts ...string) string { return path.Clean(path.Join(parts...)) }
func (*mockFS) Dir(p string) string      { return path.Dir(p) }
func (*mockFS) Base(p string) string     { return path.Base(p) }
func (*mockFS) Ext(p string) string      { return path.Ext(p) }
func (*mockFS) Abs(p string) (string, error) {
	if path.IsAbs(p) {
		return path.Clean(p), nil
	}
	return path.Clean("/" + p), nil
}
