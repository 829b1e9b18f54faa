// Package config loads project-level compiler options from an optional
// eligian.config.yaml file and layers CLI flags on top of it, following
// the teacher's own layering discipline for bundler options: defaults,
// then config file, then explicit flags, each layer only overriding what
// the previous one actually set.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file name this package looks for,
// walking up from the input file's directory until it finds one or
// reaches the file-system root.
const FileName = "eligian.config.yaml"

// fileConfig is the on-disk shape of eligian.config.yaml. Every field is a
// pointer or nil-able collection so Merge can tell "not set in the file"
// apart from "explicitly set to the zero value".
type fileConfig struct {
	Output      *string           `yaml:"output"`
	Optimize    *bool             `yaml:"optimize"`
	Minify      *bool             `yaml:"minify"`
	AssetRoots  []string          `yaml:"assetRoots"`
	KnownEvents []string          `yaml:"knownEvents"`
}

// Options is the fully resolved, flag-and-file-merged set of compiler
// options a build run operates under.
type Options struct {
	Output      string
	Optimize    bool
	Minify      bool
	AssetRoots  []string
	KnownEvents []string
}

// Default returns the options a build runs with if neither a config file
// nor any flags are given.
func Default() Options {
	return Options{
		Output:   "",
		Optimize: true,
		Minify:   false,
	}
}

// Load walks up from startDir looking for eligian.config.yaml and returns
// the parsed file and its path, or (nil, "", nil) if none is found anywhere
// above startDir.
// A file that exists but fails to parse is a hard error: a broken config
// file that is silently ignored would make a CI failure impossible to
// reproduce locally.
func Load(startDir string) (*fileConfig, string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, FileName)
		if data, err := os.ReadFile(candidate); err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return nil, candidate, fmt.Errorf("parsing %s: %w", candidate, err)
			}
			return &fc, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// Merge layers fc (if non-nil) over base, then applies flagOverrides (only
// the fields a caller actually set on the command line). Flags always win
// over the file; the file always wins over Default().
func Merge(base Options, fc *fileConfig, flags Options, flagsSet FlagsSet) Options {
	out := base
	if fc != nil {
		if fc.Output != nil {
			out.Output = *fc.Output
		}
		if fc.Optimize != nil {
			out.Optimize = *fc.Optimize
		}
		if fc.Minify != nil {
			out.Minify = *fc.Minify
		}
		if len(fc.AssetRoots) > 0 {
			out.AssetRoots = fc.AssetRoots
		}
		if len(fc.KnownEvents) > 0 {
			out.KnownEvents = fc.KnownEvents
		}
	}
	if flagsSet.Output {
		out.Output = flags.Output
	}
	if flagsSet.Optimize {
		out.Optimize = flags.Optimize
	}
	if flagsSet.Minify {
		out.Minify = flags.Minify
	}
	if flagsSet.AssetRoots {
		out.AssetRoots = flags.AssetRoots
	}
	return out
}

// FlagsSet records which flag fields the CLI layer actually saw on the
// command line, since a cobra bool flag's zero value is indistinguishable
// from "the user passed --optimize=false" otherwise.
type FlagsSet struct {
	Output     bool
	Optimize   bool
	Minify     bool
	AssetRoots bool
}
