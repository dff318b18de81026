// Package manifest handles hyeong.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file a project directory carries.
const FileName = "hyeong.toml"

// Manifest represents a hyeong.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Run     Run     `toml:"run"`
	Build   Build   `toml:"build"`

	// Dir is the directory containing the hyeong.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Entry   string `toml:"entry"`
}

// Run configures the standard streams for a run. Empty fields mean the
// process streams; a path redirects the stream to that file.
type Run struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
	Error  string `toml:"error"`
}

// Build configures compiled image output.
type Build struct {
	Output string `toml:"output"`
}

// Load parses a hyeong.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if m.Project.Entry == "" {
		return nil, fmt.Errorf("%s: project.entry is required", path)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a hyeong.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath returns the absolute path of the program entry file.
func (m *Manifest) EntryPath() string {
	return m.resolve(m.Project.Entry)
}

// BuildOutputPath returns the absolute path of the compiled image, defaulting
// to the entry file with a .hyc extension.
func (m *Manifest) BuildOutputPath() string {
	if m.Build.Output != "" {
		return m.resolve(m.Build.Output)
	}
	entry := m.EntryPath()
	ext := filepath.Ext(entry)
	return entry[:len(entry)-len(ext)] + ".hyc"
}

// StreamPaths returns the configured stream redirections as absolute paths;
// empty strings mean the process streams.
func (m *Manifest) StreamPaths() (input, output, errOutput string) {
	return m.resolveOptional(m.Run.Input), m.resolveOptional(m.Run.Output), m.resolveOptional(m.Run.Error)
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}

func (m *Manifest) resolveOptional(path string) string {
	if path == "" {
		return ""
	}
	return m.resolve(path)
}
