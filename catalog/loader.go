package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader supplies a catalog snapshot.
type Loader interface {
	Load() (*Snapshot, error)
}

// File is the on-disk catalog layout.
type File struct {
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Tools    []Entry  `json:"tools" yaml:"tools"`
}

// FileLoader reads a catalog from a .json, .yaml or .yml file.
type FileLoader struct {
	Path string
}

// NewFileLoader returns a loader for path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads, decodes and validates the file.
func (l *FileLoader) Load() (*Snapshot, error) {
	b, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	f, err := Decode(b, filepath.Ext(l.Path))
	if err != nil {
		return nil, err
	}
	snap, err := NewSnapshot(f.Tools, f.Metadata)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", l.Path, err)
	}
	return snap, nil
}

// Decode parses catalog bytes; ext selects the format (".json", ".yaml", ".yml").
func Decode(b []byte, ext string) (File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("parse catalog json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("parse catalog yaml: %w", err)
		}
	default:
		return f, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	return f, nil
}

// StaticLoader serves an in-memory entry list.
type StaticLoader struct {
	Entries  []Entry
	Metadata Metadata
}

// NewStaticLoader returns a loader over entries.
func NewStaticLoader(entries []Entry) *StaticLoader {
	return &StaticLoader{Entries: entries}
}

// Load validates the entries.
func (l *StaticLoader) Load() (*Snapshot, error) {
	return NewSnapshot(l.Entries, l.Metadata)
}
