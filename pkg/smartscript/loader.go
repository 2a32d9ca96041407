package smartscript

import (
	"errors"
	"fmt"
	"io/fs"
)

// Loader supplies raw document text by name.
type Loader interface {
	Load(name string) (string, error)
}

type MemoryLoader map[string]string

func (m MemoryLoader) Load(name string) (string, error) {
	if s, ok := m[name]; ok {
		return s, nil
	}
	return "", ErrDocumentNotFound{name}
}

// FSLoader loads documents from a file system, e.g. os.DirFS(root).
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Load(name string) (string, error) {
	b, err := fs.ReadFile(l.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrDocumentNotFound{name}
	}
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", name, err)
	}
	return string(b), nil
}

type ErrDocumentNotFound struct{ Name string }

func (e ErrDocumentNotFound) Error() string { return "document not found: " + e.Name }

// ParseFrom loads name through l and parses it.
func ParseFrom(l Loader, name string, opts ...Option) (*DocumentNode, string, error) {
	src, err := l.Load(name)
	if err != nil {
		return nil, "", err
	}
	doc, err := Parse(src, opts...)
	if err != nil {
		return nil, src, err
	}
	return doc, src, nil
}
