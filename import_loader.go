package forge

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImportLoader resolves an import path against the directory of a given
// parent file (the Driver passes the origin file) and reads its content. Two implementations are provided, mirroring
// the teacher's RelativeImportLoader/InMemoryImportLoader split: one
// for real files on disk (the CLI's path), one for tests.
type ImportLoader interface {
	GetPath(importPath, parentPath string) (string, error)
	GetContent(path string) ([]byte, error)
}

// RelativeImportLoader resolves SRC imports relative to the origin
// file's directory (spec section 4.H: "relative paths are resolved
// against the origin file's directory").
type RelativeImportLoader struct{}

func NewRelativeImportLoader() *RelativeImportLoader { return &RelativeImportLoader{} }

func (l *RelativeImportLoader) GetPath(importPath, parentPath string) (string, error) {
	return getRelativePath(importPath, parentPath)
}

func (l *RelativeImportLoader) GetContent(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// InMemoryImportLoader serves file content from a map, used by tests
// that exercise the import driver's pass/cycle logic without touching
// disk.
type InMemoryImportLoader struct{ files map[string][]byte }

func NewInMemoryImportLoader() *InMemoryImportLoader {
	return &InMemoryImportLoader{files: map[string][]byte{}}
}

func (l *InMemoryImportLoader) Add(path string, content []byte) { l.files[path] = content }

func (l *InMemoryImportLoader) GetPath(importPath, parentPath string) (string, error) {
	return getRelativePath(importPath, parentPath)
}

func (l *InMemoryImportLoader) GetContent(path string) ([]byte, error) {
	b, ok := l.files[path]
	if !ok {
		return nil, fmt.Errorf("import not found: %s", path)
	}
	return b, nil
}

func getRelativePath(importPath, parentPath string) (string, error) {
	if importPath == parentPath {
		return importPath, nil
	}
	if len(importPath) < 4 {
		return "", fmt.Errorf("path too short, it should start with ./: %s", importPath)
	}
	if importPath[:2] != "./" {
		return "", fmt.Errorf("path isn't relative to the import site: %s", importPath)
	}
	return filepath.Join(filepath.Dir(parentPath), importPath[2:]), nil
}

// NativeImportLoader resolves `import native` paths. Unlike relative
// SRC imports, native paths are passed verbatim to the preprocessor
// (spec section 4.H): there is nothing to resolve against the origin
// file's directory, since the C preprocessor knows its own include
// search path.
type NativeImportLoader struct{}

func (NativeImportLoader) GetPath(importPath, _ string) (string, error) { return importPath, nil }
