package loader

import (
	"errors"
	"fmt"
	"go/build"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod encloses a directory.
var ErrNoModule = errors.New("no go.mod found")

// FindModule returns the module path and root directory of the nearest go.mod above dir.
func FindModule(dir string) (modulePath, root string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	for {
		gomod := filepath.Join(dir, "go.mod")
		data, readErr := os.ReadFile(gomod)
		if readErr == nil {
			modulePath = modfile.ModulePath(data)
			if modulePath == "" {
				return "", "", fmt.Errorf("%s: missing module directive", gomod)
			}
			return modulePath, dir, nil
		}
		if !errors.Is(readErr, os.ErrNotExist) {
			return "", "", readErr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", ErrNoModule
		}
		dir = parent
	}
}

// ImportPath returns the import path of the package in dir.
func ImportPath(dir string) (string, error) {
	modulePath, root, err := FindModule(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return modulePath, nil
	}
	return path.Join(modulePath, filepath.ToSlash(rel)), nil
}

// getPkgName returns the package import path for a directory
func getPkgName(searchDir string) (string, error) {
	if importPath, err := ImportPath(searchDir); err == nil {
		return importPath, nil
	}

	// GOPATH layouts without go.mod
	if abs, err := filepath.Abs(searchDir); err == nil {
		pkg, err := build.ImportDir(abs, build.ImportComment)
		if err == nil && pkg.ImportPath != "." {
			return pkg.ImportPath, nil
		}
	}

	return "", fmt.Errorf("failed to get package name for directory: %s", searchDir)
}
