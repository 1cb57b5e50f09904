package loader

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// ParseFlag determines what to parse
type ParseFlag int

const (
	// ParseNone parse nothing
	ParseNone ParseFlag = 0x00
	// ParseModels parse struct declarations only
	ParseModels ParseFlag = 0x01
	// ParseControllers parse annotated controllers
	ParseControllers ParseFlag = 0x02
	// ParseAll parse controllers and models
	ParseAll = ParseControllers | ParseModels
)

// Service handles loading Go packages and their AST files
type Service struct {
	parseVendor     bool
	parseInternal   bool
	excludes        map[string]struct{}
	packagePrefix   []string
	parseExtension  string
	useGoPackages   bool
	parseDependency ParseFlag
	debug           Debugger
}

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

// LoadResult contains the results of loading packages
type LoadResult struct {
	Files    map[*ast.File]*AstFileInfo
	Packages []*packages.Package
}

// Merge adds the files of other that are not already loaded.
func (r *LoadResult) Merge(other *LoadResult) {
	seen := make(map[string]struct{}, len(r.Files))
	for _, info := range r.Files {
		seen[info.Path] = struct{}{}
	}
	for file, info := range other.Files {
		if _, ok := seen[info.Path]; ok {
			continue
		}
		r.Files[file] = info
	}
	r.Packages = append(r.Packages, other.Packages...)
}

// AstFileInfo contains information about a parsed AST file
type AstFileInfo struct {
	File        *ast.File
	Path        string
	PackagePath string
	ParseFlag   ParseFlag
	FileSet     *token.FileSet
}

// Option is a functional option for configuring Service
type Option func(*Service)

// noOpDebugger is a no-op debugger
type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}
