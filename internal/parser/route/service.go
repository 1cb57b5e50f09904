// Package route parses route annotations from Go source files.
//
// A controller is a named type whose doc comment carries @controller. Its
// methods become endpoints when their doc comment carries a verb directive
// (@get, @post, ...). Struct declarations are collected as well so bean and
// body parameters can be resolved by the compiler.
package route

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/griffnb/core-routegen/internal/domain"
	"github.com/griffnb/core-routegen/internal/loader"
)

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// Service handles parsing of route annotations from Go source files
type Service struct {
	strict bool
	debug  Debugger
}

// Option configures a Service.
type Option func(*Service)

// WithStrict makes malformed directives fail the file instead of being skipped.
func WithStrict(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		if debugger != nil {
			s.debug = debugger
		}
	}
}

// NewService creates a new route parser service
func NewService(options ...Option) *Service {
	s := &Service{debug: &noOpDebugger{}}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ReceiverMethod is an annotated method and the name of its receiver type.
// Controllers and their methods may live in different files of a package.
type ReceiverMethod struct {
	PkgPath  string
	Receiver string
	File     string
	Offset   int
	Method   *domain.Method
}

// FileResult is everything found in one file.
type FileResult struct {
	Path        string
	Controllers []*domain.Controller
	Methods     []*ReceiverMethod
	Structs     []*domain.Struct
}

// ParseFile extracts controllers, annotated methods and structs from one loaded file.
// Controllers and methods are only read from files loaded with loader.ParseControllers.
func (s *Service) ParseFile(info *loader.AstFileInfo) (*FileResult, error) {
	file := newFileScope(info)
	result := &FileResult{Path: info.Path}

	result.Structs = s.collectStructs(file)

	if info.ParseFlag&loader.ParseControllers == 0 {
		return result, nil
	}

	for _, decl := range info.File.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			controllers, err := s.parseControllers(file, d)
			if err != nil {
				return nil, err
			}
			result.Controllers = append(result.Controllers, controllers...)
		case *ast.FuncDecl:
			m, err := s.parseMethod(file, d)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file.position(d.Pos()), err)
			}
			if m != nil {
				result.Methods = append(result.Methods, m)
			}
		}
	}

	return result, nil
}

// fileScope carries what type resolution needs about one file.
type fileScope struct {
	info    *loader.AstFileInfo
	pkgPath string
	pkgName string
	imports map[string]string
}

func newFileScope(info *loader.AstFileInfo) *fileScope {
	return &fileScope{
		info:    info,
		pkgPath: info.PackagePath,
		pkgName: info.File.Name.Name,
		imports: importsOf(info.File),
	}
}

func (f *fileScope) position(pos token.Pos) string {
	if f.info.FileSet == nil {
		return f.info.Path
	}
	return f.info.FileSet.Position(pos).String()
}

func (f *fileScope) offset(pos token.Pos) int {
	if f.info.FileSet == nil {
		return int(pos)
	}
	return f.info.FileSet.Position(pos).Offset
}
