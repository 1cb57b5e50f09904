// Package orchestrator coordinates loading, route parsing, binding and emission.
// Files are parsed in parallel into a Catalog; every (controller, backend)
// pair is then described and emitted in parallel with no shared mutable state.
package orchestrator

import (
	"errors"
	"fmt"

	"github.com/griffnb/core-routegen/internal/binder"
	"github.com/griffnb/core-routegen/internal/descriptor"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/loader"
	"github.com/griffnb/core-routegen/internal/naming"
	"github.com/griffnb/core-routegen/internal/parser/route"
)

// Service coordinates the loader, route parser and emitter.
type Service struct {
	loader      *loader.Service
	routeParser *route.Service
	emitter     *emitter.Emitter
	config      *Config
}

// Config holds orchestrator configuration options.
type Config struct {
	ParseVendor     bool
	ParseGoPackages bool
	// ParseDependency selects what is read from imported packages; ParseDepth bounds the walk.
	ParseDependency    loader.ParseFlag
	ParseDepth         int
	Strict             bool
	PropNamingStrategy string
	Excludes           map[string]struct{}
	PackagePrefix      []string
	Emit               emitter.Config
	Debug              Debugger
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (noOpDebugger) Printf(string, ...interface{}) {}

// New creates a new orchestrator service with the given configuration.
func New(config *Config) *Service {
	if config == nil {
		config = &Config{}
	}
	if config.PropNamingStrategy == "" {
		config.PropNamingStrategy = naming.CamelCase
	}
	if config.Excludes == nil {
		config.Excludes = make(map[string]struct{})
	}
	if config.ParseDepth == 0 {
		config.ParseDepth = 100
	}
	if config.Debug == nil {
		config.Debug = noOpDebugger{}
	}

	loaderService := loader.NewService(
		loader.WithParseVendor(config.ParseVendor),
		loader.WithParseDependency(config.ParseDependency),
		loader.WithExcludes(config.Excludes),
		loader.WithPackagePrefix(config.PackagePrefix),
		loader.WithGoPackages(config.ParseGoPackages),
		loader.WithDebugger(config.Debug),
	)

	routeParser := route.NewService(
		route.WithStrict(config.Strict),
		route.WithDebugger(config.Debug),
	)

	return &Service{
		loader:      loaderService,
		routeParser: routeParser,
		emitter:     emitter.New(config.Emit),
		config:      config,
	}
}

// Parse loads the search directories and collects controllers and structs.
func (s *Service) Parse(searchDirs []string) (*Catalog, error) {
	s.config.Debug.Printf("Orchestrator: loading %d search dirs", len(searchDirs))

	loadResult, err := s.loader.Load(searchDirs, s.config.ParseDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to load search directories: %w", err)
	}
	s.config.Debug.Printf("Orchestrator: loaded %d files", len(loadResult.Files))

	results, err := s.parseFilesParallel(loadResult.Files)
	if err != nil {
		return nil, err
	}

	catalog, err := NewCatalog(results)
	if err != nil {
		return nil, err
	}
	for _, orphan := range catalog.Orphans() {
		err := fmt.Errorf("%s: method %s has a route directive but %s is not a controller",
			orphan.File, orphan.Method.Name, orphan.Receiver)
		if s.config.Strict {
			return nil, err
		}
		s.config.Debug.Printf("warning: %s", err)
	}
	s.config.Debug.Printf("Orchestrator: found %d controllers", len(catalog.Controllers()))
	return catalog, nil
}

// Result is the output of Generate.
type Result struct {
	// Units are the generated files sorted by file name.
	Units []*emitter.Unit
	// Descriptors holds the described controllers per backend name.
	Descriptors map[string][]*descriptor.Controller
	// Errors holds one entry per failed (controller, backend) pair.
	Errors []*ControllerError
}

// Err joins Errors, or returns nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Generate describes and emits every controller of the catalog for every backend.
func (s *Service) Generate(catalog *Catalog, adapters []emitter.PlatformAdapter) *Result {
	binders := make(map[string]*binder.Binder, len(adapters))
	for _, a := range adapters {
		binders[a.Name()] = binder.New(a, catalog, binder.WithNamingStrategy(s.config.PropNamingStrategy))
	}
	return s.emitParallel(catalog.Controllers(), adapters, binders)
}
