// Package gen drives route generation: it loads a config, runs the
// orchestrator and writes the generated route files and the optional
// Swagger document.
package gen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-openapi/spec"
	"sigs.k8s.io/yaml"

	"github.com/griffnb/core-routegen/internal/adapter"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/loader"
	"github.com/griffnb/core-routegen/internal/naming"
	"github.com/griffnb/core-routegen/internal/openapi"
	"github.com/griffnb/core-routegen/internal/orchestrator"
)

// ErrCodeEmission is wrapped by every failure to write a generated file.
var ErrCodeEmission = errors.New("code emission failed")

// Output types.
const (
	OutputGo   = "go"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// SwaggerBaseName is the file name of the Swagger document without extension.
const SwaggerBaseName = "routes.swagger"

type genTypeWriter func(*Config, *spec.Swagger) error

// Gen presents a generate tool for route sets.
type Gen struct {
	json          func(data interface{}) ([]byte, error)
	jsonIndent    func(data interface{}) ([]byte, error)
	jsonToYAML    func(data []byte) ([]byte, error)
	outputTypeMap map[string]genTypeWriter
	debug         Debugger
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		json: json.Marshal,
		jsonIndent: func(data interface{}) ([]byte, error) {
			return json.MarshalIndent(data, "", "    ")
		},
		jsonToYAML: yaml.JSONToYAML,
		debug:      log.New(os.Stdout, "", log.LstdFlags),
	}

	gen.outputTypeMap = map[string]genTypeWriter{
		OutputJSON: gen.writeJSONSwagger,
		OutputYAML: gen.writeYAMLSwagger,
		"yml":      gen.writeYAMLSwagger,
	}

	return &gen
}

// Build generates route files for every controller under config.SearchDir.
// Controller failures do not stop other controllers; they are joined and
// returned after everything else was written.
func (g *Gen) Build(config *Config) error {
	if err := g.prepare(config); err != nil {
		return err
	}

	adapters, err := adapter.Resolve(config.Backends)
	if err != nil {
		return err
	}

	emitConfig, err := emitConfig(config)
	if err != nil {
		return err
	}

	orc := g.orchestrator(config, emitConfig)

	g.debug.Printf("Generate routes for %s....", strings.Join(config.Backends, ", "))
	catalog, err := orc.Parse(config.searchDirs())
	if err != nil {
		return err
	}
	result := orc.Generate(catalog, adapters)

	if config.hasOutput(OutputGo) {
		for _, unit := range result.Units {
			if err := g.writeUnit(config, unit); err != nil {
				return err
			}
		}
	}

	swaggerTypes := config.swaggerOutputs()
	if len(swaggerTypes) > 0 {
		swagger := openapi.NewSwagger(config.Title, config.Version)
		service := openapi.NewService(
			openapi.WithStrict(config.Strict),
			openapi.WithDebugger(g.debug),
			openapi.WithStructs(catalog),
		)
		if err := service.RegisterControllers(swagger, result.Descriptors[adapters[0].Name()]); err != nil {
			return err
		}
		if err := os.MkdirAll(config.swaggerDir(), os.ModePerm); err != nil {
			return fmt.Errorf("%w: %w", ErrCodeEmission, err)
		}
		for _, outputType := range swaggerTypes {
			if err := g.outputTypeMap[outputType](config, swagger); err != nil {
				return err
			}
		}
	}

	return result.Err()
}

// List writes the routes of every controller without writing files.
func (g *Gen) List(config *Config, out io.Writer) error {
	if err := g.prepare(config); err != nil {
		return err
	}
	adapters, err := adapter.Resolve(config.Backends[:1])
	if err != nil {
		return err
	}
	emitConfig, err := emitConfig(config)
	if err != nil {
		return err
	}

	orc := g.orchestrator(config, emitConfig)
	catalog, err := orc.Parse(config.searchDirs())
	if err != nil {
		return err
	}
	result := orc.Generate(catalog, adapters)

	for _, unit := range result.Units {
		fmt.Fprintf(out, "%s (%s)\n", unit.Controller, unit.Package)
		for _, route := range unit.Routes {
			fmt.Fprintf(out, "  %-7s %s -> %s", route.Verb, route.Path, route.Method)
			if len(route.Params) > 0 {
				fmt.Fprintf(out, " [%s]", strings.Join(route.Params, " "))
			}
			fmt.Fprintln(out)
		}
	}
	return result.Err()
}

// prepare merges the config file, fills defaults and validates.
func (g *Gen) prepare(config *Config) error {
	if config.Debugger != nil {
		g.debug = config.Debugger
	}

	if err := config.applyFile(); err != nil {
		return err
	}
	config.applyDefaults()

	if err := naming.Validate(config.PropNamingStrategy); err != nil {
		return err
	}
	for _, outputType := range config.OutputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		if _, ok := g.outputTypeMap[outputType]; !ok && outputType != OutputGo {
			g.debug.Printf("output type '%s' not supported", outputType)
		}
	}

	if !config.ParseGoPackages { // packages.Load supports patterns like ./...
		for _, searchDir := range config.searchDirs() {
			if _, err := os.Stat(searchDir); os.IsNotExist(err) {
				return fmt.Errorf("dir: %s does not exist", searchDir)
			}
		}
	}
	return nil
}

func (g *Gen) orchestrator(config *Config, emitConfig emitter.Config) *orchestrator.Service {
	return orchestrator.New(&orchestrator.Config{
		ParseVendor:        config.ParseVendor,
		ParseGoPackages:    config.ParseGoPackages,
		ParseDependency:    loader.ParseFlag(config.ParseDependency),
		ParseDepth:         config.ParseDepth,
		Strict:             config.Strict,
		PropNamingStrategy: config.PropNamingStrategy,
		Excludes:           parseExcludes(config.Excludes),
		PackagePrefix:      parsePackagePrefix(config.PackagePrefix),
		Emit:               emitConfig,
		Debug:              g.debug,
	})
}

// emitConfig places generated files in OutputDir when one is set, else next
// to each controller in its own package.
func emitConfig(config *Config) (emitter.Config, error) {
	cfg := emitter.Config{RuntimeImport: config.RuntimeImport}
	if config.OutputDir == "" {
		return cfg, nil
	}

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrCodeEmission, err)
	}
	importPath, err := loader.ImportPath(config.OutputDir)
	if err != nil {
		return cfg, fmt.Errorf("output dir %s: %w", config.OutputDir, err)
	}
	cfg.PackagePath = importPath
	cfg.PackageName = config.PackageName
	if cfg.PackageName == "" {
		absOutputDir, err := filepath.Abs(config.OutputDir)
		if err != nil {
			return cfg, err
		}
		cfg.PackageName = strings.ReplaceAll(filepath.Base(absOutputDir), "-", "_")
	}
	return cfg, nil
}

func (g *Gen) writeUnit(config *Config, unit *emitter.Unit) error {
	dir := config.OutputDir
	if dir == "" {
		dir = unit.Dir
	}
	fileName := filepath.Join(dir, unit.FileName)
	if err := g.writeFile(unit.Source, fileName); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCodeEmission, fileName, err)
	}
	g.debug.Printf("create %s at %+v", unit.TypeName, fileName)
	return nil
}

func (g *Gen) writeJSONSwagger(config *Config, swagger *spec.Swagger) error {
	jsonFileName := filepath.Join(config.swaggerDir(), SwaggerBaseName+".json")

	b, err := g.jsonIndent(swagger)
	if err != nil {
		return err
	}

	if err := g.writeFile(b, jsonFileName); err != nil {
		return fmt.Errorf("%w: %w", ErrCodeEmission, err)
	}

	g.debug.Printf("create %s.json at %+v", SwaggerBaseName, jsonFileName)
	return nil
}

func (g *Gen) writeYAMLSwagger(config *Config, swagger *spec.Swagger) error {
	yamlFileName := filepath.Join(config.swaggerDir(), SwaggerBaseName+".yaml")

	b, err := g.json(swagger)
	if err != nil {
		return err
	}

	y, err := g.jsonToYAML(b)
	if err != nil {
		return fmt.Errorf("cannot covert json to yaml error: %s", err)
	}

	if err := g.writeFile(y, yamlFileName); err != nil {
		return fmt.Errorf("%w: %w", ErrCodeEmission, err)
	}

	g.debug.Printf("create %s.yaml at %+v", SwaggerBaseName, yamlFileName)
	return nil
}

func (g *Gen) writeFile(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = f.Write(b)

	return err
}

// parseExcludes converts a comma-separated exclude string to a set of absolute paths.
func parseExcludes(excludes string) map[string]struct{} {
	result := make(map[string]struct{})
	if excludes == "" {
		return result
	}

	for _, exclude := range strings.Split(excludes, ",") {
		exclude = strings.TrimSpace(exclude)
		if exclude == "" {
			continue
		}
		if abs, err := filepath.Abs(exclude); err == nil {
			exclude = abs
		}
		result[filepath.Clean(exclude)] = struct{}{}
	}
	return result
}

// parsePackagePrefix converts comma-separated prefix string to slice.
func parsePackagePrefix(packagePrefix string) []string {
	if packagePrefix == "" {
		return []string{}
	}

	result := []string{}
	for _, prefix := range strings.Split(packagePrefix, ",") {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			result = append(result, prefix)
		}
	}
	return result
}
