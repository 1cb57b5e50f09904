package gen

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/griffnb/core-routegen/internal/adapter/nethttp"
	"github.com/griffnb/core-routegen/internal/naming"
)

// DefaultConfigFile is the config file read when none is named. It may be absent.
const DefaultConfigFile = ".core-routegen.yaml"

var open = os.ReadFile

// Config presents Gen configurations.
type Config struct {
	Debugger Debugger

	// SearchDir the generator would parse, comma separated if multiple
	SearchDir string

	// Excludes dirs and files in SearchDir, comma separated
	Excludes string

	// OutputDir receives every generated file; empty writes route files next to their controller
	OutputDir string

	// PackageName of route files written to OutputDir; defaults to the directory name
	PackageName string

	// PackagePrefix parses only packages whose import path match the given prefix, comma separated
	PackagePrefix string

	// Backends to generate for: http, gin, echo
	Backends []string

	// OutputTypes define types of files which should be generated: go, json, yaml
	OutputTypes []string

	// RuntimeImport is the parent import path of the convert, pathmatrix and routeset packages
	RuntimeImport string

	// ParseVendor whether vendor folders are parsed
	ParseVendor bool

	// ParseDependency what to parse in imported packages: 0 none, 1 models, 2 controllers, 3 all
	ParseDependency int

	// ParseDepth dependency parse depth
	ParseDepth int

	// ParseGoPackages whether golang.org/x/tools/go/packages loads the source
	ParseGoPackages bool

	// Strict whether malformed directives and duplicate routes are errors instead of warnings
	Strict bool

	// PropNamingStrategy names untagged bean fields on the wire: camelcase, pascalcase, snakecase
	PropNamingStrategy string

	// Title and Version of the Swagger document
	Title   string
	Version string

	// ConfigFile is a YAML or JSON file whose values fill unset fields
	ConfigFile string
}

// fileConfig is the config file layout.
type fileConfig struct {
	SearchDir          string   `json:"searchDir,omitempty"`
	Excludes           string   `json:"excludes,omitempty"`
	OutputDir          string   `json:"outputDir,omitempty"`
	PackageName        string   `json:"packageName,omitempty"`
	PackagePrefix      string   `json:"packagePrefix,omitempty"`
	Backends           []string `json:"backends,omitempty"`
	OutputTypes        []string `json:"outputTypes,omitempty"`
	RuntimeImport      string   `json:"runtimeImport,omitempty"`
	ParseVendor        bool     `json:"parseVendor,omitempty"`
	ParseDependency    int      `json:"parseDependency,omitempty"`
	ParseDepth         int      `json:"parseDepth,omitempty"`
	ParseGoPackages    bool     `json:"parseGoPackages,omitempty"`
	Strict             bool     `json:"strict,omitempty"`
	PropNamingStrategy string   `json:"propNamingStrategy,omitempty"`
	Title              string   `json:"title,omitempty"`
	Version            string   `json:"version,omitempty"`
}

// applyFile reads ConfigFile and copies its values into fields that are still unset.
func (c *Config) applyFile() error {
	name := c.ConfigFile
	if name == "" {
		name = DefaultConfigFile
	}

	data, err := open(name)
	if err != nil {
		// a missing default file means no file config
		if name == DefaultConfigFile && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not open config file: %w", err)
	}

	var file fileConfig
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return fmt.Errorf("config file %s: %w", name, err)
	}

	setString(&c.SearchDir, file.SearchDir)
	setString(&c.Excludes, file.Excludes)
	setString(&c.OutputDir, file.OutputDir)
	setString(&c.PackageName, file.PackageName)
	setString(&c.PackagePrefix, file.PackagePrefix)
	setString(&c.RuntimeImport, file.RuntimeImport)
	setString(&c.PropNamingStrategy, file.PropNamingStrategy)
	setString(&c.Title, file.Title)
	setString(&c.Version, file.Version)
	if len(c.Backends) == 0 {
		c.Backends = file.Backends
	}
	if len(c.OutputTypes) == 0 {
		c.OutputTypes = file.OutputTypes
	}
	if c.ParseDependency == 0 {
		c.ParseDependency = file.ParseDependency
	}
	if c.ParseDepth == 0 {
		c.ParseDepth = file.ParseDepth
	}
	c.ParseVendor = c.ParseVendor || file.ParseVendor
	c.ParseGoPackages = c.ParseGoPackages || file.ParseGoPackages
	c.Strict = c.Strict || file.Strict
	return nil
}

func setString(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func (c *Config) applyDefaults() {
	setString(&c.SearchDir, "./")
	setString(&c.PropNamingStrategy, naming.CamelCase)
	setString(&c.Title, "Routes")
	setString(&c.Version, "1.0")
	if len(c.Backends) == 0 {
		c.Backends = []string{nethttp.Name}
	}
	if len(c.OutputTypes) == 0 {
		c.OutputTypes = []string{OutputGo}
	}
	if c.ParseDepth == 0 {
		c.ParseDepth = 100
	}
}

func (c *Config) searchDirs() []string {
	var dirs []string
	for _, dir := range strings.Split(c.SearchDir, ",") {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (c *Config) hasOutput(outputType string) bool {
	for _, t := range c.OutputTypes {
		if strings.EqualFold(strings.TrimSpace(t), outputType) {
			return true
		}
	}
	return false
}

// swaggerOutputs returns the requested Swagger formats, deduplicated.
func (c *Config) swaggerOutputs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range c.OutputTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "yml" {
			t = OutputYAML
		}
		if (t == OutputJSON || t == OutputYAML) && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// swaggerDir is OutputDir, else the first search dir.
func (c *Config) swaggerDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return c.searchDirs()[0]
}
