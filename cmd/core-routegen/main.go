package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/griffnb/core-routegen/internal/adapter"
	"github.com/griffnb/core-routegen/internal/emitter"
	"github.com/griffnb/core-routegen/internal/gen"
	"github.com/griffnb/core-routegen/internal/naming"
)

const (
	searchDirFlag            = "dir"
	excludeFlag              = "exclude"
	propertyStrategyFlag     = "propertyStrategy"
	outputFlag               = "output"
	packageNameFlag          = "packageName"
	outputTypesFlag          = "outputTypes"
	backendsFlag             = "backends"
	runtimeImportFlag        = "runtimeImport"
	parseVendorFlag          = "parseVendor"
	parseDependencyFlag      = "parseDependency"
	parseDependencyLevelFlag = "parseDependencyLevel"
	parseDepthFlag           = "parseDepth"
	parseGoPackagesFlag      = "parseGoPackages"
	packagePrefixFlag        = "packagePrefix"
	strictFlag               = "strict"
	titleFlag                = "title"
	docVersionFlag           = "docVersion"
	configFlag               = "config"
	quietFlag                = "quiet"
)

var sharedFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.StringFlag{
		Name:    configFlag,
		Aliases: []string{"c"},
		EnvVars: []string{"ROUTEGEN_CONFIG"},
		Usage:   "YAML or JSON config file; flags set on the command line win over its values (default: " + gen.DefaultConfigFile + " if present)",
	},
	&cli.StringFlag{
		Name:    searchDirFlag,
		Aliases: []string{"d"},
		Value:   "./",
		Usage:   "Directories you want to parse, comma separated",
	},
	&cli.StringFlag{
		Name:  excludeFlag,
		Usage: "Exclude directories and files when searching, comma separated",
	},
	&cli.StringFlag{
		Name:    backendsFlag,
		Aliases: []string{"b"},
		EnvVars: []string{"ROUTEGEN_BACKENDS"},
		Value:   "http",
		Usage:   "Backends to generate for, comma separated: " + strings.Join(adapter.Names(), ","),
	},
	&cli.StringFlag{
		Name:    propertyStrategyFlag,
		Aliases: []string{"p"},
		Value:   naming.CamelCase,
		Usage:   "Wire naming of untagged bean fields like " + naming.SnakeCase + "," + naming.CamelCase + "," + naming.PascalCase,
	},
	&cli.BoolFlag{
		Name:  parseVendorFlag,
		Usage: "Parse go files in 'vendor' folder, disabled by default",
	},
	&cli.IntFlag{
		Name:    parseDependencyLevelFlag,
		Aliases: []string{"pdl"},
		Usage:   "Parse go files inside dependency folder, 0 disabled, 1 only parse models, 2 only parse controllers, 3 parse all",
	},
	&cli.BoolFlag{
		Name:    parseDependencyFlag,
		Aliases: []string{"pd"},
		Usage:   "Parse models inside dependency folder, disabled by default",
	},
	&cli.IntFlag{
		Name:  parseDepthFlag,
		Value: 100,
		Usage: "Dependency parse depth",
	},
	&cli.BoolFlag{
		Name:  parseGoPackagesFlag,
		Usage: "Parse Go sources by golang.org/x/tools/go/packages, disabled by default",
	},
	&cli.StringFlag{
		Name:  packagePrefixFlag,
		Value: "",
		Usage: "Parse only packages whose import path match the given prefix, comma separated",
	},
	&cli.BoolFlag{
		Name:    strictFlag,
		EnvVars: []string{"ROUTEGEN_STRICT"},
		Usage:   "Fail on malformed directives and duplicate routes instead of warning",
	},
	&cli.StringFlag{
		Name:  runtimeImportFlag,
		Value: emitter.DefaultRuntimeImport,
		Usage: "Import path holding the convert, pathmatrix and routeset packages",
	},
}

var initFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Usage:   "Output directory for all the generated files; route files go next to their controller when empty",
	},
	&cli.StringFlag{
		Name:  packageNameFlag,
		Usage: "Package name of route files written to the output directory",
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   gen.OutputGo,
		Usage:   "Output types of generated files like go,json,yaml",
	},
	&cli.StringFlag{
		Name:  titleFlag,
		Usage: "Title of the Swagger document",
	},
	&cli.StringFlag{
		Name:  docVersionFlag,
		Usage: "Version of the Swagger document",
	},
}, sharedFlags...)

// configFromFlags copies flags into a gen.Config. Only flags set on the command
// line or through the environment are copied so the config file can fill the rest.
func configFromFlags(ctx *cli.Context) *gen.Config {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	if ctx.Bool(quietFlag) {
		logger = log.New(io.Discard, "", log.LstdFlags)
	}

	config := &gen.Config{
		Debugger:   logger,
		ConfigFile: ctx.String(configFlag),
	}

	str := func(name string, dst *string) {
		if ctx.IsSet(name) {
			*dst = ctx.String(name)
		}
	}
	list := func(name string, dst *[]string) {
		if ctx.IsSet(name) {
			*dst = splitList(ctx.String(name))
		}
	}

	str(searchDirFlag, &config.SearchDir)
	str(excludeFlag, &config.Excludes)
	str(outputFlag, &config.OutputDir)
	str(packageNameFlag, &config.PackageName)
	str(packagePrefixFlag, &config.PackagePrefix)
	str(runtimeImportFlag, &config.RuntimeImport)
	str(propertyStrategyFlag, &config.PropNamingStrategy)
	str(titleFlag, &config.Title)
	str(docVersionFlag, &config.Version)
	list(backendsFlag, &config.Backends)
	list(outputTypesFlag, &config.OutputTypes)

	config.ParseVendor = ctx.Bool(parseVendorFlag)
	config.ParseGoPackages = ctx.Bool(parseGoPackagesFlag)
	config.Strict = ctx.Bool(strictFlag)
	if ctx.IsSet(parseDepthFlag) {
		config.ParseDepth = ctx.Int(parseDepthFlag)
	}

	pdv := ctx.Int(parseDependencyLevelFlag)
	if pdv == 0 && ctx.Bool(parseDependencyFlag) {
		pdv = 1
	}
	config.ParseDependency = pdv

	return config
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func initAction(ctx *cli.Context) error {
	return gen.New().Build(configFromFlags(ctx))
}

func listAction(ctx *cli.Context) error {
	return gen.New().List(configFromFlags(ctx), ctx.App.Writer)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "core-routegen"
	app.Version = gen.Version
	app.Usage = "Generate route registration code for annotated Go controllers."
	app.Commands = []*cli.Command{
		{
			Name:    "init",
			Aliases: []string{"i"},
			Usage:   "Generate route files",
			Action:  initAction,
			Flags:   initFlags,
		},
		{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "Print the routes of every controller",
			Action:  listAction,
			Flags:   sharedFlags,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
