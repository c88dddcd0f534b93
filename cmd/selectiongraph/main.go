package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hanpama/selectiongraph/internal/compiler"
	"github.com/hanpama/selectiongraph/internal/config"
	"github.com/hanpama/selectiongraph/internal/eventbus"
	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/logging"
	"github.com/hanpama/selectiongraph/internal/otel"
	"github.com/hanpama/selectiongraph/internal/schema"
	"github.com/hanpama/selectiongraph/internal/validate"
)

const rootUsage = `selectiongraph - merged selection and refetch query compiler

USAGE:
  selectiongraph <command> [flags]

COMMANDS:
  compile          Merge every entrypoint and write its artifacts
  validate         Validate client selections without writing artifacts
  print-schema     Print the schema with client selectables as SDL
  help             Show help for any command
`

const projectFlagsUsage = `  -config <file>           YAML or JSON project config
  -schema.root <path>      Schema directory or file (default: .)
  -client.root <dir>       Client document root (default: .)
`

const compileUsage = `compile FLAGS:
` + projectFlagsUsage + `  -out <dir>               Artifact directory (default: print query text)
  -emit-query-text         Add GraphQL query text to artifacts (default: true)
  -v <level>               Log verbosity (default: 0)
  -otel.endpoint <addr>    OTLP collector endpoint
  -otel.service <name>     OpenTelemetry service name (default: selectiongraph)
  (Exits non-zero when any entrypoint fails)
`

const validateUsage = `validate FLAGS:
` + projectFlagsUsage

const printSchemaUsage = `print-schema FLAGS:
` + projectFlagsUsage + `  -out <file>              Write SDL to file (default: stdout)
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("selectiongraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer))
	if err := global.Parse(args); err != nil {
		fmt.Fprint(stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "compile":
		return cmdCompile(ctx, cmdArgs, stdout, stderr)
	case "validate":
		return cmdValidate(ctx, cmdArgs, stdout, stderr)
	case "print-schema":
		return cmdPrintSchema(ctx, cmdArgs, stdout, stderr)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "compile":
		fmt.Fprint(stdout, compileUsage)
	case "validate":
		fmt.Fprint(stdout, validateUsage)
	case "print-schema":
		fmt.Fprint(stdout, printSchemaUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

// projectFlags are shared by every command. Flags given explicitly override
// the config file.
type projectFlags struct {
	fs         *flag.FlagSet
	configPath string
	schemaRoot string
	clientRoot string
}

func newProjectFlags(name string) *projectFlags {
	p := &projectFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	p.fs.SetOutput(new(bytes.Buffer))
	p.fs.StringVar(&p.configPath, "config", "", "Project config file")
	p.fs.StringVar(&p.schemaRoot, "schema.root", ".", "Schema directory or file")
	p.fs.StringVar(&p.clientRoot, "client.root", ".", "Client document root")
	return p
}

func (p *projectFlags) load() (*config.Config, error) {
	cfg := config.Default()
	if p.configPath != "" {
		var err error
		if cfg, err = config.Load(p.configPath); err != nil {
			return nil, err
		}
	}
	p.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema.root":
			cfg.Schema = p.schemaRoot
		case "client.root":
			cfg.ProjectRoot = p.clientRoot
		}
	})
	return cfg, cfg.Validate()
}

func loadProject(ctx context.Context, cfg *config.Config) (*ir.Project, error) {
	proj, err := ir.Load(ctx, cfg.Schema, cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return proj, nil
}

func cmdCompile(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	p := newProjectFlags("compile")
	outDir := ""
	emitQueryText := true
	verbosity := 0
	otelEndpoint := ""
	otelService := config.DefaultService
	p.fs.StringVar(&outDir, "out", outDir, "Artifact directory")
	p.fs.BoolVar(&emitQueryText, "emit-query-text", emitQueryText, "Add query text to artifacts")
	p.fs.IntVar(&verbosity, "v", verbosity, "Log verbosity")
	p.fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	p.fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := p.fs.Parse(args); err != nil {
		fmt.Fprint(stderr, compileUsage)
		return err
	}
	cfg, err := p.load()
	if err != nil {
		return err
	}
	// without a destination the query texts go to stdout
	printOnly := p.configPath == ""
	p.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			printOnly = false
			cfg.ArtifactDirectory = outDir
		case "emit-query-text":
			cfg.Options.EmitQueryText = emitQueryText
		case "v":
			cfg.Verbosity = verbosity
		case "otel.endpoint":
			cfg.Telemetry.Endpoint = otelEndpoint
		case "otel.service":
			cfg.Telemetry.Service = otelService
		}
	})

	if printOnly {
		cfg.Options.EmitQueryText = true
	}

	logger := logging.New(stderr, cfg.Verbosity)
	bus := eventbus.New()
	eventbus.Use(bus)
	defer eventbus.Use(nil)
	defer logging.Register(bus, logger)()
	shutdown, err := otel.Setup(cfg.Telemetry.Endpoint, cfg.Telemetry.Service, logger)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	proj, err := loadProject(ctx, cfg)
	if err != nil {
		return err
	}
	c := compiler.New(proj, compiler.Options{EmitQueryText: cfg.Options.EmitQueryText})
	result, err := c.Compile(ctx)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	if printOnly {
		printQueryTexts(stdout, result.Artifacts)
	} else if err := compiler.WriteArtifacts(ctx, cfg.ArtifactDirectory, result.Artifacts); err != nil {
		return err
	}
	return result.Err()
}

func printQueryTexts(w io.Writer, artifacts []*compiler.Artifact) {
	for _, a := range artifacts {
		fmt.Fprintf(w, "# %s\n%s\n", a.Entrypoint, a.QueryText)
		printRefetchTexts(w, a.RefetchQueries)
	}
}

func printRefetchTexts(w io.Writer, queries []*compiler.RefetchArtifact) {
	for _, r := range queries {
		fmt.Fprintf(w, "# %s (%s at %s)\n%s\n", r.QueryName, r.FieldName, r.PathString, r.QueryText)
		printRefetchTexts(w, r.RefetchQueries)
	}
}

func cmdValidate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	p := newProjectFlags("validate")
	if err := p.fs.Parse(args); err != nil {
		fmt.Fprint(stderr, validateUsage)
		return err
	}
	cfg, err := p.load()
	if err != nil {
		return err
	}
	proj, err := loadProject(ctx, cfg)
	if err != nil {
		return err
	}
	ids := proj.ClientSelectables()
	ds := validate.New(proj).ValidateAll(ids)
	for _, d := range ds {
		fmt.Fprintln(stdout, d.Error())
	}
	if err := ds.Err(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d client selectables OK\n", len(ids))
	return nil
}

func cmdPrintSchema(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	p := newProjectFlags("print-schema")
	outFile := ""
	p.fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	if err := p.fs.Parse(args); err != nil {
		fmt.Fprint(stderr, printSchemaUsage)
		return err
	}
	cfg, err := p.load()
	if err != nil {
		return err
	}
	proj, err := loadProject(ctx, cfg)
	if err != nil {
		return err
	}
	sch, err := schema.BuildFromIR(proj)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Fprint(stdout, sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
