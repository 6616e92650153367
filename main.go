package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bkendle1/CS562-ESQL/cg"
	"github.com/Bkendle1/CS562-ESQL/internal/config"
	"github.com/Bkendle1/CS562-ESQL/internal/logger"
	"github.com/Bkendle1/CS562-ESQL/mf"
	"github.com/Bkendle1/CS562-ESQL/phi"
	"github.com/Bkendle1/CS562-ESQL/plan"
	"github.com/Bkendle1/CS562-ESQL/sink"
	"github.com/Bkendle1/CS562-ESQL/source"
)

type options struct {
	configFile string
	envFile    string
	csv        string
	sqlite     string
	postgres   string
	table      string
	format     string
	color      bool
	emitAwk    string
	awk        bool
	separator  string
	parallel   bool
	linear     bool
	logLevel   string
}

func oops(stage string, err error) {
	fmt.Fprintf(os.Stderr, "ERROR [%s] %s\n", stage, err)
	os.Exit(1)
}

func newRootCmd(opt *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "esql [phi-file]",
		Short: "esql - evaluate multi feature queries",
		Long: `esql evaluates an ESQL query, given as the six phi operands, over a base
relation with the MF evaluation algorithm.

Evaluate a phi file over a csv file:
  esql query.phi --csv sales.csv

Without phi file the operands are read interactively:
  esql --sqlite sales.db --table sales

Emit the equivalent AWK program, or run it with the embedded goawk:
  esql query.phi --emit-awk query.awk
  esql query.phi --csv sales.csv --awk`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(run(cmd, opt, args))
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opt.configFile, "config", "c", "", "config file path")
	flags.StringVar(&opt.envFile, "env-file", ".env", "dotenv file with the database credentials")
	flags.StringVar(&opt.csv, "csv", "", "csv file of the base relation")
	flags.StringVar(&opt.sqlite, "sqlite", "", "sqlite database of the base relation")
	flags.StringVar(&opt.postgres, "postgres", "", "postgres connection string, empty uses the database config")
	flags.StringVar(&opt.table, "table", "", "table of the base relation in a database")
	flags.StringVarP(&opt.format, "format", "f", "", "output format: table, csv or json")
	flags.BoolVar(&opt.color, "color", false, "colorize the table header")
	flags.StringVar(&opt.emitAwk, "emit-awk", "", "write the generated AWK program to the path, - is stdout")
	flags.BoolVar(&opt.awk, "awk", false, "run the generated AWK program over the csv file with goawk")
	flags.StringVar(&opt.separator, "separator", "", "output field separator of the AWK program")
	flags.BoolVar(&opt.parallel, "parallel", false, "run the grouping variable scans in parallel")
	flags.BoolVar(&opt.linear, "linear-lookup", false, "find groups by linear search instead of the hash index")
	flags.StringVar(&opt.logLevel, "log-level", "", "debug, info, warn or error")

	return rootCmd
}

func main() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		oops("esql", err)
	}
}

// command line flags win over the configuration
func merge(cmd *cobra.Command, opt *options, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	switch {
	case opt.csv != "":
		cfg.Source.Kind = "csv"
		cfg.Source.Path = opt.csv
		break
	case opt.sqlite != "":
		cfg.Source.Kind = "sqlite"
		cfg.Source.Path = opt.sqlite
		break
	case changed("postgres"):
		cfg.Source.Kind = "postgres"
		if opt.postgres != "" {
			cfg.Database.DSN = opt.postgres
		}
		break
	default:
		break
	}
	if opt.table != "" {
		cfg.Source.Table = opt.table
	}
	if opt.format != "" {
		cfg.Output.Format = opt.format
	}
	if changed("color") {
		cfg.Output.Color = opt.color
	}
	if changed("separator") {
		cfg.Output.Separator = opt.separator
	}
	if changed("parallel") {
		cfg.Engine.Parallel = opt.parallel
	}
	if changed("linear-lookup") {
		cfg.Engine.LinearLookup = opt.linear
	}
	if opt.logLevel != "" {
		cfg.Log.Level = opt.logLevel
	}
	return cfg.Validate()
}

func loadSpec(args []string) (*phi.Spec, error) {
	if len(args) > 0 {
		return phi.LoadFile(args[0])
	}
	p := phi.NewLinerPrompter()
	defer p.Close()
	return phi.LoadPrompt(p)
}

func emitAwk(path string, code string) error {
	if path == "-" {
		_, err := os.Stdout.WriteString(code)
		return err
	}
	return os.WriteFile(path, []byte(code), 0644)
}

// run returns the exit status, deferred log sync finishes before the exit
func run(cmd *cobra.Command, opt *options, args []string) int {
	cfg, err := config.Load(opt.configFile, opt.envFile)
	if err != nil {
		oops("config", err)
	}
	if err := merge(cmd, opt, cfg); err != nil {
		oops("config", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		oops("logger", err)
	}
	defer func() { _ = log.Sync() }()

	spec, err := loadSpec(args)
	if err != nil {
		oops("phi", err)
	}
	log.Debug("phi loaded", zap.Stringer("phi", spec))

	schema, err := plan.Build(spec)
	if err != nil {
		oops("plan", err)
	}
	log.Debug("schema built", zap.String("plan", schema.Print()))

	if opt.emitAwk != "" || opt.awk {
		code, err := cg.Generate(schema, &cg.Config{
			OutputSeparator: cfg.Output.Separator,
			Header:          true,
		})
		if err != nil {
			oops("code-gen", err)
		}
		if opt.emitAwk != "" {
			if err := emitAwk(opt.emitAwk, code); err != nil {
				oops("save", err)
			}
		}
		if opt.awk {
			return runAwk(cfg, schema, code)
		}
		if cfg.Source.Kind == "" {
			return 0
		}
	}

	if err := evaluate(cfg, schema, log); err != nil {
		_ = log.Sync()
		oops("evaluate", err)
	}
	return 0
}

func runAwk(cfg *config.Config, schema *plan.Schema, code string) int {
	if cfg.Source.Kind != "csv" {
		oops("awk", fmt.Errorf("the AWK program reads a csv file, use --csv"))
	}
	status, err := cg.Execute(code, cg.Args(schema, cfg.Source.Path), os.Stdout, os.Stderr)
	if err != nil {
		oops("awk", err)
	}
	return status
}

func evaluate(cfg *config.Config, schema *plan.Schema, log *zap.Logger) error {
	ctx := context.Background()
	src, err := openSource(ctx, cfg, schema)
	if err != nil {
		return err
	}
	log.Info(
		"source loaded",
		zap.String("kind", cfg.Source.Kind),
		zap.Int("rows", src.Len()),
	)

	result, err := mf.RunSchema(
		schema,
		src,
		mf.WithLogger(log),
		mf.WithParallelScans(cfg.Engine.Parallel),
		mf.WithLinearLookup(cfg.Engine.LinearLookup),
	)
	if err != nil {
		return err
	}
	if len(result.Diagnostics) > 0 {
		log.Warn("rows skipped", zap.Int("count", len(result.Diagnostics)))
	}

	format, err := sink.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	return sink.New(format, cfg.Output.Color).Write(os.Stdout, result)
}

// openSource materializes the base relation, databases only return the
// attributes the query reads
func openSource(ctx context.Context, cfg *config.Config, schema *plan.Schema) (*source.Memory, error) {
	switch strings.ToLower(cfg.Source.Kind) {
	case "csv":
		return source.ReadCSVFile(cfg.Source.Path)

	case "sqlite":
		db, err := source.OpenSQLite(cfg.Source.Path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return source.Query(ctx, db, cfg.Source.Table, schema.SourceAttributes())

	case "postgres":
		pool, err := source.OpenPostgres(ctx, cfg.Database.PostgresDSN())
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		return source.QueryPostgres(ctx, pool, cfg.Source.Table, schema.SourceAttributes())

	default:
		return nil, fmt.Errorf("no base relation, use --csv, --sqlite or --postgres")
	}
}
