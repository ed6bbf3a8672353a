package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackb/websymbols/pkg/query"
	"github.com/stackb/websymbols/pkg/queryconfig"
)

const envPrefix = "SYMBOLQUERY"

// app holds the state shared by the subcommands.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger

	registry *prometheus.Registry
	metrics  *query.Metrics
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		out:    out,
		errOut: errOut,
		logger: zerolog.Nop(),
	}

	root := &cobra.Command{
		Use:   "symbolquery",
		Short: "Resolve, list and complete web symbols",
		Long: `symbolquery answers symbol queries against the indexes named by a
YAML configuration file.

Examples:
  symbolquery --config symbols.yaml match /html/elements/div
  symbolquery --config symbols.yaml --file src/App.vue list --expand html attributes
  symbolquery --config symbols.yaml complete /html/elements/tr 2
  symbolquery convert vue.star vue.pb`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "the YAML configuration file")
	flags.String("file", "", "the file the query is issued from")
	flags.String("framework", "", "the framework in effect (overrides the configuration)")
	flags.String("log_level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Bool("debug", false, "dump the executor configuration to stderr")
	flags.Bool("metrics", false, "print query metrics to stderr on exit")
	flags.Bool("strict", false, "ignore ambient scopes")
	flags.Bool("exclude_virtual", false, "exclude virtual symbols")
	flags.Bool("include_abstract", false, "include abstract symbols")

	root.AddCommand(
		a.newMatchCmd(),
		a.newListCmd(),
		a.newCompleteCmd(),
		a.newExclusiveCmd(),
		a.newConvertCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(a.v.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("--log_level: %w", err)
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if a.v.GetBool("metrics") {
		a.registry = prometheus.NewRegistry()
		a.metrics = query.NewMetrics(a.registry)
	}
	return nil
}

func (a *app) params() query.Params {
	return query.Params{
		StrictScope:     a.v.GetBool("strict"),
		ExcludeVirtual:  a.v.GetBool("exclude_virtual"),
		IncludeAbstract: a.v.GetBool("include_abstract"),
	}
}

// executor builds the factory from the configuration and returns the
// executor for the --file and --framework location.
func (a *app) executor(ctx context.Context) (*query.Executor, error) {
	filename := a.v.GetString("config")
	if filename == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := queryconfig.LoadFile(filename)
	if err != nil {
		return nil, err
	}
	b := &queryconfig.Builder{Logger: a.logger, Metrics: a.metrics}
	factory, err := b.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	loc := query.Location{File: a.v.GetString("file"), Framework: a.v.GetString("framework")}
	e := factory.Executor(loc, true)
	if a.v.GetBool("debug") {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 3}
		fmt.Fprintf(a.errOut, "location: %v\ncontext: %s", loc, cfg.Sdump(e.Context()))
		for _, s := range e.Scopes() {
			fmt.Fprintf(a.errOut, "scope: %v\n", s)
		}
	}
	return e, nil
}

func (a *app) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// finish prints metrics when requested.
func (a *app) finish() error {
	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.errOut, mf); err != nil {
			return err
		}
	}
	return nil
}
