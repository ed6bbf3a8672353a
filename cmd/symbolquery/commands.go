package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stackb/websymbols/pkg/index"
	"github.com/stackb/websymbols/pkg/starlarkeval"
	"github.com/stackb/websymbols/pkg/symbol"
)

// completion is the JSON form of a symbol.CompletionItem.
type completion struct {
	Name     string `json:"name"`
	Offset   int    `json:"offset"`
	Priority string `json:"priority"`
	Origin   string `json:"origin,omitempty"`
}

func symbolSpecs(symbols []*symbol.Symbol) []*index.SymbolSpec {
	specs := make([]*index.SymbolSpec, 0, len(symbols))
	for _, sym := range symbols {
		specs = append(specs, index.FromSymbol(sym))
	}
	return specs
}

func (a *app) newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match PATH",
		Short: "Resolve a symbol path, e.g. /html/elements/div",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := symbol.ParsePath(args[0])
			if err != nil {
				return err
			}
			e, err := a.executor(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := e.RunNameMatchQuery(cmd.Context(), path, a.params())
			if err != nil {
				return err
			}
			if err := a.writeJSON(symbolSpecs(matches)); err != nil {
				return err
			}
			return a.finish()
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	var prefix string
	var expand bool
	cmd := &cobra.Command{
		Use:   "list NAMESPACE KIND",
		Short: "List the symbols of a kind, optionally in the scope of a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, kind := symbol.Namespace(args[0]), symbol.Kind(args[1])
			e, err := a.executor(cmd.Context())
			if err != nil {
				return err
			}
			var symbols []*symbol.Symbol
			if prefix == "" {
				symbols, err = e.ListSymbols(cmd.Context(), ns, kind, expand, a.params())
			} else {
				path, perr := symbol.ParsePath(prefix)
				if perr != nil {
					return perr
				}
				symbols, err = e.RunListSymbolsQuery(cmd.Context(), path, ns, kind, expand, a.params())
			}
			if err != nil {
				return err
			}
			if err := a.writeJSON(symbolSpecs(symbols)); err != nil {
				return err
			}
			return a.finish()
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "resolve this path first and list in the scope of its matches")
	cmd.Flags().BoolVar(&expand, "expand", false, "expand pattern symbols")
	return cmd
}

func (a *app) newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete PATH POSITION",
		Short: "Complete the last segment of a path at a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := symbol.ParsePath(args[0])
			if err != nil {
				return err
			}
			position, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("position: %w", err)
			}
			e, err := a.executor(cmd.Context())
			if err != nil {
				return err
			}
			items, err := e.RunCodeCompletionQuery(cmd.Context(), path, position, a.params())
			if err != nil {
				return err
			}
			out := make([]completion, 0, len(items))
			for _, item := range items {
				c := completion{Name: item.Name, Offset: item.Offset, Priority: item.Priority.String()}
				if item.Symbol != nil {
					c.Origin = item.Symbol.Origin
				}
				out = append(out, c)
			}
			if err := a.writeJSON(out); err != nil {
				return err
			}
			return a.finish()
		},
	}
}

func (a *app) newExclusiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exclusive NAMESPACE KIND",
		Short: "Report whether a scope claims exclusive ownership of a kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.executor(cmd.Context())
			if err != nil {
				return err
			}
			exclusive := e.HasExclusiveScopeFor(symbol.Namespace(args[0]), symbol.Kind(args[1]), nil)
			return a.writeJSON(exclusive)
		},
	}
}

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a symbol index between .star, .json and .pb",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			var spec *index.IndexSpec
			var err error
			if filepath.Ext(in) == ".star" {
				spec, err = starlarkeval.EvalFile(in, func(format string, args ...interface{}) {
					a.logger.Info().Str("file", in).Msgf(format, args...)
				})
			} else {
				spec, err = index.ReadFile(in)
			}
			if err != nil {
				return err
			}
			if _, err := index.NewScope(spec); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if err := index.WriteFile(out, spec); err != nil {
				return err
			}
			a.logger.Info().Msgf("wrote %s (%d symbols)", out, len(spec.Symbols))
			return nil
		},
	}
}
