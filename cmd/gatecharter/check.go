package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/jask/gatecharter/internal/catalog"
	"github.com/jask/gatecharter/internal/config"
	"github.com/jask/gatecharter/internal/rules"
)

func newCheckCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [catalog]",
		Short: "Validate a gate catalog file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.catalog
			if len(args) == 1 {
				path = args[0]
			}
			threshold := catalog.DefaultGroupThreshold
			if path == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				path, threshold = cfg.Catalog.Path, cfg.Catalog.GroupThreshold
			}
			return runCheck(cmd.OutOrStdout(), path, threshold)
		},
	}
}

func runCheck(w io.Writer, path string, threshold int) error {
	c, err := catalog.Load(path, catalog.WithGroupThreshold(threshold))
	if c == nil {
		return err
	}
	errs := multierr.Errors(err)
	for _, e := range errs {
		fmt.Fprintf(w, "  %v\n", e)
	}

	r := rules.New(c)
	searchable := 0
	for _, g := range c.Gates() {
		if r.IsSearchable(g.Name, nil, false, true) {
			searchable++
		}
	}
	fmt.Fprintf(w, "%s: %d gates, %d groups, %d searchable\n", path, c.Len(), len(c.Groups()), searchable)
	if len(errs) > 0 {
		return fmt.Errorf("%d rejected rows", len(errs))
	}
	return nil
}
