package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved sessions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved sessions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withLibrary(cmd, func(l libraryCtx) error {
					recs, err := l.lib.List(l.ctx)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "NAME\tNODES\tDISABLED\tUPDATED")
					for _, r := range recs {
						fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Name, r.NodeCount,
							strings.Join(r.DisabledTypes, ","), r.UpdatedAt.Format("2006-01-02 15:04"))
					}
					return tw.Flush()
				})
			},
		},
		&cobra.Command{
			Use:   "export <name> <file>",
			Short: "Write a saved session to a document file (.data, .json, .yaml)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withLibrary(cmd, func(l libraryCtx) error {
					path, err := l.lib.Export(l.ctx, args[0], args[1])
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", args[0], path)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "import <file> <name>",
			Short: "Store a session document file under a name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withLibrary(cmd, func(l libraryCtx) error {
					if _, err := l.lib.Import(l.ctx, args[1], args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %s\n", args[0], args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a saved session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withLibrary(cmd, func(l libraryCtx) error {
					return l.lib.Delete(l.ctx, args[0])
				})
			},
		},
		newResetCmd(),
	)
	return cmd
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all sessions without --yes")
			}
			return withLibrary(cmd, func(l libraryCtx) error {
				return l.lib.Reset(l.ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every saved session")
	return cmd
}
