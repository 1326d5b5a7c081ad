package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zorxCorp/guaphy/internal/model"
)

func newSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect schema definition files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a schema file parses and every relation resolves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := model.LoadRegistry(args[0])
			if err != nil {
				return err
			}
			printSchemas(cmd.OutOrStdout(), reg.Schemas())
			return nil
		},
	})

	return cmd
}

func printSchemas(out io.Writer, schemas []*model.Schema) {
	for _, s := range schemas {
		fmt.Fprintf(out, "%s (:%s)", s.Name, s.Label())
		if s.SoftDeletes {
			fmt.Fprint(out, " soft-deletes")
		}
		if s.Timestamps {
			fmt.Fprint(out, " timestamps")
		}
		fmt.Fprintln(out)
		for _, rel := range s.Relations {
			arrow := "->"
			if rel.Reverse {
				arrow = "<-"
			}
			fmt.Fprintf(out, "  %s %s[:%s] %s (%s)\n", rel.Name, arrow, rel.Type, rel.Target, rel.Cardinality)
		}
	}
}
