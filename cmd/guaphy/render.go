package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zorxCorp/guaphy/internal/model"
	"github.com/zorxCorp/guaphy/internal/query"
)

// renderOptions holds the flags of the render command.
type renderOptions struct {
	Schema  string
	Model   string
	With    []string
	Count   []string
	Where   map[string]string
	Limit   int
	Trashed bool
}

func newRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the Cypher a model query would execute",
		Long: `Build a read statement for a model declared in a schema file and print
it without connecting to the database.

Example:
  guaphy render --schema models.yaml --model Person --with actedInMovies --where name=Keanu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := render(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "schema definition file (YAML)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "schema name to query")
	cmd.Flags().StringSliceVar(&opts.With, "with", nil, "relations to eager load")
	cmd.Flags().StringSliceVar(&opts.Count, "count", nil, "relations to eager count")
	cmd.Flags().StringToStringVar(&opts.Where, "where", nil, "equality conditions (key=value)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "limit the returned rows")
	cmd.Flags().BoolVar(&opts.Trashed, "trashed", false, "include soft-deleted nodes")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func render(opts *renderOptions) (string, error) {
	reg, err := model.LoadRegistry(opts.Schema)
	if err != nil {
		return "", err
	}
	entity, err := reg.New(opts.Model)
	if err != nil {
		return "", err
	}

	b := query.New(nil, reg, entity)
	if opts.Trashed {
		b.WithTrashed()
	}
	for _, key := range slices.Sorted(maps.Keys(opts.Where)) {
		b.Where(key, opts.Where[key])
	}
	for _, name := range opts.With {
		b.WithRelation(name)
	}
	for _, name := range opts.Count {
		b.WithCountRelation(name)
	}
	if err := b.Err(); err != nil {
		return "", err
	}

	b.Return()
	if opts.Limit > 0 {
		b.Limit(opts.Limit)
	}
	return b.ToCypher(), nil
}
