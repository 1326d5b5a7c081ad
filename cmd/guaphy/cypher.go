package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"

	"github.com/zorxCorp/guaphy/internal/graph"
	"github.com/zorxCorp/guaphy/internal/transform"
)

var (
	cypherWrite  bool
	cypherStream bool
)

var cypherCmd = &cobra.Command{
	Use:   "cypher <statement>",
	Short: "Run a raw Cypher statement and print the records as JSON",
	Long: `Run a Cypher statement against the configured database. Statements are
routed to readers unless --write is given. With --stream each record is
printed as one JSON line as soon as it arrives.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCypher,
}

func init() {
	cypherCmd.Flags().BoolVar(&cypherWrite, "write", false, "route the statement to the leader")
	cypherCmd.Flags().BoolVar(&cypherStream, "stream", false, "print records as JSON lines while they arrive")
}

func runCypher(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text := strings.Join(args, " ")

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	mode := graph.Read
	if cypherWrite {
		mode = graph.Write
	}
	logger.WithField("mode", mode.String()).Debug("Running statement")

	tr := transform.New(nil, nil)
	out := cmd.OutOrStdout()

	if cypherStream {
		enc := json.NewEncoder(out)
		return client.Stream(ctx, text, mode, graph.DefaultFetchSize, func(rec *neo4j.Record) error {
			row, _ := tr.Records([]*neo4j.Record{rec}).First()
			return enc.Encode(row)
		})
	}

	records, err := client.Execute(ctx, text, mode)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(tr.Records(records))
}
