package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zorxCorp/guaphy/internal/config"
	"github.com/zorxCorp/guaphy/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "guaphy",
	Short: "guaphy - compose and run Cypher against Neo4j",
	Long: `guaphy composes Cypher statements from declared node schemas, runs them
against Neo4j and maps the results back onto entities.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		logger.SetOutput(cmd.ErrOrStderr())
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		if err := logging.Initialize(cfg.Logging()); err != nil {
			logger.WithError(err).Warn("Failed to initialize structured logging")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .guaphy/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`guaphy {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(cypherCmd)
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newSchemaCommand())
}
