// Package cli implements the docqa command-line interface.
//
// Commands are thin: they parse flags, delegate to the driving-port
// services installed via SetServices, and format output. Business
// rules live in the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by the composition root. Commands nil-check the
// ones they need so the binary degrades with a clear message instead
// of panicking when wiring is incomplete.
var (
	ingestService driving.IngestService
	queryService  driving.QueryService
	configStore   driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over your documents",
	Long: `docqa ingests documents into a local knowledge base and answers
questions about them using retrieval-augmented generation.

Ingest files, then ask questions; answers are grounded in the indexed
content and the model is instructed to refuse rather than invent.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
}

// Services bundles everything the CLI consumes.
type Services struct {
	Ingest driving.IngestService
	Query  driving.QueryService
	Config driven.ConfigStore
}

// SetServices installs the driving-port implementations the commands
// call. The composition root invokes this before Execute.
func SetServices(s Services) {
	ingestService = s.Ingest
	queryService = s.Query
	configStore = s.Config
}

// SetVersion overrides the build-time version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
