// Command xsdgen parses XSD schemas and synthesizes sample payloads.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentflare-ai/go-xsdgen/internal/config"
	"github.com/agentflare-ai/go-xsdgen/internal/logger"
)

// app carries state shared by the subcommands
type app struct {
	configPath string
	logLevel   string
	prettyLog  bool

	cfg      config.Config
	log      *logger.Logger
	prompter prompter
}

func main() {
	if err := newRootCmd(&app{prompter: surveyPrompter{}}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "xsdgen",
		Short:         "Generate sample JSON or XML payloads from XSD schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.prettyLog, "pretty-log", false, "human-readable log output")

	root.AddCommand(newParseCmd(a), newGenerateCmd(a), newServeCmd(a))
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("pretty-log") {
		cfg.Log.Pretty = a.prettyLog
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewLogger(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}
