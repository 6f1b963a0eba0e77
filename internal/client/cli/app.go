package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/talentscout/internal/config"
)

type App struct {
	cfgPath  string
	driver   string
	dsn      string
	archive  string
	logLevel string
	verbose  bool

	config *config.Config
}

// NewRootCmd builds the talentscout command tree.
func NewRootCmd() *cobra.Command {
	a := &App{}

	root := &cobra.Command{
		Use:           "talentscout",
		Short:         "Candidate intake interviews",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "config file (JSON or YAML)")
	pf.StringVar(&a.driver, "driver", "", "database driver (sqlite, postgres)")
	pf.StringVar(&a.dsn, "db", "", "database DSN or SQLite path")
	pf.StringVar(&a.archive, "archive", "", "archive JSONL path")
	pf.StringVar(&a.logLevel, "log-level", "", "log level")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "write logs to stderr")

	root.AddCommand(
		a.newChatCmd(),
		a.newRemoteCmd(),
		a.newShowCmd(),
		a.newListCmd(),
		newGenKeyCmd(),
	)
	return root
}

// loadConfig resolves settings the same way the server does, then applies
// the flags given on the command line.
func (a *App) loadConfig(cmd *cobra.Command) error {
	var args []string
	if a.cfgPath != "" {
		args = []string{"-c", a.cfgPath}
	}

	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.DatabaseDriver = a.driver
	}
	if flags.Changed("db") {
		cfg.DatabaseDSN = a.dsn
	}
	if flags.Changed("archive") {
		cfg.ArchivePath = a.archive
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	a.config = cfg
	return nil
}

// logOutput is where component logs go; the terminal belongs to the
// interview unless -v is given.
func (a *App) logOutput(cmd *cobra.Command) io.Writer {
	if a.verbose {
		return cmd.ErrOrStderr()
	}
	return io.Discard
}
