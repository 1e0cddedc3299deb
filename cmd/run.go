package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/synthtutor/internal/app"
)

// runApp resolves config, opens the journal and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	opts := app.Options{Config: cfg, Log: log}
	st, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		opts.Journal = st.EventRepo()
	}

	return app.Run(cmd.Context(), opts)
}
