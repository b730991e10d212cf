package cli

import (
	"clementus360/doit/config"
	"clementus360/doit/tui"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal task list",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write logs here while the UI is open")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the UI owns the terminal
	config.Logger.SetOutput(io.Discard)
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		config.Logger.SetOutput(f)
	}

	a, err := newApp(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(tui.Options{
		Context:      cmd.Context(),
		Store:        a.store,
		Celebrations: a.celebrations,
	})
}
