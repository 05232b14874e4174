package cmd

import (
	"os"
	"path/filepath"

	"cvm8/emu/term"

	"github.com/spf13/cobra"
)

var termCmd = &cobra.Command{
	Use:   "term `path/ROM`",
	Short: "run the emulator inside the terminal",
	Long:  "Runs the program in the terminal. Press Esc or Ctrl+C to quit. Logs go to a file in the temp directory unless --log-file is set.",
	Args:  cobra.ExactArgs(1),
	RunE:  Term,
}

func Term(cmd *cobra.Command, args []string) error {
	s := loadSettings()
	if s.LogFile == "" {
		// the terminal belongs to the display
		s.LogFile = filepath.Join(os.TempDir(), "cvm8.log")
	}
	log, err := newLogger(s)
	if err != nil {
		return err
	}
	defer log.Sync()

	beeper, stopAudio := startAudio(s, log)
	defer stopAudio()

	emu, err := newMachine(args[0], s, log, beeper)
	if err != nil {
		return err
	}

	t, err := term.Open(log)
	if err != nil {
		return err
	}
	defer t.Close()

	return run(cmd.Context(), emu, s, t, log)
}

func init() {
	rootCmd.AddCommand(termCmd)
}
