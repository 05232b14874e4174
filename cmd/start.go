package cmd

import (
	"cvm8/emu/display"
	"cvm8/emu/screen"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the emulator in a window",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

// cvm8 start 'path/to/ROM' -r 60 --scale 12
func Start(cmd *cobra.Command, args []string) error {
	s := loadSettings()
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

	win, err := screen.NewWindow(display.Width, display.Height, viper.GetInt("scale"))
	if err != nil {
		return err
	}
	defer win.Destroy()

	return run(cmd.Context(), emu, s, win, log)
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().Int("scale", 10, "window pixels per display cell")
	cobra.CheckErr(viper.BindPFlag("scale", startCmd.Flags().Lookup("scale")))
}
