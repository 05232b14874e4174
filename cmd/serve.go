package cmd

import (
	"cvm8/emu/web"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve `path/ROM`",
	Short: "run the emulator and play it in a browser",
	Args:  cobra.ExactArgs(1),
	RunE:  Serve,
}

func Serve(cmd *cobra.Command, args []string) error {
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

	srv := web.New(log)
	if err := srv.Listen(viper.GetString("listen")); err != nil {
		return err
	}
	defer srv.Close()

	if viper.GetBool("open") {
		if err := open.Start(srv.URL()); err != nil {
			log.Warn("could not open browser", zap.Error(err))
		}
	}

	return run(cmd.Context(), emu, s, srv, log)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "127.0.0.1:8088", "address to serve the web frontend on")
	serveCmd.Flags().Bool("open", false, "open the web frontend in the default browser")
	cobra.CheckErr(viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen")))
	cobra.CheckErr(viper.BindPFlag("open", serveCmd.Flags().Lookup("open")))
}
