package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"cvm8/emu/cpu"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cvm8 [command]",
	Short: "CHIP-8 virtual machine",
	Long: "An interpreter for CHIP-8 programs, the interpreted language of the COSMAC VIP and Telmac 1800. " +
		"Programs run in a desktop window, in the terminal or in a browser.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cvm8.yaml)")
	flags.Bool("debug", false, "log every executed instruction")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.Int("clock", cpu.DefaultClockRate, "instructions executed per second")
	flags.Int("timer-divisor", cpu.DefaultTimerDivisor, "instructions per delay/sound timer tick")
	flags.IntP("refresh", "r", cpu.DefaultRefreshRate, "frames presented per second")
	flags.String("tone", "", "mp3 or wav file played as the beep (default is a built-in square wave)")
	flags.Float64("volume", -1, "beep volume in powers of two, 0 is unchanged")
	flags.Bool("mute", false, "do not open the audio device")
	flags.Int("max-stack", 0, "maximum call depth, 0 for unlimited")
	flags.Int64("seed", 0, "seed for the RND instruction, 0 seeds from the clock")
	cobra.CheckErr(viper.BindPFlags(flags))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".cvm8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".cvm8")
	}

	viper.SetEnvPrefix("cvm8")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
