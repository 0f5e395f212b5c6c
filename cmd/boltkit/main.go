package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "boltkit",
	Short: "boltkit builds Slack Block Kit views and runs a bolt-style app",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// reinitialize the logger now that --log-level and co are parsed
		return initLogger(cmd)
	},
	SilenceUsage: true,
}

func initLogger(cmd *cobra.Command) error {
	f := cmd.Flags()
	lvl, _ := f.GetString("log-level")
	level, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", lvl)
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(os.Stderr)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	ctx := logger.With().Timestamp()
	if withCaller, _ := f.GetBool("with-caller"); withCaller {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
	return nil
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("with-caller", false, "Log the caller of each log line")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newFormatDateCommand())

	err := rootCmd.Execute()
	cobra.CheckErr(err)
}
