package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-go-golems/boltkit/pkg/app"
	"github.com/go-go-golems/boltkit/pkg/config"
	"github.com/go-go-golems/boltkit/pkg/tap"
	"github.com/go-go-golems/boltkit/pkg/tracing"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var envFiles []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo app over socket mode or HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFiles...); err != nil {
				return err
			}
			v, err := config.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			settings, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, settings)
		},
	}
	config.AddFlags(cmd.Flags())
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Files to load into the environment (default .env)")
	return cmd
}

func serve(ctx context.Context, s config.Settings) error {
	shutdown, err := tracing.Install(ctx, s.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("tracer shutdown error")
		}
	}()

	var opts []app.Option
	if s.Tap.Enabled {
		t, err := tap.New(s.Tap)
		if err != nil {
			return errors.Wrap(err, "build tap")
		}
		defer func() {
			if err := t.Close(); err != nil {
				log.Error().Err(err).Msg("tap close error")
			}
		}()
		opts = append(opts, app.WithObserver(t), app.WithRunner(t))
	}

	a, err := app.New(app.Schema{
		Options:   s,
		Listeners: []func(*app.App){registerListeners},
		Handlers:  []func(*app.App){registerHandlers},
	}, opts...)
	if err != nil {
		return err
	}

	log.Info().Bool("socket_mode", s.SocketMode).Int("port", s.Port).Msg("starting boltkit")
	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
