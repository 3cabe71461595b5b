package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/udaxgui"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(v)
			app := udaxgui.New(siteConfig(v), udaxgui.ViewFuncs{}, udaxgui.WithLogger(logger))
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.Start(ctx)
		},
	}
	cmd.Flags().String("addr", ":3000", "listen address")
	cmd.Flags().String("upload-dir", "public/uploads", "directory for uploaded images")
	return cmd
}
