package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/udaxgui/seed"
	"github.com/eringen/udaxgui/storage"
)

func newSeedCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default posts into the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := storage.Open(storageConfig(v))
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := seed.Run(cmd.Context(), a, newLogger(v))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d posts\n", n)
			return nil
		},
	}
}
