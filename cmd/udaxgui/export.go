package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/udaxgui/storage"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write posts.json and categories.json for a static deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := storage.Open(storageConfig(v))
			if err != nil {
				return err
			}
			defer a.Close()

			nPosts, nCats, err := storage.Export(cmd.Context(), a, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d posts and %d categories to %s\n", nPosts, nCats, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", storage.DefaultExportDir, "output directory")
	return cmd
}
