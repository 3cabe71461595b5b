package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eringen/udaxgui"
	"github.com/eringen/udaxgui/storage"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "udaxgui",
		Short:         "udaxgui - a small Mongolian blog built with Go, Echo, and templ",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("storage", storage.BackendFile, "storage backend: file, memory, sqlite or gorm")
	flags.String("data-file", storage.DefaultDataFile, "JSON collection used by the file backend")
	flags.String("database-path", storage.DefaultDatabasePath, "SQLite database used by the sqlite and gorm backends")
	flags.String("log-level", "info", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(v),
		newSeedCmd(v),
		newExportCmd(v),
		newVersionCmd(),
	)
	return root
}

// initConfig loads an optional .env, then lets environment variables and
// flags override the defaults. A flag set on the command line wins.
func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	v.AutomaticEnv()

	v.SetDefault("site_name", "Удахгүй")
	v.SetDefault("site_url", "http://localhost:3000")
	v.SetDefault("site_description", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("upload_dir", "public/uploads")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("post_cache_ttl", time.Minute)

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			bindErr = err
		}
	})
	return bindErr
}

func siteConfig(v *viper.Viper) udaxgui.SiteConfig {
	return udaxgui.SiteConfig{
		Name:        v.GetString("site_name"),
		URL:         v.GetString("site_url"),
		Description: v.GetString("site_description"),
		Addr:        v.GetString("addr"),
		Storage:     storageConfig(v),
		UploadDir:   v.GetString("upload_dir"),

		SessionSecret: v.GetString("session_secret"),
		CookieSecure:  v.GetBool("cookie_secure"),
		PostCacheTTL:  v.GetDuration("post_cache_ttl"),
	}
}

func storageConfig(v *viper.Viper) storage.Config {
	return storage.Config{
		Backend:      v.GetString("storage"),
		DataFile:     v.GetString("data_file"),
		DatabasePath: v.GetString("database_path"),
	}
}

func newLogger(v *viper.Viper) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
