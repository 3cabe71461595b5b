package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/eringen/udaxgui/storage"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out.String()
}

func TestVersion(t *testing.T) {
	if got := run(t, "version"); got != "udaxgui dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestSeedThenExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "blog.db")
	t.Setenv("LOG_LEVEL", "error")

	if got := run(t, "seed", "--storage", "sqlite", "--database-path", db); !strings.Contains(got, "Seeded 5 posts") {
		t.Errorf("seed output = %q", got)
	}
	if got := run(t, "seed", "--storage", "sqlite", "--database-path", db); !strings.Contains(got, "Seeded 0 posts") {
		t.Errorf("second seed output = %q", got)
	}

	out := filepath.Join(dir, "static-data")
	got := run(t, "export", "--storage", "sqlite", "--database-path", db, "--out", out)
	if !strings.Contains(got, "Exported 4 posts") {
		t.Errorf("export output = %q", got)
	}
	for _, name := range []string{storage.PostsFile, storage.CategoriesFile} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestEnvironmentConfig(t *testing.T) {
	t.Setenv("SITE_NAME", "Тест")
	t.Setenv("STORAGE", "memory")
	t.Setenv("POST_CACHE_TTL", "30s")
	t.Setenv("SESSION_SECRET", "secret")

	v := viper.New()
	cmd := newServeCmd(v)
	if err := initConfig(v, cmd); err != nil {
		t.Fatal(err)
	}
	cfg := siteConfig(v)
	if cfg.Name != "Тест" || cfg.Storage.Backend != "memory" || cfg.SessionSecret != "secret" {
		t.Errorf("siteConfig = %+v", cfg)
	}
	if cfg.PostCacheTTL != 30*time.Second {
		t.Errorf("PostCacheTTL = %v, want 30s", cfg.PostCacheTTL)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("Addr = %q, want the flag default", cfg.Addr)
	}
}
