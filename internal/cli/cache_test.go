package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/rankplay/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	// Should be under home directory
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	// Should end with "rankplay"
	if !strings.HasSuffix(dir, "rankplay") {
		t.Errorf("cacheDir() = %q, should end with 'rankplay'", dir)
	}

	// Should contain ".cache" in path
	if !strings.Contains(dir, ".cache") {
		t.Errorf("cacheDir() = %q, should contain '.cache'", dir)
	}
}

func TestCacheDirStructure(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/rankplay
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "rankplay")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "rankplay"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCachePurgeCommands(t *testing.T) {
	tests := []struct {
		args     []string
		wantLive bool
	}{
		{[]string{"cache", "prune"}, true},
		{[]string{"cache", "clear"}, false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			xdg := t.TempDir()
			t.Setenv("XDG_CACHE_HOME", xdg)
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())

			ctx := context.Background()
			fc, err := cache.NewFileCache(filepath.Join(xdg, appName))
			if err != nil {
				t.Fatal(err)
			}
			if err := fc.Set(ctx, "frame:0:live", []byte("<svg/>"), time.Hour); err != nil {
				t.Fatal(err)
			}
			if err := fc.Set(ctx, "frame:1:stale", []byte("<svg/>"), time.Nanosecond); err != nil {
				t.Fatal(err)
			}
			time.Sleep(5 * time.Millisecond)

			c, _ := newTestCLI(t)
			root := c.RootCommand()
			root.SetArgs(tt.args)
			if err := root.ExecuteContext(ctx); err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}

			if _, hit, _ := fc.Get(ctx, "frame:0:live"); hit != tt.wantLive {
				t.Errorf("live entry present = %v, want %v", hit, tt.wantLive)
			}
			if _, hit, _ := fc.Get(ctx, "frame:1:stale"); hit {
				t.Error("expired entry survived")
			}
		})
	}
}

func TestCachePurgeCommandEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, _ := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear on missing dir: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
