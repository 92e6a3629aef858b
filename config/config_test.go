package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeTempConfig(t, "kernel.yaml", "debug_level: 2\nactivate_instance: true\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.DebugLevel)
	assert.True(t, cfg.ActivateInstance)
}

func TestLoadYMLExtension(t *testing.T) {
	path := writeTempConfig(t, "kernel.yml", "debug_level: 7\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.DebugLevel)
}

func TestLoadTOMLFile(t *testing.T) {
	path := writeTempConfig(t, "kernel.toml", "debug_level = 4\nactivate_instance = false\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.DebugLevel)
	assert.False(t, cfg.ActivateInstance)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeTempConfig(t, "kernel.json", `{"debug_level": 1}`)

	_, err := LoadFile(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "kernel.yaml", "debug_level: [not an int\n")

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestFeedFileNilTarget(t *testing.T) {
	require.ErrorIs(t, FeedFile("kernel.yaml", nil), ErrNilTarget)
}

func TestEnvFeeder(t *testing.T) {
	t.Setenv("KERNEL_DEBUG_LEVEL", "5")
	t.Setenv("KERNEL_ACTIVATE_INSTANCE", "true")

	cfg := &Config{}
	require.NoError(t, NewEnvFeeder("KERNEL_").Feed(cfg))
	assert.Equal(t, 5, cfg.DebugLevel)
	assert.True(t, cfg.ActivateInstance)
}

func TestEnvFeederUnsetLeavesDefaults(t *testing.T) {
	cfg := &Config{DebugLevel: 9}
	require.NoError(t, NewEnvFeeder("KERNEL_UNSET_TEST_").Feed(cfg))
	assert.Equal(t, 9, cfg.DebugLevel)
	assert.False(t, cfg.ActivateInstance)
}

func TestEnvFeederCastFailure(t *testing.T) {
	t.Setenv("KERNEL_DEBUG_LEVEL", "not-a-number")

	err := NewEnvFeeder("KERNEL_").Feed(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KERNEL_DEBUG_LEVEL")
}

func TestEnvFeederRejectsNonStruct(t *testing.T) {
	require.ErrorIs(t, NewEnvFeeder("").Feed(nil), ErrEnvInvalidStructure)
	require.ErrorIs(t, NewEnvFeeder("").Feed(Config{}), ErrEnvInvalidStructure)

	n := 0
	require.ErrorIs(t, NewEnvFeeder("").Feed(&n), ErrEnvInvalidStructure)
}

func TestEnvFeederOverlaysFileValues(t *testing.T) {
	path := writeTempConfig(t, "kernel.yaml", "debug_level: 1\n")
	t.Setenv("KERNEL_DEBUG_LEVEL", "8")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, NewEnvFeeder("KERNEL_").Feed(cfg))
	assert.Equal(t, 8, cfg.DebugLevel)
}

func TestWatcherFiresOnWrite(t *testing.T) {
	path := writeTempConfig(t, "kernel.yaml", "debug_level: 1\n")

	changed := make(chan string, 1)
	w, err := NewWatcher(path, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte("debug_level: 2\n"), 0o600))

	select {
	case p := <-changed:
		assert.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a change notification for the watched file")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "kernel.yaml")
	require.NoError(t, os.WriteFile(watched, []byte("debug_level: 1\n"), 0o600))

	changed := make(chan string, 1)
	w, err := NewWatcher(watched, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o600))

	select {
	case p := <-changed:
		t.Fatalf("Expected no notification for sibling files, got %s", p)
	case <-time.After(500 * time.Millisecond):
	}
}
