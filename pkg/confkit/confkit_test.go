package confkit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("relative joins base", func(t *testing.T) {
		require.Equal(t, filepath.Join("/etc/app", "market.yaml"), ResolvePath("/etc/app", "market.yaml"))
	})

	t.Run("absolute passes through", func(t *testing.T) {
		require.Equal(t, "/opt/market.yaml", ResolvePath("/etc/app", "/opt/market.yaml"))
	})

	t.Run("env vars expand", func(t *testing.T) {
		t.Setenv("CONF_DIR", "/opt/conf")
		require.Equal(t, "/opt/conf/market.yaml", ResolvePath("/etc/app", "${CONF_DIR}/market.yaml"))
	})
}

func TestBaseDir(t *testing.T) {
	require.Equal(t, "/etc/app", BaseDir("/etc/app/coindeck.yaml"))
}

func TestLoadFile(t *testing.T) {
	type sample struct {
		Name  string
		Count int `json:",default=3"`
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: demo\n"), 0o600))

	cfg, err := LoadFile[sample](path, false)
	require.NoError(t, err)
	require.Equal(t, "demo", cfg.Name)
	require.Equal(t, 3, cfg.Count)

	_, err = LoadFile[sample](filepath.Join(dir, "missing.yaml"), false)
	require.Error(t, err)
}

func TestSectionHydrate(t *testing.T) {
	type sample struct{ Name string }

	loader := func(path string) (*sample, error) {
		if filepath.Base(path) != "side.yaml" {
			return nil, errors.New("unexpected path")
		}
		return &sample{Name: "loaded"}, nil
	}

	t.Run("empty section stays empty", func(t *testing.T) {
		s := Section[sample]{}
		require.NoError(t, s.Hydrate("/etc/app", loader))
		require.Nil(t, s.Value)
	})

	t.Run("file section hydrates and keeps resolved path", func(t *testing.T) {
		s := Section[sample]{File: "side.yaml"}
		require.NoError(t, s.Hydrate("/etc/app", loader))
		require.NotNil(t, s.Value)
		require.Equal(t, "loaded", s.Value.Name)
		require.Equal(t, filepath.Join("/etc/app", "side.yaml"), s.File)
	})

	t.Run("loader failure propagates", func(t *testing.T) {
		s := Section[sample]{File: "other.yaml"}
		require.Error(t, s.Hydrate("/etc/app", loader))
	})
}

func TestProjectRoot(t *testing.T) {
	root, err := ProjectRoot()
	require.NoError(t, err)
	require.True(t, fileExists(filepath.Join(root, "go.mod")), "root must contain go.mod")

	path, err := ProjectPath("etc/coindeck.yaml")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "etc/coindeck.yaml"), path)
}
