package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/jinja-div/pkg/md"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range EnvVars() {
		t.Setenv(v, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "valid config",
			config: Config{
				DefaultFormat:  "man",
				OutputDir:      dir,
				Standalone:     true,
				HighlightStyle: "monokai",
			},
			wantErr: false,
		},
		{
			name:    "output dir not created yet",
			config:  Config{OutputDir: filepath.Join(dir, "build")},
			wantErr: false,
		},
		{
			name:    "unknown format",
			config:  Config{DefaultFormat: "docx"},
			wantErr: true,
			errMsg:  "default_format",
		},
		{
			name:    "output dir is a file",
			config:  Config{OutputDir: file},
			wantErr: true,
			errMsg:  "output_dir must be a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Format(t *testing.T) {
	tests := []struct {
		value string
		want  md.Format
	}{
		{"", md.FormatHTML},
		{"latex", md.FormatLaTeX},
		{"Texinfo", md.FormatTexinfo},
		{"bogus", md.FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := Config{DefaultFormat: tt.value}
			assert.Equal(t, tt.want, cfg.Format())
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JDIV_FORMAT", "text")
		t.Setenv("JDIV_OUTPUT_DIR", "out")
		t.Setenv("JDIV_HIGHLIGHT_STYLE", "dracula")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "text", cfg.DefaultFormat)
		assert.Equal(t, "out", cfg.OutputDir)
		assert.Equal(t, "dracula", cfg.HighlightStyle)
	})

	t.Run("env overrides existing values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JDIV_FORMAT", "man")

		cfg := &Config{
			DefaultFormat: "html",
			OutputDir:     "site",
		}
		cfg.LoadFromEnv()

		// Format should be overridden
		assert.Equal(t, "man", cfg.DefaultFormat)
		// Output dir should remain (empty env var doesn't override)
		assert.Equal(t, "site", cfg.OutputDir)
	})
}

func TestEnvVars(t *testing.T) {
	assert.Equal(t, []string{"JDIV_FORMAT", "JDIV_OUTPUT_DIR", "JDIV_HIGHLIGHT_STYLE"}, EnvVars())
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("XDG config home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		assert.Equal(t, filepath.Join("/tmp/xdg", "jdiv", "config.yml"), DefaultConfigPath())
	})

	t.Run("home directory", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(home, ".config", "jdiv", "config.yml"), DefaultConfigPath())
	})
}

func TestResolvePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	assert.Equal(t, "custom.yml", ResolvePath("custom.yml"))
	assert.Equal(t, filepath.Join("/tmp/xdg", "jdiv", "config.yml"), ResolvePath(""))
}

func TestConfig_Save_and_Load(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yml")

	original := Config{
		DefaultFormat:  "texinfo",
		OutputDir:      "build",
		Standalone:     true,
		HighlightStyle: "github",
	}

	require.NoError(t, original.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWithEnv(t *testing.T) {
	t.Run("missing file yields empty config", func(t *testing.T) {
		clearEnv(t)
		cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "none.yml"))
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("env applied over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JDIV_FORMAT", "latex")

		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, (&Config{DefaultFormat: "man", Standalone: true}).Save(path))

		cfg, err := LoadWithEnv(path)
		require.NoError(t, err)
		assert.Equal(t, "latex", cfg.DefaultFormat)
		assert.True(t, cfg.Standalone)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("default_format: [unclosed"), 0600))

		_, err := LoadWithEnv(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}
