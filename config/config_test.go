package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gobuffalo/envy"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/gpubringup/config"
)

const sample = `
[window]
title = "Probe"
width = 1280
height = 720

[vulkan]
validation = true
device_extensions = ["VK_KHR_dynamic_rendering"]
device_uuid = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"

[log]
level = "debug"
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bringup.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	envy.Temp(func() {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	envy.Temp(func() {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
		require.NoError(t, err)
		assert.Equal(t, 800, cfg.Window.Width)
	})
}

func TestLoadFile(t *testing.T) {
	envy.Temp(func() {
		cfg, err := config.Load(writeConfig(t, sample))
		require.NoError(t, err)

		assert.Equal(t, "Probe", cfg.Window.Title)
		assert.Equal(t, 1280, cfg.Window.Width)
		assert.Equal(t, 720, cfg.Window.Height)
		assert.True(t, cfg.Vulkan.Validation)
		assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, cfg.Vulkan.ValidationLayers)
		assert.Equal(t, []string{"VK_KHR_dynamic_rendering"}, cfg.Vulkan.DeviceExtensions)

		id, err := cfg.PinnedDevice()
		require.NoError(t, err)
		assert.Equal(t, uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"), id)

		level, err := cfg.LogLevel()
		require.NoError(t, err)
		assert.Equal(t, log.DebugLevel, level)
	})
}

func TestEnvironmentOverridesFile(t *testing.T) {
	envy.Temp(func() {
		envy.Set(config.EnvValidation, "false")
		envy.Set(config.EnvWindowWidth, "1920")
		envy.Set(config.EnvLogLevel, "warn")

		cfg, err := config.Load(writeConfig(t, sample))
		require.NoError(t, err)
		assert.False(t, cfg.Vulkan.Validation)
		assert.Equal(t, 1920, cfg.Window.Width)
		assert.Equal(t, 720, cfg.Window.Height)
		assert.Equal(t, "warn", cfg.Log.Level)
	})
}

func TestLoadRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "malformed toml", file: "[window\nwidth = 3"},
		{name: "zero width", file: "[window]\nwidth = 0"},
		{name: "bad uuid", file: "[vulkan]\ndevice_uuid = \"gpu-0\""},
		{name: "bad log level", file: "[log]\nlevel = \"loud\""},
		{name: "bad validation env", env: map[string]string{config.EnvValidation: "maybe"}},
		{name: "bad height env", env: map[string]string{config.EnvWindowHeight: "tall"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			envy.Temp(func() {
				for k, v := range tc.env {
					envy.Set(k, v)
				}
				path := ""
				if tc.file != "" {
					path = writeConfig(t, tc.file)
				}
				_, err := config.Load(path)
				assert.Error(t, err)
			})
		})
	}
}
