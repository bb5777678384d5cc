// Package config loads the bring-up configuration from a TOML file and the
// environment.
package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
)

// Environment variables that override file values.
const (
	EnvValidation   = "BRINGUP_VALIDATION"
	EnvDeviceUUID   = "BRINGUP_DEVICE_UUID"
	EnvLogLevel     = "BRINGUP_LOG_LEVEL"
	EnvWindowWidth  = "BRINGUP_WINDOW_WIDTH"
	EnvWindowHeight = "BRINGUP_WINDOW_HEIGHT"
)

// Configuration defines everything needed to bring up a rendering context.
type Configuration struct {
	Window WindowConfiguration `toml:"window"`
	Vulkan VulkanConfiguration `toml:"vulkan"`
	Log    LogConfiguration    `toml:"log"`
}

// WindowConfiguration sizes are in screen coordinates.
type WindowConfiguration struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type VulkanConfiguration struct {
	// Validation enables the Khronos validation layer and the debug
	// messenger.
	Validation       bool     `toml:"validation"`
	ValidationLayers []string `toml:"validation_layers"`
	// DeviceExtensions are required on top of VK_KHR_swapchain.
	DeviceExtensions []string `toml:"device_extensions"`
	// DeviceUUID pins selection to the device with this pipeline cache UUID.
	DeviceUUID string `toml:"device_uuid"`
}

type LogConfiguration struct {
	Level string `toml:"level"`
}

func Default() Configuration {
	return Configuration{
		Window: WindowConfiguration{
			Title:  "Vulkan",
			Width:  800,
			Height: 600,
		},
		Vulkan: VulkanConfiguration{
			Validation:       false,
			ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		},
		Log: LogConfiguration{
			Level: "info",
		},
	}
}

// Load starts from Default, applies the TOML file at path if it exists, then
// the environment, and validates the result. An empty path skips the file.
func Load(path string) (Configuration, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "config: parse %s", path)
			}
		case os.IsNotExist(err):
		default:
			return cfg, errors.Wrapf(err, "config: read %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Configuration) applyEnv() error {
	if v := envy.Get(EnvValidation, ""); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "config: %s", EnvValidation)
		}
		c.Vulkan.Validation = enabled
	}

	if v := envy.Get(EnvDeviceUUID, ""); v != "" {
		c.Vulkan.DeviceUUID = v
	}

	if v := envy.Get(EnvLogLevel, ""); v != "" {
		c.Log.Level = v
	}

	for name, field := range map[string]*int{EnvWindowWidth: &c.Window.Width, EnvWindowHeight: &c.Window.Height} {
		v := envy.Get(name, "")
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "config: %s", name)
		}
		*field = n
	}

	return nil
}

// Validate rejects configurations that cannot bring up a window.
func (c Configuration) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := c.PinnedDevice(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// PinnedDevice parses DeviceUUID. uuid.Nil means any device.
func (c Configuration) PinnedDevice() (uuid.UUID, error) {
	if c.Vulkan.DeviceUUID == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(c.Vulkan.DeviceUUID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "config: device_uuid")
	}
	return id, nil
}

func (c Configuration) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return level, errors.Wrap(err, "config: log level")
	}
	return level, nil
}
