// Package vkng implements the gpu collaborators on top of vkngwrapper.
package vkng

import (
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

type InstanceOptions struct {
	ApplicationName string

	// Extensions are the instance extensions the window system needs. Every
	// one of them must be available.
	Extensions []string

	// Validation enables ValidationLayers and a debug messenger that forwards
	// validation output to Log.
	Validation       bool
	ValidationLayers []string

	Log log.FieldLogger
}

// Instance is a Vulkan instance. It implements gpu.Driver.
type Instance struct {
	driver           core1_0.CoreInstanceDriver
	surfaceExtension khr_surface.ExtensionDriver

	debugDriver    ext_debug_utils.ExtensionDriver
	debugMessenger ext_debug_utils.DebugUtilsMessenger

	log log.FieldLogger
}

func NewInstance(global core1_0.GlobalDriver, opts InstanceOptions) (*Instance, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.StandardLogger()
	}

	createInfo := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := global.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "vkng: enumerate instance extensions")
	}

	for _, ext := range opts.Extensions {
		if _, ok := extensions[ext]; !ok {
			return nil, errors.Newf("vkng: window system requires missing instance extension %s", ext)
		}
		createInfo.EnabledExtensionNames = append(createInfo.EnabledExtensionNames, ext)
	}

	if _, ok := extensions[khr_portability_enumeration.ExtensionName]; ok {
		createInfo.EnabledExtensionNames = append(createInfo.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		createInfo.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	instance := &Instance{log: logger}

	if opts.Validation {
		layers, _, err := global.AvailableLayers()
		if err != nil {
			return nil, errors.Wrap(err, "vkng: enumerate instance layers")
		}

		for _, layer := range opts.ValidationLayers {
			if _, ok := layers[layer]; !ok {
				return nil, errors.Newf("vkng: validation layer %s not available, install the LunarG Vulkan SDK", layer)
			}
			createInfo.EnabledLayerNames = append(createInfo.EnabledLayerNames, layer)
		}

		createInfo.EnabledExtensionNames = append(createInfo.EnabledExtensionNames, ext_debug_utils.ExtensionName)
		createInfo.Next = instance.debugMessengerOptions()
	}

	instance.driver, _, err = global.CreateInstance(nil, createInfo)
	if err != nil {
		return nil, errors.Wrap(err, "vkng: create instance")
	}
	instance.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(instance.driver)

	if opts.Validation {
		instance.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(instance.driver)
		instance.debugMessenger, _, err = instance.debugDriver.CreateDebugUtilsMessenger(nil, instance.debugMessengerOptions())
		if err != nil {
			instance.Destroy()
			return nil, errors.Wrap(err, "vkng: create debug messenger")
		}
	}

	logger.WithFields(log.Fields{
		"extensions": createInfo.EnabledExtensionNames,
		"layers":     createInfo.EnabledLayerNames,
	}).Debug("created instance")

	return instance, nil
}

func (i *Instance) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    i.logDebug,
	}
}

func (i *Instance) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	entry := i.log.WithField("type", msgType.String())
	if severity&ext_debug_utils.SeverityError != 0 {
		entry.Error(data.Message)
	} else {
		entry.Warn(data.Message)
	}
	return false
}

// Handle is the underlying instance, for surface creation.
func (i *Instance) Handle() core1_0.Instance {
	return i.driver.Instance()
}

func (i *Instance) SurfaceExtension() khr_surface.ExtensionDriver {
	return i.surfaceExtension
}

func (i *Instance) Destroy() {
	if i.debugMessenger.Initialized() {
		i.debugDriver.DestroyDebugUtilsMessenger(i.debugMessenger, nil)
		i.debugMessenger = ext_debug_utils.DebugUtilsMessenger{}
	}

	if i.driver != nil {
		i.driver.DestroyInstance(nil)
		i.driver = nil
	}
}
