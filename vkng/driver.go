package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/gpubringup/gpu"
)

func physical(device gpu.PhysicalDevice) (core1_0.PhysicalDevice, error) {
	handle, ok := device.(core1_0.PhysicalDevice)
	if !ok {
		return core1_0.PhysicalDevice{}, errors.Newf("vkng: foreign physical device handle %T", device)
	}
	return handle, nil
}

func (i *Instance) EnumeratePhysicalDevices() ([]gpu.PhysicalDevice, error) {
	handles, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]gpu.PhysicalDevice, 0, len(handles))
	for _, handle := range handles {
		devices = append(devices, handle)
	}
	return devices, nil
}

func (i *Instance) Properties(device gpu.PhysicalDevice) (*gpu.DeviceProperties, error) {
	handle, err := physical(device)
	if err != nil {
		return nil, err
	}

	props, err := i.driver.GetPhysicalDeviceProperties(handle)
	if err != nil {
		return nil, err
	}
	return deviceProperties(props), nil
}

func (i *Instance) Features(device gpu.PhysicalDevice) (*gpu.DeviceFeatures, error) {
	handle, err := physical(device)
	if err != nil {
		return nil, err
	}
	return deviceFeatures(i.driver.GetPhysicalDeviceFeatures(handle)), nil
}

func (i *Instance) Extensions(device gpu.PhysicalDevice) (gpu.ExtensionSet, error) {
	handle, err := physical(device)
	if err != nil {
		return nil, err
	}

	extensions, _, err := i.driver.EnumerateDeviceExtensionProperties(handle)
	if err != nil {
		return nil, err
	}

	set := make(gpu.ExtensionSet, len(extensions))
	for name := range extensions {
		set[name] = struct{}{}
	}
	return set, nil
}

func (i *Instance) QueueFamilies(device gpu.PhysicalDevice) ([]gpu.QueueFamilyProperties, error) {
	handle, err := physical(device)
	if err != nil {
		return nil, err
	}
	return queueFamilies(i.driver.GetPhysicalDeviceQueueFamilyProperties(handle)), nil
}
