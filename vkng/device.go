package vkng

import (
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/queues"
	"github.com/vkngwrapper/gpubringup/rendercontext"
)

// Device is a logical device with one queue from each distinct family the
// selection resolved.
type Device struct {
	driver             core1_0.CoreDeviceDriver
	swapchainExtension khr_swapchain.ExtensionDriver

	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	log log.FieldLogger
}

// CreateDevice creates the logical device for a selected physical device.
// extensions must already be known to be supported.
func (i *Instance) CreateDevice(device gpu.PhysicalDevice, indices queues.FamilyIndices, extensions []string) (rendercontext.Device, error) {
	if !indices.IsComplete() {
		return nil, errors.New("vkng: create device: incomplete queue families")
	}

	handle, err := physical(device)
	if err != nil {
		return nil, err
	}

	var queueInfos []core1_0.DeviceQueueCreateInfo
	for _, family := range indices.Unique() {
		queueInfos = append(queueInfos, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{1.0},
		})
	}

	extensionNames := append([]string(nil), extensions...)

	available, _, err := i.driver.EnumerateDeviceExtensionProperties(handle)
	if err != nil {
		return nil, errors.Wrap(err, "vkng: enumerate device extensions")
	}
	// Required on portability implementations such as MoltenVK.
	if _, ok := available[khr_portability_subset.ExtensionName]; ok {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	features := i.driver.GetPhysicalDeviceFeatures(handle)

	driver, _, err := i.driver.CreateDevice(handle, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: queueInfos,
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			GeometryShader:    true,
			SamplerAnisotropy: features != nil && features.SamplerAnisotropy,
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkng: create device")
	}

	i.log.WithFields(log.Fields{
		"families":   indices.Unique(),
		"extensions": extensionNames,
	}).Debug("created logical device")

	return &Device{
		driver:             driver,
		swapchainExtension: khr_swapchain.CreateExtensionDriverFromCoreDriver(driver),
		graphicsQueue:      driver.GetQueue(*indices.Graphics, 0),
		presentQueue:       driver.GetQueue(*indices.Present, 0),
		log:                i.log,
	}, nil
}

func (d *Device) GraphicsQueue() core1_0.Queue { return d.graphicsQueue }

func (d *Device) PresentQueue() core1_0.Queue { return d.presentQueue }

func (d *Device) WaitIdle() error {
	_, err := d.driver.DeviceWaitIdle()
	return err
}

func (d *Device) Destroy() {
	if d.driver != nil {
		d.driver.DestroyDevice(nil)
		d.driver = nil
	}
}
