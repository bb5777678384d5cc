// Package gputest provides in-memory implementations of the gpu collaborator
// interfaces for tests.
package gputest

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/vkngwrapper/gpubringup/gpu"
)

// Device is a fake physical device. Its address is the handle handed out by
// Driver.
type Device struct {
	Properties    gpu.DeviceProperties
	Features      gpu.DeviceFeatures
	Extensions    []string
	QueueFamilies []gpu.QueueFamilyProperties

	// PresentFamilies lists the queue families able to present to the
	// Surface.
	PresentFamilies []int

	Capabilities gpu.SurfaceCapabilities
	Formats      []gpu.SurfaceFormat
	PresentModes []gpu.PresentMode

	// Err, when set, is returned from every query against this device.
	Err error
}

// Discrete returns a device that passes every hard requirement, with one
// queue family that does graphics and presentation.
func Discrete(name string, maxImageDimension uint32) *Device {
	d := Integrated(name, maxImageDimension)
	d.Properties.Type = gpu.DeviceTypeDiscreteGPU
	return d
}

// Integrated is Discrete without the discrete device type.
func Integrated(name string, maxImageDimension uint32) *Device {
	return &Device{
		Properties: gpu.DeviceProperties{
			Name:                name,
			Type:                gpu.DeviceTypeIntegratedGPU,
			MaxImageDimension2D: maxImageDimension,
			PipelineCacheUUID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		},
		Features:        gpu.DeviceFeatures{GeometryShader: true, SamplerAnisotropy: true},
		Extensions:      []string{"VK_KHR_swapchain"},
		QueueFamilies:   []gpu.QueueFamilyProperties{{Flags: gpu.QueueGraphics | gpu.QueueCompute | gpu.QueueTransfer, QueueCount: 1}},
		PresentFamilies: []int{0},
		Capabilities: gpu.SurfaceCapabilities{
			MinImageCount:       2,
			MaxImageCount:       8,
			CurrentExtent:       gpu.Extent2D{Width: 800, Height: 600},
			MinImageExtent:      gpu.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:      gpu.Extent2D{Width: maxImageDimension, Height: maxImageDimension},
			SupportedTransforms: gpu.SurfaceTransformIdentity,
			CurrentTransform:    gpu.SurfaceTransformIdentity,
		},
		Formats:      []gpu.SurfaceFormat{{Format: gpu.FormatB8G8R8A8SRGB, ColorSpace: gpu.ColorSpaceSRGBNonlinear}},
		PresentModes: []gpu.PresentMode{gpu.PresentModeFIFO, gpu.PresentModeMailbox},
	}
}

// Driver serves queries from its Devices, in order.
type Driver struct {
	Devices []*Device

	// EnumerateErr is returned from EnumeratePhysicalDevices.
	EnumerateErr error

	// Calls counts queries by method name.
	Calls map[string]int
}

func NewDriver(devices ...*Device) *Driver {
	return &Driver{Devices: devices, Calls: map[string]int{}}
}

func (d *Driver) count(method string) {
	if d.Calls == nil {
		d.Calls = map[string]int{}
	}
	d.Calls[method]++
}

func (d *Driver) EnumeratePhysicalDevices() ([]gpu.PhysicalDevice, error) {
	d.count("EnumeratePhysicalDevices")
	if d.EnumerateErr != nil {
		return nil, d.EnumerateErr
	}
	devices := make([]gpu.PhysicalDevice, 0, len(d.Devices))
	for _, device := range d.Devices {
		devices = append(devices, device)
	}
	return devices, nil
}

func device(handle gpu.PhysicalDevice) (*Device, error) {
	d, ok := handle.(*Device)
	if !ok || d == nil {
		return nil, errors.Newf("gputest: unknown device handle %T", handle)
	}
	return d, d.Err
}

func (d *Driver) Properties(handle gpu.PhysicalDevice) (*gpu.DeviceProperties, error) {
	d.count("Properties")
	dev, err := device(handle)
	if err != nil {
		return nil, err
	}
	props := dev.Properties
	return &props, nil
}

func (d *Driver) Features(handle gpu.PhysicalDevice) (*gpu.DeviceFeatures, error) {
	d.count("Features")
	dev, err := device(handle)
	if err != nil {
		return nil, err
	}
	features := dev.Features
	return &features, nil
}

func (d *Driver) Extensions(handle gpu.PhysicalDevice) (gpu.ExtensionSet, error) {
	d.count("Extensions")
	dev, err := device(handle)
	if err != nil {
		return nil, err
	}
	return gpu.NewExtensionSet(dev.Extensions...), nil
}

func (d *Driver) QueueFamilies(handle gpu.PhysicalDevice) ([]gpu.QueueFamilyProperties, error) {
	d.count("QueueFamilies")
	dev, err := device(handle)
	if err != nil {
		return nil, err
	}
	return append([]gpu.QueueFamilyProperties(nil), dev.QueueFamilies...), nil
}

// Surface answers surface queries from the fake Device itself. Tests mutate
// the Device between calls to simulate a resize.
type Surface struct {
	// PresentQueries records the queue family indices asked about, in order.
	PresentQueries []int
}

func (s *Surface) Capabilities(handle gpu.PhysicalDevice) (*gpu.SurfaceCapabilities, error) {
	dev, err := device(handle)
	if err != nil {
		return nil, err
	}
	caps := dev.Capabilities
	return &caps, nil
}

func (s *Surface) Formats(handle gpu.PhysicalDevice) ([]gpu.SurfaceFormat, error) {
	dev, err := device(handle)
	if err != nil {
		return nil, err
	}
	return append([]gpu.SurfaceFormat(nil), dev.Formats...), nil
}

func (s *Surface) PresentModes(handle gpu.PhysicalDevice) ([]gpu.PresentMode, error) {
	dev, err := device(handle)
	if err != nil {
		return nil, err
	}
	return append([]gpu.PresentMode(nil), dev.PresentModes...), nil
}

func (s *Surface) SupportsPresent(handle gpu.PhysicalDevice, queueFamily int) (bool, error) {
	s.PresentQueries = append(s.PresentQueries, queueFamily)
	dev, err := device(handle)
	if err != nil {
		return false, err
	}
	for _, family := range dev.PresentFamilies {
		if family == queueFamily {
			return true, nil
		}
	}
	return false, nil
}

// Window is a fixed-size window.
type Window struct {
	Width, Height int
}

func (w *Window) FramebufferSize() (int, int) {
	return w.Width, w.Height
}
