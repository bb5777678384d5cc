// Package probe queries a candidate device for everything the selector and
// the swapchain negotiator decide on.
package probe

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/gpubringup/gpu"
)

// SurfaceSupport is what a surface reports for one device.
type SurfaceSupport struct {
	Capabilities *gpu.SurfaceCapabilities
	Formats      []gpu.SurfaceFormat
	PresentModes []gpu.PresentMode
}

// Adequate reports whether a swapchain can be built at all.
func (s SurfaceSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// Capabilities is a snapshot of one device and its surface support. It is a
// value: nothing in it is refreshed after Probe returns.
type Capabilities struct {
	Device        gpu.PhysicalDevice
	Properties    *gpu.DeviceProperties
	Features      *gpu.DeviceFeatures
	Extensions    gpu.ExtensionSet
	QueueFamilies []gpu.QueueFamilyProperties

	Surface SurfaceSupport
}

// Probe runs every read-only query against device. The first failing query
// aborts the probe.
func Probe(driver gpu.Driver, surface gpu.Surface, device gpu.PhysicalDevice) (*Capabilities, error) {
	var err error
	caps := &Capabilities{Device: device}

	caps.Properties, err = driver.Properties(device)
	if err != nil {
		return nil, errors.Wrap(err, "probe: device properties")
	}

	caps.Features, err = driver.Features(device)
	if err != nil {
		return nil, errors.Wrap(err, "probe: device features")
	}

	caps.Extensions, err = driver.Extensions(device)
	if err != nil {
		return nil, errors.Wrap(err, "probe: device extensions")
	}

	caps.QueueFamilies, err = driver.QueueFamilies(device)
	if err != nil {
		return nil, errors.Wrap(err, "probe: queue families")
	}

	caps.Surface, err = Surface(surface, device)
	if err != nil {
		return nil, err
	}

	return caps, nil
}

// Surface queries only the surface side. The swapchain negotiator calls it
// again on every recreation because surface capabilities follow the window.
func Surface(surface gpu.Surface, device gpu.PhysicalDevice) (SurfaceSupport, error) {
	var support SurfaceSupport
	var err error

	support.Capabilities, err = surface.Capabilities(device)
	if err != nil {
		return support, errors.Wrap(err, "probe: surface capabilities")
	}

	support.Formats, err = surface.Formats(device)
	if err != nil {
		return support, errors.Wrap(err, "probe: surface formats")
	}

	support.PresentModes, err = surface.PresentModes(device)
	if err != nil {
		return support, errors.Wrap(err, "probe: surface present modes")
	}

	return support, nil
}
