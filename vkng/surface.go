package vkng

import (
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/gpubringup/gpu"
)

// Surface is a window surface. It implements gpu.Surface.
type Surface struct {
	extension khr_surface.ExtensionDriver
	handle    khr_surface.Surface
}

// NewSurface takes ownership of a surface created against instance.
func NewSurface(instance *Instance, handle khr_surface.Surface) *Surface {
	return &Surface{extension: instance.surfaceExtension, handle: handle}
}

func (s *Surface) Handle() khr_surface.Surface {
	return s.handle
}

func (s *Surface) Capabilities(device gpu.PhysicalDevice) (*gpu.SurfaceCapabilities, error) {
	handle, err := physical(device)
	if err != nil {
		return nil, err
	}

	caps, _, err := s.extension.GetPhysicalDeviceSurfaceCapabilities(s.handle, handle)
	if err != nil {
		return nil, err
	}
	return surfaceCapabilities(caps), nil
}

func (s *Surface) Formats(device gpu.PhysicalDevice) ([]gpu.SurfaceFormat, error) {
	handle, err := physical(device)
	if err != nil {
		return nil, err
	}

	formats, _, err := s.extension.GetPhysicalDeviceSurfaceFormats(s.handle, handle)
	if err != nil {
		return nil, err
	}
	return surfaceFormats(formats), nil
}

func (s *Surface) PresentModes(device gpu.PhysicalDevice) ([]gpu.PresentMode, error) {
	handle, err := physical(device)
	if err != nil {
		return nil, err
	}

	modes, _, err := s.extension.GetPhysicalDeviceSurfacePresentModes(s.handle, handle)
	if err != nil {
		return nil, err
	}
	return presentModes(modes), nil
}

func (s *Surface) SupportsPresent(device gpu.PhysicalDevice, queueFamily int) (bool, error) {
	handle, err := physical(device)
	if err != nil {
		return false, err
	}

	supported, _, err := s.extension.GetPhysicalDeviceSurfaceSupport(s.handle, handle, queueFamily)
	return supported, err
}

func (s *Surface) Destroy() {
	if s.handle.Initialized() {
		s.extension.DestroySurface(s.handle, nil)
		s.handle = khr_surface.Surface{}
	}
}
