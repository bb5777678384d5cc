package vkng

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/gpubringup/gpu"
)

// The gpu enums carry Vulkan's numeric values, so most conversions are plain
// casts.

func deviceProperties(p *core1_0.PhysicalDeviceProperties) *gpu.DeviceProperties {
	props := &gpu.DeviceProperties{
		Name:              p.DriverName,
		Type:              gpu.DeviceType(p.DriverType),
		PipelineCacheUUID: p.PipelineCacheUUID,
	}
	if p.Limits != nil {
		props.MaxImageDimension2D = uint32(p.Limits.MaxImageDimension2D)
	}
	return props
}

func deviceFeatures(f *core1_0.PhysicalDeviceFeatures) *gpu.DeviceFeatures {
	if f == nil {
		return &gpu.DeviceFeatures{}
	}
	return &gpu.DeviceFeatures{
		GeometryShader:    f.GeometryShader,
		SamplerAnisotropy: f.SamplerAnisotropy,
	}
}

func queueFamilies(families []*core1_0.QueueFamilyProperties) []gpu.QueueFamilyProperties {
	out := make([]gpu.QueueFamilyProperties, 0, len(families))
	for _, family := range families {
		out = append(out, gpu.QueueFamilyProperties{
			Flags:      gpu.QueueFlags(family.QueueFlags),
			QueueCount: family.QueueCount,
		})
	}
	return out
}

// extent converts a driver extent. The driver reports the "window decides"
// sentinel as -1, which lands on gpu.UndefinedExtent.
func extent(e core1_0.Extent2D) gpu.Extent2D {
	return gpu.Extent2D{Width: uint32(e.Width), Height: uint32(e.Height)}
}

func vkExtent(e gpu.Extent2D) core1_0.Extent2D {
	return core1_0.Extent2D{Width: int(e.Width), Height: int(e.Height)}
}

func surfaceCapabilities(c *khr_surface.SurfaceCapabilities) *gpu.SurfaceCapabilities {
	return &gpu.SurfaceCapabilities{
		MinImageCount:       uint32(c.MinImageCount),
		MaxImageCount:       uint32(c.MaxImageCount),
		CurrentExtent:       extent(c.CurrentExtent),
		MinImageExtent:      extent(c.MinImageExtent),
		MaxImageExtent:      extent(c.MaxImageExtent),
		SupportedTransforms: gpu.SurfaceTransformFlags(c.SupportedTransforms),
		CurrentTransform:    gpu.SurfaceTransformFlags(c.CurrentTransform),
	}
}

func surfaceFormats(formats []khr_surface.SurfaceFormat) []gpu.SurfaceFormat {
	out := make([]gpu.SurfaceFormat, 0, len(formats))
	for _, format := range formats {
		out = append(out, gpu.SurfaceFormat{
			Format:     gpu.Format(format.Format),
			ColorSpace: gpu.ColorSpace(format.ColorSpace),
		})
	}
	return out
}

func presentModes(modes []khr_surface.PresentMode) []gpu.PresentMode {
	out := make([]gpu.PresentMode, 0, len(modes))
	for _, mode := range modes {
		out = append(out, gpu.PresentMode(mode))
	}
	return out
}
