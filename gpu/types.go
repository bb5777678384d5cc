// Package gpu holds the values the bring-up core reasons about and the
// collaborator interfaces it queries them through.
package gpu

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// PhysicalDevice is an opaque handle to a GPU enumerated by a Driver. The core
// never inspects it; it is only passed back to the Driver and Surface that
// produced it.
type PhysicalDevice interface{}

type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "IntegratedGPU"
	case DeviceTypeDiscreteGPU:
		return "DiscreteGPU"
	case DeviceTypeVirtualGPU:
		return "VirtualGPU"
	case DeviceTypeCPU:
		return "CPU"
	}
	return "Other"
}

type DeviceProperties struct {
	Name                string
	Type                DeviceType
	MaxImageDimension2D uint32
	PipelineCacheUUID   uuid.UUID
}

type DeviceFeatures struct {
	GeometryShader    bool
	SamplerAnisotropy bool
}

// ExtensionSet is the set of extension names a device reports.
type ExtensionSet map[string]struct{}

func NewExtensionSet(names ...string) ExtensionSet {
	set := make(ExtensionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s ExtensionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Missing returns the required names absent from the set, in required order.
func (s ExtensionSet) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if !s.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Names returns the extension names sorted.
func (s ExtensionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

type QueueFamilyProperties struct {
	Flags      QueueFlags
	QueueCount int
}

// Format values match VkFormat.
type Format int

const (
	FormatUndefined     Format = 0
	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8SRGB  Format = 43
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8SRGB  Format = 50
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "Undefined"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8Unorm"
	case FormatR8G8B8A8SRGB:
		return "R8G8B8A8SRGB"
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8Unorm"
	case FormatB8G8R8A8SRGB:
		return "B8G8R8A8SRGB"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ColorSpace values match VkColorSpaceKHR.
type ColorSpace int

const (
	ColorSpaceSRGBNonlinear      ColorSpace = 0
	ColorSpaceDisplayP3Nonlinear ColorSpace = 1000104001
	ColorSpaceExtendedSRGBLinear ColorSpace = 1000104002
	ColorSpacePassThrough        ColorSpace = 1000104013
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGBNonlinear:
		return "SRGBNonlinear"
	case ColorSpaceExtendedSRGBLinear:
		return "ExtendedSRGBLinear"
	case ColorSpaceDisplayP3Nonlinear:
		return "DisplayP3Nonlinear"
	case ColorSpacePassThrough:
		return "PassThrough"
	}
	return fmt.Sprintf("ColorSpace(%d)", int(c))
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

func (f SurfaceFormat) String() string {
	return fmt.Sprintf("%s/%s", f.Format, f.ColorSpace)
}

// PresentMode values match VkPresentModeKHR.
type PresentMode int

const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFIFO
	PresentModeFIFORelaxed
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeFIFO:
		return "FIFO"
	case PresentModeFIFORelaxed:
		return "FIFORelaxed"
	}
	return fmt.Sprintf("PresentMode(%d)", int(m))
}

// UndefinedExtent marks a surface whose size is decided by the swapchain.
const UndefinedExtent = ^uint32(0)

type Extent2D struct {
	Width  uint32
	Height uint32
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// IsUndefined reports whether e carries the "any size" sentinel.
func (e Extent2D) IsUndefined() bool {
	return e.Width == UndefinedExtent
}

// SurfaceTransformFlags values match VkSurfaceTransformFlagsKHR.
type SurfaceTransformFlags uint32

const SurfaceTransformIdentity SurfaceTransformFlags = 1

type SurfaceCapabilities struct {
	MinImageCount       uint32
	MaxImageCount       uint32
	CurrentExtent       Extent2D
	MinImageExtent      Extent2D
	MaxImageExtent      Extent2D
	SupportedTransforms SurfaceTransformFlags
	CurrentTransform    SurfaceTransformFlags
}
