// Package swapchain turns what a surface supports into one concrete swapchain
// configuration.
package swapchain

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/probe"
	"github.com/vkngwrapper/gpubringup/queues"
)

// ErrNoSurfaceFormats is returned when asked to negotiate against a surface
// that reports no formats. Device selection rejects such surfaces first.
var ErrNoSurfaceFormats = errors.New("swapchain: surface reports no formats")

// ErrIncompleteQueueFamilies is returned when the queue family indices are
// missing graphics or presentation.
var ErrIncompleteQueueFamilies = errors.New("swapchain: incomplete queue family indices")

// PreferredFormat is picked whenever the surface offers it.
var PreferredFormat = gpu.SurfaceFormat{Format: gpu.FormatB8G8R8A8SRGB, ColorSpace: gpu.ColorSpaceSRGBNonlinear}

type SharingMode int

const (
	SharingModeExclusive SharingMode = iota
	SharingModeConcurrent
)

func (m SharingMode) String() string {
	if m == SharingModeConcurrent {
		return "Concurrent"
	}
	return "Exclusive"
}

// Configuration is a negotiated swapchain. It is never modified; a changed
// surface gets a new Configuration.
type Configuration struct {
	SurfaceFormat gpu.SurfaceFormat
	PresentMode   gpu.PresentMode
	Extent        gpu.Extent2D
	ImageCount    uint32
	PreTransform  gpu.SurfaceTransformFlags

	SharingMode SharingMode
	// QueueFamilyIndices is empty unless SharingMode is concurrent.
	QueueFamilyIndices []int
}

// Equal reports whether c and other would create identical swapchains.
func (c Configuration) Equal(other Configuration) bool {
	if c.SurfaceFormat != other.SurfaceFormat ||
		c.PresentMode != other.PresentMode ||
		c.Extent != other.Extent ||
		c.ImageCount != other.ImageCount ||
		c.PreTransform != other.PreTransform ||
		c.SharingMode != other.SharingMode ||
		len(c.QueueFamilyIndices) != len(other.QueueFamilyIndices) {
		return false
	}
	for i := range c.QueueFamilyIndices {
		if c.QueueFamilyIndices[i] != other.QueueFamilyIndices[i] {
			return false
		}
	}
	return true
}

// Negotiate picks every swapchain parameter from what the surface supports.
// framebuffer is the window's drawable size in pixels and only matters when
// the surface leaves the extent to the swapchain.
func Negotiate(support probe.SurfaceSupport, framebuffer gpu.Extent2D, indices queues.FamilyIndices) (Configuration, error) {
	if support.Capabilities == nil {
		return Configuration{}, errors.New("swapchain: missing surface capabilities")
	}
	if !indices.IsComplete() {
		return Configuration{}, errors.WithStack(ErrIncompleteQueueFamilies)
	}

	format, err := ChooseSurfaceFormat(support.Formats)
	if err != nil {
		return Configuration{}, err
	}

	caps := support.Capabilities
	cfg := Configuration{
		SurfaceFormat: format,
		PresentMode:   ChoosePresentMode(support.PresentModes),
		Extent:        ChooseExtent(*caps, framebuffer),
		ImageCount:    ChooseImageCount(*caps),
		PreTransform:  caps.CurrentTransform,
	}
	cfg.SharingMode, cfg.QueueFamilyIndices = ChooseSharingMode(*indices.Graphics, *indices.Present)

	return cfg, nil
}

// ChooseSurfaceFormat returns PreferredFormat when offered, otherwise the
// first format the surface lists.
func ChooseSurfaceFormat(available []gpu.SurfaceFormat) (gpu.SurfaceFormat, error) {
	if len(available) == 0 {
		return gpu.SurfaceFormat{}, errors.WithStack(ErrNoSurfaceFormats)
	}

	for _, format := range available {
		if format == PreferredFormat {
			return format, nil
		}
	}

	return available[0], nil
}

// ChoosePresentMode returns mailbox when offered, otherwise FIFO, which every
// surface supports.
func ChoosePresentMode(available []gpu.PresentMode) gpu.PresentMode {
	for _, mode := range available {
		if mode == gpu.PresentModeMailbox {
			return mode
		}
	}

	return gpu.PresentModeFIFO
}

// ChooseExtent uses the surface's current extent unless it is undefined, in
// which case framebuffer is clamped into the supported range one dimension at
// a time.
func ChooseExtent(caps gpu.SurfaceCapabilities, framebuffer gpu.Extent2D) gpu.Extent2D {
	if !caps.CurrentExtent.IsUndefined() {
		return caps.CurrentExtent
	}

	return gpu.Extent2D{
		Width:  clamp(framebuffer.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(framebuffer.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChooseImageCount asks for one image more than the minimum so acquiring the
// next image does not wait on the presentation engine. A MaxImageCount of
// zero means there is no upper bound.
func ChooseImageCount(caps gpu.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// ChooseSharingMode shares images concurrently between two distinct families
// and exclusively within one.
func ChooseSharingMode(graphics, present int) (SharingMode, []int) {
	if graphics != present {
		return SharingModeConcurrent, []int{graphics, present}
	}
	return SharingModeExclusive, nil
}
