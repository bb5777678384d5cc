package swapchain

import (
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/probe"
	"github.com/vkngwrapper/gpubringup/queues"
)

// Negotiator queries the surface afresh on every call, so it can be used both
// for the first swapchain and for every recreation after a resize.
type Negotiator struct {
	Surface gpu.Surface
	Window  gpu.Window
	Log     log.FieldLogger
}

func NewNegotiator(surface gpu.Surface, window gpu.Window) *Negotiator {
	return &Negotiator{Surface: surface, Window: window, Log: log.StandardLogger()}
}

// FramebufferExtent reads the window's drawable size. Negative sizes read as
// zero.
func FramebufferExtent(window gpu.Window) gpu.Extent2D {
	width, height := window.FramebufferSize()
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return gpu.Extent2D{Width: uint32(width), Height: uint32(height)}
}

func (n *Negotiator) Negotiate(device gpu.PhysicalDevice, indices queues.FamilyIndices) (Configuration, error) {
	logger := n.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	start := hrtime.Now()

	support, err := probe.Surface(n.Surface, device)
	if err != nil {
		return Configuration{}, err
	}

	cfg, err := Negotiate(support, FramebufferExtent(n.Window), indices)
	if err != nil {
		return Configuration{}, err
	}

	if cfg.SurfaceFormat != PreferredFormat {
		logger.WithField("format", cfg.SurfaceFormat).Info("preferred surface format unavailable, using first reported")
	}
	if cfg.PresentMode != gpu.PresentModeMailbox {
		logger.WithField("presentMode", cfg.PresentMode).Info("mailbox present mode unavailable, using FIFO")
	}

	logger.WithFields(log.Fields{
		"format":      cfg.SurfaceFormat,
		"presentMode": cfg.PresentMode,
		"extent":      cfg.Extent,
		"images":      cfg.ImageCount,
		"sharing":     cfg.SharingMode,
		"elapsed":     hrtime.Since(start),
	}).Debug("negotiated swapchain")

	return cfg, nil
}

// NegotiateFor re-queries surface for device and negotiates against the
// window's current drawable size.
func NegotiateFor(surface gpu.Surface, device gpu.PhysicalDevice, window gpu.Window, indices queues.FamilyIndices) (Configuration, error) {
	return NewNegotiator(surface, window).Negotiate(device, indices)
}
