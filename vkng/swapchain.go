package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/rendercontext"
	"github.com/vkngwrapper/gpubringup/swapchain"
)

// Swapchain is a swapchain plus a color view for each of its images.
type Swapchain struct {
	device *Device
	handle khr_swapchain.Swapchain

	Images     []core1_0.Image
	ImageViews []core1_0.ImageView
	Config     swapchain.Configuration
}

func sharingMode(mode swapchain.SharingMode) core1_0.SharingMode {
	if mode == swapchain.SharingModeConcurrent {
		return core1_0.SharingModeConcurrent
	}
	return core1_0.SharingModeExclusive
}

// CreateSwapchain builds a swapchain for surface from a negotiated
// configuration. old, when not nil, is handed to the driver so in-flight
// presentation can finish; the caller still destroys it.
func (d *Device) CreateSwapchain(surface gpu.Surface, cfg swapchain.Configuration, old rendercontext.Swapchain) (rendercontext.Swapchain, error) {
	target, ok := surface.(*Surface)
	if !ok {
		return nil, errors.Newf("vkng: foreign surface %T", surface)
	}

	createInfo := khr_swapchain.SwapchainCreateInfo{
		Surface: target.handle,

		MinImageCount:    int(cfg.ImageCount),
		ImageFormat:      core1_0.Format(cfg.SurfaceFormat.Format),
		ImageColorSpace:  khr_surface.ColorSpace(cfg.SurfaceFormat.ColorSpace),
		ImageExtent:      vkExtent(cfg.Extent),
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode(cfg.SharingMode),
		QueueFamilyIndices: cfg.QueueFamilyIndices,

		PreTransform:   khr_surface.SurfaceTransformFlags(cfg.PreTransform),
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    khr_surface.PresentMode(cfg.PresentMode),
		Clipped:        true,
	}
	if previous, ok := old.(*Swapchain); ok && previous != nil {
		createInfo.OldSwapchain = previous.handle
	}

	handle, _, err := d.swapchainExtension.CreateSwapchain(nil, createInfo)
	if err != nil {
		return nil, err
	}

	chain := &Swapchain{device: d, handle: handle, Config: cfg}
	if err := chain.createImageViews(); err != nil {
		chain.Destroy()
		return nil, err
	}

	return chain, nil
}

func (s *Swapchain) createImageViews() error {
	images, _, err := s.device.swapchainExtension.GetSwapchainImages(s.handle)
	if err != nil {
		return errors.Wrap(err, "vkng: get swapchain images")
	}
	s.Images = images

	for _, image := range images {
		view, _, err := s.device.driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
			Image:    image,
			ViewType: core1_0.ImageViewType2D,
			Format:   core1_0.Format(s.Config.SurfaceFormat.Format),
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return errors.Wrap(err, "vkng: create swapchain image view")
		}
		s.ImageViews = append(s.ImageViews, view)
	}

	return nil
}

func (s *Swapchain) Handle() khr_swapchain.Swapchain {
	return s.handle
}

func (s *Swapchain) ImageCount() int {
	return len(s.Images)
}

func (s *Swapchain) Destroy() {
	for _, view := range s.ImageViews {
		s.device.driver.DestroyImageView(view, nil)
	}
	s.ImageViews = nil

	if s.handle.Initialized() {
		s.device.swapchainExtension.DestroySwapchain(s.handle, nil)
		s.handle = khr_swapchain.Swapchain{}
	}
}
