// Package rendercontext owns the device, queues and swapchain picked for one
// window, and releases them in reverse order of acquisition.
package rendercontext

import (
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/queues"
	"github.com/vkngwrapper/gpubringup/selection"
	"github.com/vkngwrapper/gpubringup/swapchain"
)

// Backend creates platform objects from the core's decisions.
type Backend interface {
	gpu.Driver
	CreateDevice(device gpu.PhysicalDevice, indices queues.FamilyIndices, extensions []string) (Device, error)
}

// Device is a logical device with its graphics and present queues.
type Device interface {
	CreateSwapchain(surface gpu.Surface, cfg swapchain.Configuration, old Swapchain) (Swapchain, error)
	WaitIdle() error
	Destroy()
}

// Swapchain is a created swapchain together with its image views.
type Swapchain interface {
	ImageCount() int
	Destroy()
}

type Options struct {
	Requirements selection.Requirements
	Log          log.FieldLogger
}

// Context is the rendering context for one window. It is not safe for
// concurrent use.
type Context struct {
	backend Backend
	surface gpu.Surface
	window  gpu.Window
	log     log.FieldLogger

	selection  *selection.Selection
	negotiator *swapchain.Negotiator

	device    Device
	swapchain Swapchain
	config    swapchain.Configuration

	release []func()
	closed  bool
}

// New selects a device for surface, creates the logical device and the first
// swapchain. On failure everything acquired so far is released.
func New(backend Backend, surface gpu.Surface, window gpu.Window, opts Options) (*Context, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	req := opts.Requirements
	if req.Extensions == nil {
		req.Extensions = selection.DefaultRequirements().Extensions
	}

	c := &Context{
		backend:    backend,
		surface:    surface,
		window:     window,
		log:        logger,
		negotiator: &swapchain.Negotiator{Surface: surface, Window: window, Log: logger},
	}

	selector := &selection.Selector{Driver: backend, Surface: surface, Requirements: req, Log: logger}
	sel, err := selector.Select()
	if err != nil {
		return nil, err
	}
	c.selection = sel

	device, err := backend.CreateDevice(sel.Device, sel.Indices, req.Extensions)
	if err != nil {
		return nil, errors.Wrap(err, "rendercontext: create logical device")
	}
	c.device = device
	c.acquired(device.Destroy)

	cfg, err := c.negotiator.Negotiate(sel.Device, sel.Indices)
	if err != nil {
		c.Close()
		return nil, err
	}

	chain, err := device.CreateSwapchain(surface, cfg, nil)
	if err != nil {
		c.Close()
		return nil, errors.Wrap(err, "rendercontext: create swapchain")
	}
	c.swapchain = chain
	c.config = cfg
	c.acquired(c.destroySwapchain)

	logger.WithFields(log.Fields{
		"device":      sel.Capabilities.Properties.Name,
		"format":      cfg.SurfaceFormat,
		"presentMode": cfg.PresentMode,
		"extent":      cfg.Extent,
		"images":      chain.ImageCount(),
	}).Info("rendering context ready")

	return c, nil
}

func (c *Context) acquired(release func()) {
	c.release = append(c.release, release)
}

func (c *Context) destroySwapchain() {
	if c.swapchain != nil {
		c.swapchain.Destroy()
		c.swapchain = nil
	}
}

func (c *Context) PhysicalDevice() gpu.PhysicalDevice { return c.selection.Device }

func (c *Context) Selection() *selection.Selection { return c.selection }

func (c *Context) Indices() queues.FamilyIndices { return c.selection.Indices }

func (c *Context) Device() Device { return c.device }

func (c *Context) Swapchain() Swapchain { return c.swapchain }

// Configuration returns the configuration the current swapchain was built
// from.
func (c *Context) Configuration() swapchain.Configuration { return c.config }

// Recreate renegotiates against the surface's current capabilities and
// replaces the swapchain. It does nothing and reports false while the window
// has no drawable area.
func (c *Context) Recreate() (bool, error) {
	if c.closed {
		return false, errors.New("rendercontext: recreate after close")
	}

	fb := swapchain.FramebufferExtent(c.window)
	if fb.Width == 0 || fb.Height == 0 {
		return false, nil
	}

	if err := c.device.WaitIdle(); err != nil {
		return false, errors.Wrap(err, "rendercontext: wait idle")
	}

	cfg, err := c.negotiator.Negotiate(c.selection.Device, c.selection.Indices)
	if err != nil {
		return false, err
	}

	chain, err := c.device.CreateSwapchain(c.surface, cfg, c.swapchain)
	if err != nil {
		return false, errors.Wrap(err, "rendercontext: recreate swapchain")
	}

	c.destroySwapchain()
	c.swapchain = chain
	c.config = cfg

	c.log.WithFields(log.Fields{
		"extent": cfg.Extent,
		"images": chain.ImageCount(),
	}).Debug("swapchain recreated")

	return true, nil
}

// Close releases everything in reverse order of acquisition. It is safe to
// call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true

	if c.device != nil {
		if err := c.device.WaitIdle(); err != nil {
			c.log.WithError(err).Warn("wait idle before teardown failed")
		}
	}

	for i := len(c.release) - 1; i >= 0; i-- {
		c.release[i]()
	}
	c.release = nil
	c.device = nil
}
