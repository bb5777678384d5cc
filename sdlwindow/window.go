// Package sdlwindow is an SDL2 window that can host a Vulkan surface.
package sdlwindow

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/core1_0"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/gpubringup/vkng"
)

// Window implements gpu.Window. SDL requires every call to come from the
// thread that opened it.
type Window struct {
	window *sdl.Window
}

func Open(title string, width, height int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "sdlwindow: init video")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdlwindow: create window")
	}

	return &Window{window: window}, nil
}

// FramebufferSize is the drawable size in pixels, which is what the
// swapchain extent is measured in.
func (w *Window) FramebufferSize() (int, int) {
	width, height := w.window.VulkanGetDrawableSize()
	return int(width), int(height)
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// GlobalDriver loads the Vulkan loader SDL found for this window.
func (w *Window) GlobalDriver() (core1_0.GlobalDriver, error) {
	driver, err := core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return nil, errors.Wrap(err, "sdlwindow: load vulkan")
	}
	return driver, nil
}

func (w *Window) CreateSurface(instance *vkng.Instance) (*vkng.Surface, error) {
	handle, err := vkng_sdl2.CreateSurface(instance.Handle(), instance.SurfaceExtension(), w.window)
	if err != nil {
		return nil, errors.Wrap(err, "sdlwindow: create surface")
	}
	return vkng.NewSurface(instance, handle), nil
}

func (w *Window) Minimized() bool {
	return w.window.GetFlags()&sdl.WINDOW_MINIMIZED != 0
}

func (w *Window) Close() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
