package main

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"

	"github.com/vkngwrapper/gpubringup/config"
	"github.com/vkngwrapper/gpubringup/rendercontext"
	"github.com/vkngwrapper/gpubringup/sdlwindow"
	"github.com/vkngwrapper/gpubringup/selection"
	"github.com/vkngwrapper/gpubringup/vkng"
)

// pollTimeoutMS bounds how long the loop sleeps waiting for window events.
const pollTimeoutMS = 100

func requirements(cfg config.Configuration) (selection.Requirements, error) {
	req := selection.DefaultRequirements()
	req.Extensions = append(req.Extensions, cfg.Vulkan.DeviceExtensions...)

	pinned, err := cfg.PinnedDevice()
	if err != nil {
		return req, err
	}
	req.DeviceUUID = pinned
	return req, nil
}

func run(cfg config.Configuration) error {
	window, err := sdlwindow.Open(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer window.Close()

	global, err := window.GlobalDriver()
	if err != nil {
		return err
	}

	instance, err := vkng.NewInstance(global, vkng.InstanceOptions{
		ApplicationName:  cfg.Window.Title,
		Extensions:       window.RequiredInstanceExtensions(),
		Validation:       cfg.Vulkan.Validation,
		ValidationLayers: cfg.Vulkan.ValidationLayers,
		Log:              log.WithField("component", "vulkan"),
	})
	if err != nil {
		return err
	}
	defer instance.Destroy()

	surface, err := window.CreateSurface(instance)
	if err != nil {
		return err
	}
	defer surface.Destroy()

	req, err := requirements(cfg)
	if err != nil {
		return err
	}

	ctx, err := rendercontext.New(instance, surface, window, rendercontext.Options{
		Requirements: req,
		Log:          log.StandardLogger(),
	})
	if err != nil {
		return err
	}
	defer ctx.Close()

	for _, rating := range ctx.Selection().Ratings {
		log.WithFields(log.Fields{
			"device": rating.Name(),
			"score":  rating.Score,
		}).Info("candidate")
	}

	return loop(window, ctx)
}

func loop(window *sdlwindow.Window, ctx *rendercontext.Context) error {
	for {
		resized := false
		for _, event := range window.Poll(pollTimeoutMS) {
			switch event {
			case sdlwindow.EventQuit:
				return nil
			case sdlwindow.EventResized, sdlwindow.EventRestored:
				resized = true
			}
		}

		if !resized || window.Minimized() {
			continue
		}

		recreated, err := ctx.Recreate()
		if err != nil {
			return err
		}
		if recreated {
			cfg := ctx.Configuration()
			log.WithFields(log.Fields{
				"extent": cfg.Extent,
				"images": ctx.Swapchain().ImageCount(),
			}).Info("swapchain recreated")
		}
	}
}

func main() {
	runtime.LockOSThread()

	cfg, err := config.Load(envy.Get("BRINGUP_CONFIG", "vkbringup.toml"))
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		log.Fatalf("%+v\n", errors.Wrap(err, "log level"))
	}
	log.SetLevel(level)

	if err := run(cfg); err != nil {
		log.Fatalf("%+v\n", err)
	}
}
