package gpu

// Driver is the platform graphics driver as seen by the bring-up core. Every
// method is a read-only query; implementations must not cache results across
// calls.
type Driver interface {
	EnumeratePhysicalDevices() ([]PhysicalDevice, error)
	Properties(device PhysicalDevice) (*DeviceProperties, error)
	Features(device PhysicalDevice) (*DeviceFeatures, error)
	Extensions(device PhysicalDevice) (ExtensionSet, error)
	QueueFamilies(device PhysicalDevice) ([]QueueFamilyProperties, error)
}

// Surface is a present target tied to a window. Capabilities change whenever
// the window is resized or moved between displays, so callers re-query
// instead of holding on to old answers.
type Surface interface {
	Capabilities(device PhysicalDevice) (*SurfaceCapabilities, error)
	Formats(device PhysicalDevice) ([]SurfaceFormat, error)
	PresentModes(device PhysicalDevice) ([]PresentMode, error)
	SupportsPresent(device PhysicalDevice, queueFamily int) (bool, error)
}

// Window reports the size of its drawable area in pixels, which differs from
// its size in screen coordinates under display scaling.
type Window interface {
	FramebufferSize() (width, height int)
}
