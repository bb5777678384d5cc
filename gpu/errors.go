package gpu

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNoDevicesFound is returned when the driver enumerates no devices.
	ErrNoDevicesFound = errors.New("failed to find GPUs with Vulkan support")
	// ErrNoSuitableDevice is returned when every candidate scores zero.
	ErrNoSuitableDevice = errors.New("failed to find a suitable GPU")
)

// Disqualification names a hard requirement a device failed.
type Disqualification string

const (
	MissingGeometryShader   Disqualification = "geometry shader unsupported"
	MissingExtensions       Disqualification = "required device extensions missing"
	NoSurfaceFormats        Disqualification = "surface reports no formats"
	NoPresentModes          Disqualification = "surface reports no present modes"
	IncompleteQueueFamilies Disqualification = "no graphics and presentation queue families"
	NotPinnedDevice         Disqualification = "not the configured device"
)

// CandidateReport describes why one candidate was rejected.
type CandidateReport struct {
	Name    string
	Reasons []Disqualification
	Missing []string
}

func (r CandidateReport) String() string {
	if len(r.Reasons) == 0 {
		return fmt.Sprintf("%s: scored zero", r.Name)
	}
	reasons := make([]string, 0, len(r.Reasons))
	for _, reason := range r.Reasons {
		if reason == MissingExtensions && len(r.Missing) > 0 {
			reasons = append(reasons, fmt.Sprintf("%s (%s)", reason, strings.Join(r.Missing, ", ")))
			continue
		}
		reasons = append(reasons, string(reason))
	}
	return fmt.Sprintf("%s: %s", r.Name, strings.Join(reasons, "; "))
}

// NoSuitableDeviceError lists every rejected candidate. It matches
// ErrNoSuitableDevice under errors.Is.
type NoSuitableDeviceError struct {
	Candidates []CandidateReport
}

func (e *NoSuitableDeviceError) Error() string {
	if len(e.Candidates) == 0 {
		return ErrNoSuitableDevice.Error()
	}
	parts := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("%s: %s", ErrNoSuitableDevice, strings.Join(parts, " | "))
}

func (e *NoSuitableDeviceError) Is(target error) bool {
	return target == ErrNoSuitableDevice
}
