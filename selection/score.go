// Package selection scores candidate devices and picks the one the renderer
// runs on.
package selection

import (
	"github.com/google/uuid"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/probe"
	"github.com/vkngwrapper/gpubringup/queues"
)

// SwapchainExtension is the device extension every candidate must offer.
const SwapchainExtension = "VK_KHR_swapchain"

// DiscreteBonus is added to the score of discrete GPUs.
const DiscreteBonus = 1000

// Requirements are the hard requirements beyond the geometry shader feature,
// which is always required.
type Requirements struct {
	Extensions []string
	// DeviceUUID, when set, rejects every device with a different pipeline
	// cache UUID.
	DeviceUUID uuid.UUID
}

func DefaultRequirements() Requirements {
	return Requirements{Extensions: []string{SwapchainExtension}}
}

// Rating is the outcome of scoring one candidate.
type Rating struct {
	Capabilities *probe.Capabilities
	Indices      queues.FamilyIndices

	Score             int
	Reasons           []gpu.Disqualification
	MissingExtensions []string
}

func (r Rating) Name() string {
	if r.Capabilities == nil || r.Capabilities.Properties == nil {
		return "unknown device"
	}
	return r.Capabilities.Properties.Name
}

func (r Rating) Disqualified() bool {
	return len(r.Reasons) > 0
}

func (r Rating) report() gpu.CandidateReport {
	return gpu.CandidateReport{Name: r.Name(), Reasons: r.Reasons, Missing: r.MissingExtensions}
}

// Score rates a probed device. Any failed hard requirement forces the score
// to exactly zero; every failed requirement is listed in Reasons.
func Score(caps *probe.Capabilities, indices queues.FamilyIndices, req Requirements) Rating {
	rating := Rating{Capabilities: caps, Indices: indices}

	score := 0
	if caps.Properties.Type == gpu.DeviceTypeDiscreteGPU {
		score += DiscreteBonus
	}
	score += int(caps.Properties.MaxImageDimension2D)

	if req.DeviceUUID != uuid.Nil && caps.Properties.PipelineCacheUUID != req.DeviceUUID {
		rating.Reasons = append(rating.Reasons, gpu.NotPinnedDevice)
	}

	if caps.Features == nil || !caps.Features.GeometryShader {
		rating.Reasons = append(rating.Reasons, gpu.MissingGeometryShader)
	}

	rating.MissingExtensions = caps.Extensions.Missing(req.Extensions)
	if len(rating.MissingExtensions) > 0 {
		rating.Reasons = append(rating.Reasons, gpu.MissingExtensions)
	}

	if len(caps.Surface.Formats) == 0 {
		rating.Reasons = append(rating.Reasons, gpu.NoSurfaceFormats)
	}
	if len(caps.Surface.PresentModes) == 0 {
		rating.Reasons = append(rating.Reasons, gpu.NoPresentModes)
	}

	if !indices.IsComplete() {
		rating.Reasons = append(rating.Reasons, gpu.IncompleteQueueFamilies)
	}

	if rating.Disqualified() {
		score = 0
	}
	rating.Score = score
	return rating
}
