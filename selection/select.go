package selection

import (
	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/probe"
	"github.com/vkngwrapper/gpubringup/queues"
)

// Selection is the chosen device together with what was learned about it.
type Selection struct {
	Device       gpu.PhysicalDevice
	Capabilities *probe.Capabilities
	Indices      queues.FamilyIndices
	Score        int

	// Ratings holds every candidate's rating in enumeration order.
	Ratings []Rating
}

// Selector picks the best device a Driver offers for a Surface.
type Selector struct {
	Driver       gpu.Driver
	Surface      gpu.Surface
	Requirements Requirements
	Log          log.FieldLogger
}

func New(driver gpu.Driver, surface gpu.Surface, req Requirements) *Selector {
	return &Selector{
		Driver:       driver,
		Surface:      surface,
		Requirements: req,
		Log:          log.StandardLogger(),
	}
}

func (s *Selector) logger() log.FieldLogger {
	if s.Log == nil {
		return log.StandardLogger()
	}
	return s.Log
}

// Select enumerates the driver's devices and picks among them.
func (s *Selector) Select() (*Selection, error) {
	devices, err := s.Driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "selection: enumerate physical devices")
	}
	return s.SelectFrom(devices)
}

// Rate probes and scores one candidate.
func (s *Selector) Rate(device gpu.PhysicalDevice) (Rating, error) {
	caps, err := probe.Probe(s.Driver, s.Surface, device)
	if err != nil {
		return Rating{}, err
	}

	indices, err := queues.ResolveFamilies(caps.QueueFamilies, func(index int) (bool, error) {
		return s.Surface.SupportsPresent(device, index)
	})
	if err != nil {
		return Rating{}, err
	}

	return Score(caps, indices, s.Requirements), nil
}

// SelectFrom rates every candidate and returns the highest scoring one. Equal
// scores go to the candidate enumerated first. A platform failure while
// probing any candidate aborts selection.
func (s *Selector) SelectFrom(candidates []gpu.PhysicalDevice) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, errors.WithStack(gpu.ErrNoDevicesFound)
	}

	start := hrtime.Now()
	logger := s.logger()

	selection := &Selection{Ratings: make([]Rating, 0, len(candidates))}
	best := -1
	for i, device := range candidates {
		rating, err := s.Rate(device)
		if err != nil {
			return nil, errors.Wrapf(err, "selection: candidate %d", i)
		}
		selection.Ratings = append(selection.Ratings, rating)

		entry := logger.WithFields(log.Fields{
			"device": rating.Name(),
			"type":   rating.Capabilities.Properties.Type,
			"score":  rating.Score,
		})
		if rating.Disqualified() {
			entry.WithField("reasons", rating.Reasons).Debug("device disqualified")
		} else {
			entry.Debug("device rated")
		}

		if best < 0 || rating.Score > selection.Ratings[best].Score {
			best = i
		}
	}

	winner := selection.Ratings[best]
	if winner.Score == 0 {
		reports := make([]gpu.CandidateReport, 0, len(selection.Ratings))
		for _, rating := range selection.Ratings {
			reports = append(reports, rating.report())
		}
		return nil, errors.WithStack(&gpu.NoSuitableDeviceError{Candidates: reports})
	}

	selection.Device = winner.Capabilities.Device
	selection.Capabilities = winner.Capabilities
	selection.Indices = winner.Indices
	selection.Score = winner.Score

	logger.WithFields(log.Fields{
		"device":   winner.Name(),
		"score":    winner.Score,
		"graphics": *winner.Indices.Graphics,
		"present":  *winner.Indices.Present,
		"elapsed":  hrtime.Since(start),
	}).Info("selected physical device")

	return selection, nil
}

// SelectBestDevice picks among candidates with a Selector that logs to the
// standard logger.
func SelectBestDevice(driver gpu.Driver, surface gpu.Surface, candidates []gpu.PhysicalDevice, req Requirements) (*Selection, error) {
	return New(driver, surface, req).SelectFrom(candidates)
}
