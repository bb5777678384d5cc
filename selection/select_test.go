package selection_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/gpu/gputest"
	"github.com/vkngwrapper/gpubringup/selection"
)

func selector(devices ...*gputest.Device) *selection.Selector {
	logger, _ := test.NewNullLogger()
	s := selection.New(gputest.NewDriver(devices...), &gputest.Surface{}, selection.DefaultRequirements())
	s.Log = logger
	return s
}

func TestSelectPrefersDiscrete(t *testing.T) {
	integrated := gputest.Integrated("integrated", 16384)
	discrete := gputest.Discrete("discrete", 16384-999)

	sel, err := selector(integrated, discrete).Select()
	require.NoError(t, err)
	assert.Same(t, discrete, sel.Device)
	assert.Equal(t, 1000+16384-999, sel.Score)
	assert.Len(t, sel.Ratings, 2)
}

func TestSelectIntegratedWinsByLargeMargin(t *testing.T) {
	integrated := gputest.Integrated("integrated", 16384)
	discrete := gputest.Discrete("discrete", 4096)

	sel, err := selector(discrete, integrated).Select()
	require.NoError(t, err)
	assert.Same(t, integrated, sel.Device)
}

func TestSelectBetweenDiscreteByImageDimension(t *testing.T) {
	small := gputest.Discrete("small", 8192)
	large := gputest.Discrete("large", 16384)

	sel, err := selector(small, large).Select()
	require.NoError(t, err)
	assert.Same(t, large, sel.Device)
}

func TestSelectTieGoesToFirstEnumerated(t *testing.T) {
	first := gputest.Discrete("first", 8192)
	second := gputest.Discrete("second", 8192)

	sel, err := selector(first, second).Select()
	require.NoError(t, err)
	assert.Same(t, first, sel.Device)
}

func TestSelectSkipsDisqualified(t *testing.T) {
	broken := gputest.Discrete("broken", 32768)
	broken.Features.GeometryShader = false
	fine := gputest.Integrated("fine", 4096)

	sel, err := selector(broken, fine).Select()
	require.NoError(t, err)
	assert.Same(t, fine, sel.Device)
	assert.Equal(t, 0, sel.Ratings[0].Score)
	assert.Equal(t, 4096, sel.Ratings[1].Score)
}

func TestSelectRatesEveryCandidate(t *testing.T) {
	a := gputest.Integrated("a", 4096)
	b := gputest.Discrete("b", 4096)
	b.PresentModes = nil
	c := gputest.Integrated("c", 2048)

	sel, err := selector(a, b, c).Select()
	require.NoError(t, err)
	require.Len(t, sel.Ratings, 3)
	assert.Equal(t, []int{4096, 0, 2048}, []int{sel.Ratings[0].Score, sel.Ratings[1].Score, sel.Ratings[2].Score})
}

func TestSelectReturnsIndicesOfWinner(t *testing.T) {
	dev := gputest.Discrete("split", 4096)
	dev.QueueFamilies = []gpu.QueueFamilyProperties{
		{Flags: gpu.QueueTransfer, QueueCount: 1},
		{Flags: gpu.QueueGraphics, QueueCount: 1},
		{Flags: gpu.QueueCompute, QueueCount: 1},
	}
	dev.PresentFamilies = []int{2}

	sel, err := selector(dev).Select()
	require.NoError(t, err)
	require.True(t, sel.Indices.IsComplete())
	assert.Equal(t, 1, *sel.Indices.Graphics)
	assert.Equal(t, 2, *sel.Indices.Present)
	assert.Same(t, dev, sel.Capabilities.Device)
}

func TestSelectNoDevices(t *testing.T) {
	_, err := selector().Select()
	assert.True(t, errors.Is(err, gpu.ErrNoDevicesFound))
}

func TestSelectNoSuitableDevice(t *testing.T) {
	noGeometry := gputest.Discrete("no-geometry", 16384)
	noGeometry.Features.GeometryShader = false
	noSwapchain := gputest.Integrated("no-swapchain", 8192)
	noSwapchain.Extensions = nil

	_, err := selector(noGeometry, noSwapchain).Select()
	require.Error(t, err)
	assert.True(t, errors.Is(err, gpu.ErrNoSuitableDevice))

	var nsd *gpu.NoSuitableDeviceError
	require.True(t, errors.As(err, &nsd))
	require.Len(t, nsd.Candidates, 2)
	assert.Equal(t, []gpu.Disqualification{gpu.MissingGeometryShader}, nsd.Candidates[0].Reasons)
	assert.Equal(t, []string{selection.SwapchainExtension}, nsd.Candidates[1].Missing)
	assert.Contains(t, err.Error(), "no-geometry: geometry shader unsupported")
	assert.Contains(t, err.Error(), "no-swapchain: required device extensions missing (VK_KHR_swapchain)")
}

func TestSelectZeroScoreWithoutReasonsFails(t *testing.T) {
	dev := gputest.Integrated("tiny", 0)

	_, err := selector(dev).Select()
	assert.True(t, errors.Is(err, gpu.ErrNoSuitableDevice))
	assert.Contains(t, err.Error(), "tiny: scored zero")
}

func TestSelectProbeFailureIsFatal(t *testing.T) {
	lost := errors.New("device lost")
	good := gputest.Discrete("good", 16384)
	bad := gputest.Integrated("bad", 4096)
	bad.Err = lost

	_, err := selector(good, bad).Select()
	assert.True(t, errors.Is(err, lost))
	assert.False(t, errors.Is(err, gpu.ErrNoSuitableDevice))
}

func TestSelectEnumerateFailure(t *testing.T) {
	s := selector()
	s.Driver.(*gputest.Driver).EnumerateErr = errors.New("instance lost")

	_, err := s.Select()
	assert.EqualError(t, errors.Cause(err), "instance lost")
}

func TestSelectLogsEveryCandidate(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	broken := gputest.Discrete("broken", 32768)
	broken.Formats = nil
	s := selection.New(gputest.NewDriver(broken, gputest.Integrated("fine", 4096)), &gputest.Surface{}, selection.DefaultRequirements())
	s.Log = logger

	_, err := s.Select()
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "device disqualified", entries[0].Message)
	assert.Equal(t, "broken", entries[0].Data["device"])
	assert.Equal(t, "device rated", entries[1].Message)
	assert.Equal(t, "selected physical device", entries[2].Message)
	assert.Equal(t, log.InfoLevel, entries[2].Level)
}

func TestSelectBestDeviceFromGivenCandidates(t *testing.T) {
	first := gputest.Discrete("first", 8192)
	second := gputest.Discrete("second", 16384)
	driver := gputest.NewDriver(first, second)

	sel, err := selection.SelectBestDevice(driver, &gputest.Surface{}, []gpu.PhysicalDevice{first}, selection.DefaultRequirements())
	require.NoError(t, err)
	assert.Same(t, first, sel.Device)
	assert.Zero(t, driver.Calls["EnumeratePhysicalDevices"])
}
