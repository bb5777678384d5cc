package queues_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/gpubringup/gpu"
	"github.com/vkngwrapper/gpubringup/gpu/gputest"
	"github.com/vkngwrapper/gpubringup/queues"
)

func index(i int) *int { return &i }

func families(flags ...gpu.QueueFlags) []gpu.QueueFamilyProperties {
	props := make([]gpu.QueueFamilyProperties, len(flags))
	for i, f := range flags {
		props[i] = gpu.QueueFamilyProperties{Flags: f, QueueCount: 1}
	}
	return props
}

func TestResolve(t *testing.T) {
	testCases := []struct {
		name     string
		flags    []gpu.QueueFlags
		present  []int
		want     queues.FamilyIndices
		complete bool
		queried  []int
	}{
		{
			name:     "combined family",
			flags:    []gpu.QueueFlags{gpu.QueueGraphics | gpu.QueueCompute},
			present:  []int{0},
			want:     queues.FamilyIndices{Graphics: index(0), Present: index(0)},
			complete: true,
			queried:  []int{0},
		},
		{
			name:     "split families",
			flags:    []gpu.QueueFlags{gpu.QueueCompute, gpu.QueueGraphics, gpu.QueueTransfer},
			present:  []int{2},
			want:     queues.FamilyIndices{Graphics: index(1), Present: index(2)},
			complete: true,
			queried:  []int{0, 1, 2},
		},
		{
			name:     "first match wins over a later combined family",
			flags:    []gpu.QueueFlags{gpu.QueueGraphics, gpu.QueueTransfer, gpu.QueueGraphics},
			present:  []int{1, 2},
			want:     queues.FamilyIndices{Graphics: index(0), Present: index(1)},
			complete: true,
			queried:  []int{0, 1},
		},
		{
			name:     "stops scanning once both are found",
			flags:    []gpu.QueueFlags{gpu.QueueGraphics, gpu.QueueGraphics, gpu.QueueGraphics},
			present:  []int{0, 1, 2},
			want:     queues.FamilyIndices{Graphics: index(0), Present: index(0)},
			complete: true,
			queried:  []int{0},
		},
		{
			name:     "no presentation",
			flags:    []gpu.QueueFlags{gpu.QueueGraphics, gpu.QueueCompute},
			want:     queues.FamilyIndices{Graphics: index(0)},
			complete: false,
			queried:  []int{0, 1},
		},
		{
			name:     "no graphics",
			flags:    []gpu.QueueFlags{gpu.QueueCompute, gpu.QueueTransfer},
			present:  []int{1},
			want:     queues.FamilyIndices{Present: index(1)},
			complete: false,
			queried:  []int{0, 1},
		},
		{
			name:     "no families",
			want:     queues.FamilyIndices{},
			complete: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dev := gputest.Discrete("GPU", 4096)
			dev.QueueFamilies = families(tc.flags...)
			dev.PresentFamilies = tc.present
			surface := &gputest.Surface{}

			indices, err := queues.Resolve(gputest.NewDriver(dev), surface, dev)
			require.NoError(t, err)

			assert.Equal(t, tc.want, indices)
			assert.Equal(t, tc.complete, indices.IsComplete())
			assert.Equal(t, tc.queried, surface.PresentQueries)
		})
	}
}

func TestResolvePropagatesSurfaceError(t *testing.T) {
	lost := errors.New("surface lost")
	_, err := queues.ResolveFamilies(families(gpu.QueueCompute), func(int) (bool, error) {
		return false, lost
	})
	assert.True(t, errors.Is(err, lost))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int{1}, queues.FamilyIndices{Graphics: index(1), Present: index(1)}.Unique())
	assert.Equal(t, []int{1, 2}, queues.FamilyIndices{Graphics: index(1), Present: index(2)}.Unique())
	assert.Equal(t, []int{3}, queues.FamilyIndices{Present: index(3)}.Unique())
	assert.Nil(t, queues.FamilyIndices{}.Unique())
}

func TestShared(t *testing.T) {
	assert.True(t, queues.FamilyIndices{Graphics: index(1), Present: index(1)}.Shared())
	assert.False(t, queues.FamilyIndices{Graphics: index(1), Present: index(2)}.Shared())
	assert.False(t, queues.FamilyIndices{Graphics: index(1)}.Shared())
}
