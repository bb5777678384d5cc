// Package queues finds the queue families a device uses for graphics work and
// for presenting to a surface.
package queues

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/gpubringup/gpu"
)

// FamilyIndices holds the graphics and presentation queue family indices.
// Either may be unset. They may be equal.
type FamilyIndices struct {
	Graphics *int
	Present  *int
}

func (i FamilyIndices) IsComplete() bool {
	return i.Graphics != nil && i.Present != nil
}

// Shared reports whether graphics and presentation use the same family.
// It is false for incomplete indices.
func (i FamilyIndices) Shared() bool {
	return i.IsComplete() && *i.Graphics == *i.Present
}

// Unique returns the distinct family indices, graphics first, as needed when
// creating one queue per family.
func (i FamilyIndices) Unique() []int {
	var unique []int
	if i.Graphics != nil {
		unique = append(unique, *i.Graphics)
	}
	if i.Present != nil && (i.Graphics == nil || *i.Present != *i.Graphics) {
		unique = append(unique, *i.Present)
	}
	return unique
}

// Resolve queries device's queue families and the surface's presentation
// support for each of them.
func Resolve(driver gpu.Driver, surface gpu.Surface, device gpu.PhysicalDevice) (FamilyIndices, error) {
	families, err := driver.QueueFamilies(device)
	if err != nil {
		return FamilyIndices{}, errors.Wrap(err, "queues: queue family properties")
	}

	return ResolveFamilies(families, func(index int) (bool, error) {
		return surface.SupportsPresent(device, index)
	})
}

// ResolveFamilies scans families once, in order. The first family with the
// graphics flag and the first family that supportsPresent each win on their
// own; the scan stops as soon as both are set.
func ResolveFamilies(families []gpu.QueueFamilyProperties, supportsPresent func(index int) (bool, error)) (FamilyIndices, error) {
	var indices FamilyIndices

	for index, family := range families {
		if indices.Graphics == nil && family.Flags&gpu.QueueGraphics != 0 {
			graphics := index
			indices.Graphics = &graphics
		}

		if indices.Present == nil {
			supported, err := supportsPresent(index)
			if err != nil {
				return indices, errors.Wrapf(err, "queues: surface support for family %d", index)
			}
			if supported {
				present := index
				indices.Present = &present
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
