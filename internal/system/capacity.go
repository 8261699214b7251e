package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Capacity is a snapshot of the host resources relevant for rendering.
type Capacity struct {
	LogicalCPUs     int
	TotalMemory     uint64
	AvailableMemory uint64
}

// ProbeCapacity reads CPU count and memory via gopsutil.
func ProbeCapacity() (Capacity, error) {
	cpus, err := cpu.Counts(true)
	if err != nil {
		return Capacity{}, fmt.Errorf("cpu count: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Capacity{}, fmt.Errorf("virtual memory: %w", err)
	}
	return Capacity{
		LogicalCPUs:     cpus,
		TotalMemory:     vm.Total,
		AvailableMemory: vm.Available,
	}, nil
}

// framesInFlight is how many RGBA frames one worker holds at once: the one
// being rasterized plus the ffmpeg pipe buffer.
const framesInFlight = 4

// Workers returns how many render workers fit: one per logical CPU, capped
// so that their frames use at most half of the available memory. Always >= 1.
func (c Capacity) Workers(width, height int) int {
	n := c.LogicalCPUs
	frameBytes := uint64(width) * uint64(height) * 4 * framesInFlight
	if frameBytes > 0 && c.AvailableMemory > 0 {
		if byMem := int(c.AvailableMemory / 2 / frameBytes); byMem < n {
			n = byMem
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}
