package core

import (
	"errors"
	"fmt"
)

// ErrInvalidTopology is wrapped by every topology validation failure.
var ErrInvalidTopology = errors.New("invalid strand topology")

// MaxInvocationsPerWorkgroup is the WebGPU default limit for
// maxComputeInvocationsPerWorkgroup.
const MaxInvocationsPerWorkgroup = 256

// MaxWorkgroupsPerDimension is the WebGPU default limit for
// maxComputeWorkgroupsPerDimension.
const MaxWorkgroupsPerDimension = 65535

// MaxStorageBufferBindingSize is the WebGPU default limit for a single
// storage buffer binding (128 MiB).
const MaxStorageBufferBindingSize = 128 << 20

// Topology fixes how many strands exist, how finely each is segmented and how
// the compute grid covers them. It never changes after pipeline construction.
type Topology struct {
	// StrandGrid is the number of strands along x and y. Strand s sits at
	// grid cell (s % StrandGrid[0], s / StrandGrid[0]).
	StrandGrid [2]uint32
	// WorkgroupSize is the compute invocation count per workgroup along x and y.
	WorkgroupSize     [2]uint32
	SegmentsPerStrand uint32
	Sides             uint32
}

// DefaultTopology is 32x32 strands of 64 segments each, dispatched as 2x2
// workgroups of 16x16 invocations, with an octagonal cross-section.
func DefaultTopology() Topology {
	return Topology{
		StrandGrid:        [2]uint32{32, 32},
		WorkgroupSize:     [2]uint32{16, 16},
		SegmentsPerStrand: 64,
		Sides:             8,
	}
}

// Validate reports the first combination that cannot be mapped exactly onto
// the dispatch grid and the instance buffer.
func (t Topology) Validate() error {
	for axis, name := range []string{"x", "y"} {
		if t.StrandGrid[axis] == 0 {
			return fmt.Errorf("%w: strand grid %s is zero", ErrInvalidTopology, name)
		}
		if t.WorkgroupSize[axis] == 0 {
			return fmt.Errorf("%w: workgroup size %s is zero", ErrInvalidTopology, name)
		}
		if t.StrandGrid[axis]%t.WorkgroupSize[axis] != 0 {
			return fmt.Errorf("%w: strand grid %s (%d) is not a multiple of workgroup size %s (%d)",
				ErrInvalidTopology, name, t.StrandGrid[axis], name, t.WorkgroupSize[axis])
		}
	}
	if n := t.InvocationsPerWorkgroup(); n > MaxInvocationsPerWorkgroup {
		return fmt.Errorf("%w: %d invocations per workgroup exceeds %d",
			ErrInvalidTopology, n, MaxInvocationsPerWorkgroup)
	}
	wg := t.Workgroups()
	for axis, n := range wg[:2] {
		if n > MaxWorkgroupsPerDimension {
			return fmt.Errorf("%w: %d workgroups along %s exceeds %d",
				ErrInvalidTopology, n, []string{"x", "y"}[axis], MaxWorkgroupsPerDimension)
		}
	}
	if t.SegmentsPerStrand == 0 {
		return fmt.Errorf("%w: segments per strand is zero", ErrInvalidTopology)
	}
	if t.Sides < 3 {
		return fmt.Errorf("%w: a cross-section needs at least 3 sides, got %d", ErrInvalidTopology, t.Sides)
	}
	if size := t.InstanceBufferSize(); size > MaxStorageBufferBindingSize {
		return fmt.Errorf("%w: instance buffer of %d bytes exceeds %d",
			ErrInvalidTopology, size, MaxStorageBufferBindingSize)
	}
	return nil
}

// Workgroups is the dispatch grid. Only meaningful after Validate succeeds.
func (t Topology) Workgroups() [3]uint32 {
	return [3]uint32{
		t.StrandGrid[0] / t.WorkgroupSize[0],
		t.StrandGrid[1] / t.WorkgroupSize[1],
		1,
	}
}

func (t Topology) InvocationsPerWorkgroup() uint32 {
	return t.WorkgroupSize[0] * t.WorkgroupSize[1]
}

// Invocations is the total compute invocation count of one dispatch.
func (t Topology) Invocations() uint32 {
	wg := t.Workgroups()
	return wg[0] * wg[1] * wg[2] * t.InvocationsPerWorkgroup()
}

func (t Topology) Strands() uint32 {
	return t.StrandGrid[0] * t.StrandGrid[1]
}

// Instances is the number of TubeInstance records, one per segment.
func (t Topology) Instances() uint32 {
	return t.Strands() * t.SegmentsPerStrand
}

// CrossSectionVertices is the triangle-strip length for Sides.
func (t Topology) CrossSectionVertices() uint32 {
	return 2*t.Sides + 2
}

// InstanceBufferSize is the exact byte capacity of the instance buffer.
func (t Topology) InstanceBufferSize() uint64 {
	return uint64(TubeInstanceStride) * uint64(t.StrandGrid[0]) * uint64(t.StrandGrid[1]) * uint64(t.SegmentsPerStrand)
}

// GridCell returns the strand grid coordinates of strand s.
func (t Topology) GridCell(s uint32) (x, y uint32) {
	return gridCell(t.StrandGrid, s)
}

func gridCell(grid [2]uint32, s uint32) (x, y uint32) {
	return s % grid[0], s / grid[0]
}
