package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Topology)
		wantErr bool
		msg     string
	}{
		{name: "default", mutate: func(*Topology) {}},
		{name: "single workgroup", mutate: func(tp *Topology) { tp.StrandGrid = [2]uint32{16, 16} }},
		{name: "triangle", mutate: func(tp *Topology) { tp.Sides = 3 }},
		{name: "zero grid", mutate: func(tp *Topology) { tp.StrandGrid[0] = 0 }, wantErr: true},
		{name: "zero workgroup", mutate: func(tp *Topology) { tp.WorkgroupSize[1] = 0 }, wantErr: true},
		{name: "grid not multiple", mutate: func(tp *Topology) { tp.StrandGrid = [2]uint32{33, 32} }, wantErr: true},
		{name: "workgroup too large", mutate: func(tp *Topology) {
			tp.StrandGrid = [2]uint32{32, 32}
			tp.WorkgroupSize = [2]uint32{32, 32}
		}, wantErr: true},
		{name: "no segments", mutate: func(tp *Topology) { tp.SegmentsPerStrand = 0 }, wantErr: true},
		{name: "two sides", mutate: func(tp *Topology) { tp.Sides = 2 }, wantErr: true},
		{name: "buffer overflow", mutate: func(tp *Topology) {
			tp.StrandGrid = [2]uint32{1024, 1024}
			tp.SegmentsPerStrand = 64
		}, wantErr: true},
		{name: "widest dispatch", mutate: func(tp *Topology) {
			*tp = Topology{StrandGrid: [2]uint32{65535, 1}, WorkgroupSize: [2]uint32{1, 1}, SegmentsPerStrand: 1, Sides: 3}
		}},
		{name: "too many workgroups", mutate: func(tp *Topology) {
			*tp = Topology{StrandGrid: [2]uint32{70000, 1}, WorkgroupSize: [2]uint32{1, 1}, SegmentsPerStrand: 1, Sides: 3}
		}, wantErr: true, msg: "70000 workgroups along x"},
		{name: "too many workgroups along y", mutate: func(tp *Topology) {
			*tp = Topology{StrandGrid: [2]uint32{1, 65536}, WorkgroupSize: [2]uint32{1, 1}, SegmentsPerStrand: 1, Sides: 3}
		}, wantErr: true, msg: "along y"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tp := DefaultTopology()
			tc.mutate(&tp)
			err := tp.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTopology)
				if tc.msg != "" {
					assert.ErrorContains(t, err, tc.msg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTopologyCounts(t *testing.T) {
	tp := DefaultTopology()
	require.NoError(t, tp.Validate())

	assert.Equal(t, [3]uint32{2, 2, 1}, tp.Workgroups())
	assert.Equal(t, uint32(1024), tp.Strands())
	assert.Equal(t, tp.Strands(), tp.Invocations())
	assert.Equal(t, uint32(1024*64), tp.Instances())
	assert.Equal(t, uint32(18), tp.CrossSectionVertices())
	assert.Equal(t, uint64(112*1024*64), tp.InstanceBufferSize())

	x, y := tp.GridCell(33)
	assert.Equal(t, uint32(1), x)
	assert.Equal(t, uint32(1), y)
}

func TestTubeInstanceLayout(t *testing.T) {
	assert.Equal(t, uint32(112), TubeInstanceStride)
	assert.Equal(t, uint64(24), VertexStride)
}
