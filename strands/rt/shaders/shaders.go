package shaders

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/canmom/noodles/strands/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/naga"
)

//go:embed common.wgsl
var CommonWGSL string

//go:embed tube.wgsl
var TubeWGSL string

//go:embed instances.wgsl
var InstancesWGSL string

// Entry points.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
	ComputeEntry  = "create_instances"
)

// Params are the values baked into the shader sources as WGSL constants.
type Params struct {
	Topology core.Topology
	Radius   float32
	Palette  core.Palette
	Noodle   core.Noodle
}

// Header renders Params as WGSL const declarations plus the strand_colour
// lookup used by create_instances.
func Header(p Params) string {
	var sb strings.Builder
	t := p.Topology
	u32 := func(name string, v uint32) {
		fmt.Fprintf(&sb, "const %s: u32 = %du;\n", name, v)
	}
	f32 := func(name string, v float32) {
		fmt.Fprintf(&sb, "const %s: f32 = %s;\n", name, float(v))
	}

	u32("STRANDS_X", t.StrandGrid[0])
	u32("STRANDS_Y", t.StrandGrid[1])
	u32("SEGMENTS_PER_STRAND", t.SegmentsPerStrand)
	f32("RADIUS", p.Radius)
	f32("NOODLE_SPACING", p.Noodle.Spacing)
	f32("NOODLE_LENGTH", p.Noodle.Length)
	f32("NOODLE_AMPLITUDE", p.Noodle.Amplitude)
	f32("NOODLE_WAVES", p.Noodle.Waves)
	fmt.Fprintf(&sb, "const NOODLE_CENTRE: vec3<f32> = %s;\n", vec3(p.Noodle.Centre))

	palette := p.Palette
	if len(palette) == 0 {
		palette = core.DefaultPalette()
	}
	u32("PALETTE_SIZE", uint32(len(palette)))
	sb.WriteString("\nfn strand_colour(strand: u32) -> vec3<f32> {\n")
	sb.WriteString("    let i = strand % PALETTE_SIZE;\n")
	fmt.Fprintf(&sb, "    var c = %s;\n", vec3(palette[0]))
	for i, c := range palette[1:] {
		fmt.Fprintf(&sb, "    if (i == %du) { c = %s; }\n", i+1, vec3(c))
	}
	sb.WriteString("    return c;\n}\n\n")
	return sb.String()
}

// TubeSource is the complete render module (vs_main, fs_main).
func TubeSource(p Params) string {
	return Header(p) + CommonWGSL + "\n" + TubeWGSL
}

// InstancesSource is the complete compute module (create_instances).
func InstancesSource(p Params) string {
	body := strings.NewReplacer(
		"{{WORKGROUP_SIZE_X}}", strconv.FormatUint(uint64(p.Topology.WorkgroupSize[0]), 10),
		"{{WORKGROUP_SIZE_Y}}", strconv.FormatUint(uint64(p.Topology.WorkgroupSize[1]), 10),
	).Replace(InstancesWGSL)
	return Header(p) + CommonWGSL + "\n" + body
}

// Compile translates WGSL to SPIR-V with naga. The wgpu pipeline consumes
// WGSL directly; this is used to validate sources offline.
func Compile(src string) ([]byte, error) {
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	return spirv, nil
}

func float(v float32) string {
	return fmt.Sprintf("%.6f", v)
}

func vec3(v mgl32.Vec3) string {
	return fmt.Sprintf("vec3<f32>(%s, %s, %s)", float(v[0]), float(v[1]), float(v[2]))
}
