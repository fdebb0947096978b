package core

// GenerateInstances evaluates curve for every strand of t at the given time
// and returns one record per segment, strand-major: record s*M+i is segment i
// of strand s. Segment i runs from joint i to joint i+1 so neighbouring
// segments share their frames exactly.
func GenerateInstances(t Topology, curve Curve, palette Palette, radius, time float32) []TubeInstance {
	m := t.SegmentsPerStrand
	out := make([]TubeInstance, 0, t.Instances())
	for s := uint32(0); s < t.Strands(); s++ {
		colour := palette.Colour(s)
		start := curve.Joint(s, 0, time)
		for i := uint32(0); i < m; i++ {
			end := curve.Joint(s, i+1, time)
			out = append(out, Segment(start, end, radius, colour))
			start = end
		}
	}
	return out
}

var (
	_ Curve = Sinusoid{}
	_ Curve = Noodle{}
)
