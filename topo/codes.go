package topo

// SplitCase names the subdivision template serving one edge-split code
// and the rotation that presents the split edges in the template's
// canonical positions. Template -1 marks codes no template can serve.
type SplitCase struct {
	Template int8
	Rotation int8
}

// Per-kind dispatch tables from edge-split code (a bitmask over the
// canonical edge positions) to SplitCase. Filled at init; the lowest
// rotation code satisfying a template's pattern wins.
var (
	TriSplits     [1 << 3]SplitCase
	QuadSplits    [1 << 4]SplitCase
	TetSplits     [1 << 6]SplitCase
	PrismSplits   [1 << 9]SplitCase
	PyramidSplits [1 << 8]SplitCase
)

// canonical split patterns per kind, indexed by template number.
// A pattern is the edge-split code each template expects after rotation.
var (
	triPatterns = []uint{
		0,
		1 << 0,
		1<<0 | 1<<1,
		1<<0 | 1<<1 | 1<<2,
	}
	quadPatterns = []uint{
		0,             // diagonal preset, no edges split
		1<<0 | 1<<2,   // two parallel edges
		1<<4 - 1,      // uniform
	}
	tetPatterns = []uint{
		0,
		1 << 0,                      // 1: one edge
		1<<1 | 1<<2,                 // 2_1: two edges on one face
		1<<0 | 1<<5,                 // 2_2: two opposite edges
		1<<0 | 1<<1 | 1<<2,          // 3_1: one face
		1<<0 | 1<<2 | 1<<5,          // 3_2
		1<<0 | 1<<1 | 1<<5,          // 3_3
		1<<3 | 1<<4 | 1<<5,          // 3_4: three edges at one vertex
		1<<0 | 1<<1 | 1<<2 | 1<<5,   // 4_1
		1<<1 | 1<<2 | 1<<3 | 1<<4,   // 4_2: belt
		1<<6 - 1 - 1<<5,             // 5: all but one
		1<<6 - 1,                    // 6: uniform
	}
	prismPatterns = []uint{
		0,           // tetrahedronize
		1<<0 | 1<<6, // one bottom and one top edge
		1<<9 - 1,    // uniform
	}
	pyramidPatterns = []uint{
		0,           // tetrahedronize
		1<<0 | 1<<2, // two parallel base edges
		1<<8 - 1,    // uniform
	}
)

// rotatedCode computes the split code an element presents after rotation
// n of kind k: bit e is set when the original edge spanning the rotated
// positions of edge e carries a split.
func rotatedCode(k Kind, code uint, n int) uint {
	ne := k.EdgeCount()
	nv := k.VertexCount()
	row := make([]int, nv)
	var id [8]int
	for i := 0; i < nv; i++ {
		id[i] = i
	}
	Rotate(k, id[:nv], n, row)
	var out uint
	for e := 0; e < ne; e++ {
		ev := EdgeVerts(k, e)
		orig := EdgeIndex(k, row[ev[0]], row[ev[1]])
		if code&(1<<uint(orig)) != 0 {
			out |= 1 << uint(e)
		}
	}
	return out
}

func fillSplits(k Kind, patterns []uint, out []SplitCase) {
	nr := RotationCount(k)
	for code := range out {
		out[code] = SplitCase{Template: -1}
		for t, pat := range patterns {
			if t == 0 && code != 0 {
				continue
			}
			done := false
			for n := 0; n < nr && !done; n++ {
				if rotatedCode(k, uint(code), n) == pat {
					out[code] = SplitCase{Template: int8(t), Rotation: int8(n)}
					done = true
				}
			}
			if done {
				break
			}
		}
	}
}

func init() {
	fillSplits(Triangle, triPatterns, TriSplits[:])
	fillSplits(Quad, quadPatterns, QuadSplits[:])
	fillSplits(Tet, tetPatterns, TetSplits[:])
	fillSplits(Prism, prismPatterns, PrismSplits[:])
	fillSplits(Pyramid, pyramidPatterns, PyramidSplits[:])
}

// SplitCaseOf returns the dispatch entry of kind k for the given
// edge-split code.
func SplitCaseOf(k Kind, code uint) SplitCase {
	switch k {
	case Triangle:
		return TriSplits[code]
	case Quad:
		return QuadSplits[code]
	case Tet:
		return TetSplits[code]
	case Prism:
		return PrismSplits[code]
	case Pyramid:
		return PyramidSplits[code]
	}
	return SplitCase{Template: -1}
}
