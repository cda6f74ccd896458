// Package topo: element kinds, dimensions and adjacency arities.
package topo

// Kind identifies one of the eight element kinds.
type Kind uint8

// The eight element kinds, in canonical order. The order is part of the
// wire and table format and must never change.
const (
	Vertex Kind = iota
	Edge
	Triangle
	Quad
	Tet
	Hex
	Prism
	Pyramid

	// KindCount is the number of element kinds.
	KindCount = 8
)

var kindNames = [KindCount]string{
	"vertex", "edge", "triangle", "quad", "tet", "hex", "prism", "pyramid",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if int(k) >= KindCount {
		return "invalid"
	}
	return kindNames[k]
}

// kindDimension maps each kind to its topological dimension.
var kindDimension = [KindCount]int{0, 1, 2, 2, 3, 3, 3, 3}

// Dim returns the topological dimension of the kind (0 to 3).
func (k Kind) Dim() int { return kindDimension[k] }

// AdjacentCount gives, for each (kind, target dimension), how many
// entities of that dimension are downward-adjacent to an entity of the
// kind. -1 marks dimensions above the kind's own.
var AdjacentCount = [KindCount][4]int{
	{1, -1, -1, -1}, // vertex
	{2, 1, -1, -1},  // edge
	{3, 3, 1, -1},   // tri
	{4, 4, 1, -1},   // quad
	{4, 6, 4, 1},    // tet
	{8, 12, 6, 1},   // hex
	{6, 9, 5, 1},    // prism
	{5, 8, 5, 1},    // pyramid
}

// VertexCount returns the number of vertices spanning the kind.
func (k Kind) VertexCount() int { return AdjacentCount[k][0] }

// EdgeCount returns the number of edges bounding the kind.
// Zero for vertices.
func (k Kind) EdgeCount() int {
	if k == Vertex {
		return 0
	}
	return AdjacentCount[k][1]
}

// Simplex reports whether the kind is a simplex
// (vertex, edge, triangle or tet).
func (k Kind) Simplex() bool {
	return k == Vertex || k == Edge || k == Triangle || k == Tet
}
