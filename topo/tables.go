package topo

// Canonical sub-entity vertex orderings. These agree with the adjacency
// tables of the mesh store and with every cooperating process; treat them
// as read-only.

// TriEdgeVerts lists the vertex pair of each triangle edge.
var TriEdgeVerts = [3][2]int{{0, 1}, {1, 2}, {2, 0}}

// QuadEdgeVerts lists the vertex pair of each quad edge.
var QuadEdgeVerts = [4][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}

// TetEdgeVerts lists the vertex pair of each tet edge.
//
// Canonical tet numbering: vertex 3 sits above the 0-1-2 triangle,
// edges 0,1,2 run around that triangle and edges 3,4,5 rise to vertex 3.
var TetEdgeVerts = [6][2]int{
	{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3},
}

// TetTriVerts lists the vertex triple of each tet face.
var TetTriVerts = [4][3]int{
	{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3},
}

// PrismEdgeVerts lists the vertex pair of each prism edge: the bottom
// triangle, the three vertical edges, then the top triangle.
var PrismEdgeVerts = [9][2]int{
	{0, 1}, {1, 2}, {2, 0},
	{0, 3}, {1, 4}, {2, 5},
	{3, 4}, {4, 5}, {5, 3},
}

// PrismTriVerts lists the vertex triples of the two prism triangle faces.
var PrismTriVerts = [2][3]int{{0, 1, 2}, {3, 4, 5}}

// PrismQuadVerts lists the vertex quadruples of the three prism quad faces.
var PrismQuadVerts = [3][4]int{
	{0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5},
}

// PyramidEdgeVerts lists the vertex pair of each pyramid edge: the quad
// base followed by the four apex edges.
var PyramidEdgeVerts = [8][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{0, 4}, {1, 4}, {2, 4}, {3, 4},
}

// PyramidTriVerts lists the vertex triples of the four pyramid triangle
// faces.
var PyramidTriVerts = [4][3]int{
	{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4},
}

// HexQuadVerts lists the vertex quadruples of the six hex faces: the
// bottom quad, the four sides, the top quad. Hexes are stored but never
// refined, so only the mesh store reads this table.
var HexQuadVerts = [6][4]int{
	{0, 1, 2, 3},
	{0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	{4, 5, 6, 7},
}

// edgeIndex[k] maps an unordered vertex pair of kind k to its canonical
// edge position, -1 where no edge connects the pair. Built as a variable
// initializer so every init function in the package may rely on it.
var edgeIndex = [KindCount][][]int{
	Triangle: buildEdgeIndex(3, TriEdgeVerts[:]),
	Quad:     buildEdgeIndex(4, QuadEdgeVerts[:]),
	Tet:      buildEdgeIndex(4, TetEdgeVerts[:]),
	Prism:    buildEdgeIndex(6, PrismEdgeVerts[:]),
	Pyramid:  buildEdgeIndex(5, PyramidEdgeVerts[:]),
}

func buildEdgeIndex(nv int, ev [][2]int) [][]int {
	idx := make([][]int, nv)
	for i := range idx {
		idx[i] = make([]int, nv)
		for j := range idx[i] {
			idx[i][j] = -1
		}
	}
	for e, p := range ev {
		idx[p[0]][p[1]] = e
		idx[p[1]][p[0]] = e
	}
	return idx
}

// EdgeIndex returns the canonical edge position of kind k connecting
// local vertices a and b, or -1 if they share no edge.
func EdgeIndex(k Kind, a, b int) int {
	t := edgeIndex[k]
	if t == nil {
		return -1
	}
	return t[a][b]
}

// EdgeVerts returns the canonical vertex pair of edge e of kind k.
func EdgeVerts(k Kind, e int) [2]int {
	switch k {
	case Triangle:
		return TriEdgeVerts[e]
	case Quad:
		return QuadEdgeVerts[e]
	case Tet:
		return TetEdgeVerts[e]
	case Prism:
		return PrismEdgeVerts[e]
	case Pyramid:
		return PyramidEdgeVerts[e]
	}
	return [2]int{-1, -1}
}
