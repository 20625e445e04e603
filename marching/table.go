package marching

// localEdges lists the triangle edges by local vertex pair: e0=(0,1),
// e1=(1,2), e2=(2,0).
var localEdges = [3][2]int{{0, 1}, {1, 2}, {2, 0}}

// crossedEdges maps the classification mask (bit k set when vertex k is at
// or above the threshold) to the entry and exit edge of the contour segment.
// For a counter-clockwise triangle the vertices at or above the threshold lie
// to the right of the directed segment. Masks 0 and 7 have no crossing.
var crossedEdges = [8][2]int8{
	0: {-1, -1},
	1: {2, 0},
	2: {0, 1},
	3: {2, 1},
	4: {1, 2},
	5: {1, 0},
	6: {0, 2},
	7: {-1, -1},
}
