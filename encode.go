package spinglass

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"

	"github.com/fumin/spinglass/pauli"
)

// Problem is a combinatorial optimization problem that can be encoded as an Ising Hamiltonian.
type Problem string

const (
	Clique          Problem = "clique"
	Coloring        Problem = "coloring"
	Covering        Problem = "covering"
	FeedbackEdgeSet Problem = "fes"
	HamiltonianPath Problem = "hamiltonian"
	Partition       Problem = "partition"
)

const (
	// numColors is the number of colors of the coloring problem.
	numColors = 4
)

var (
	graphEncoders = map[Problem]func(adjacency) []pauli.Term{
		Clique:          encodeClique,
		Coloring:        encodeColoring,
		Covering:        encodeCovering,
		FeedbackEdgeSet: encodeFeedbackEdgeSet,
		HamiltonianPath: encodeHamiltonianPath,
		Partition:       encodeGraphPartition,
	}
	setEncoders = map[Problem]func([]float64) []pauli.Term{
		Partition: encodeSetPartition,
	}
)

// GraphProblems returns the problems supported for graph input.
func GraphProblems() []Problem {
	return sortedKeys(graphEncoders)
}

// SetProblems returns the problems supported for set input.
func SetProblems() []Problem {
	return sortedKeys(setEncoders)
}

func sortedKeys[V any](m map[Problem]V) []Problem {
	ps := make([]Problem, 0, len(m))
	for p := range m {
		ps = append(ps, p)
	}
	slices.Sort(ps)
	return ps
}

// EncodeGraph encodes problem p on graph g, where qubit i represents node i.
// g must be undirected, with nodes numbered 0 to n-1 and no self loops.
func EncodeGraph(g graph.Graph, p Problem) (*pauli.Op, error) {
	adj, err := newAdjacency(g)
	if err != nil {
		return nil, err
	}
	encode, ok := graphEncoders[p]
	if !ok {
		return nil, NewError(InvalidProblem, "%q for graph, supported %v", p, GraphProblems())
	}
	op, err := pauli.New(adj.n, encode(adj))
	if err != nil {
		return nil, NewError(InvalidGraph, "%+v", err)
	}
	return op, nil
}

// EncodeSet encodes problem p on the sequence s, where qubit i represents s[i].
// s must be non-empty and free of duplicates.
func EncodeSet(s []float64, p Problem) (*pauli.Op, error) {
	if len(s) == 0 {
		return nil, NewError(InvalidSet, "empty")
	}
	seen := make(map[float64]int, len(s))
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, NewError(InvalidSet, "s[%d] is %v", i, v)
		}
		if j, ok := seen[v]; ok {
			return nil, NewError(InvalidSet, "s[%d] and s[%d] are both %v", j, i, v)
		}
		seen[v] = i
	}
	encode, ok := setEncoders[p]
	if !ok {
		return nil, NewError(InvalidProblem, "%q for set, supported %v", p, SetProblems())
	}
	op, err := pauli.New(len(s), encode(s))
	if err != nil {
		return nil, NewError(InvalidSet, "%+v", err)
	}
	return op, nil
}

type adjacency struct {
	n int
	g graph.Graph
}

func newAdjacency(g graph.Graph) (adjacency, error) {
	if g == nil {
		return adjacency{}, NewError(InvalidGraph, "nil graph")
	}
	if _, ok := g.(graph.Directed); ok {
		return adjacency{}, NewError(InvalidGraph, "directed graph")
	}
	nodes := graph.NodesOf(g.Nodes())
	n := len(nodes)
	if n == 0 {
		return adjacency{}, NewError(InvalidGraph, "no nodes")
	}
	seen := make([]bool, n)
	for _, u := range nodes {
		id := u.ID()
		if id < 0 || id >= int64(n) || seen[id] {
			return adjacency{}, NewError(InvalidGraph, "node %d not in [0, %d)", id, n)
		}
		seen[id] = true
	}
	for i := range int64(n) {
		if g.HasEdgeBetween(i, i) {
			return adjacency{}, NewError(InvalidGraph, "self loop at %d", i)
		}
	}
	return adjacency{n: n, g: g}, nil
}

func (a adjacency) adjacent(u, v int) bool {
	return a.g.HasEdgeBetween(int64(u), int64(v))
}

// edges returns the edges {u, v} with u < v in lexicographic order.
func (a adjacency) edges() [][2]int {
	es := make([][2]int, 0)
	for u := 0; u < a.n; u++ {
		for v := u + 1; v < a.n; v++ {
			if a.adjacent(u, v) {
				es = append(es, [2]int{u, v})
			}
		}
	}
	return es
}

func z(n int, c float64, sites ...int) pauli.Term {
	return pauli.Term{Label: pauli.ZLabel(n, sites...), Coeff: complex(c, 0)}
}

func encodeClique(a adjacency) []pauli.Term {
	terms := make([]pauli.Term, 0)
	for i := 0; i < a.n; i++ {
		terms = append(terms, z(a.n, -1, i))
	}
	for i := 0; i < a.n; i++ {
		for j := i + 1; j < a.n; j++ {
			if !a.adjacent(i, j) {
				terms = append(terms, z(a.n, 1, i, j))
			}
		}
	}
	return terms
}

func encodeColoring(a adjacency) []pauli.Term {
	terms := make([]pauli.Term, 0)
	for _, e := range a.edges() {
		for range numColors {
			terms = append(terms, z(a.n, 1, e[0], e[1]))
		}
	}
	for u := 0; u < a.n; u++ {
		terms = append(terms, z(a.n, -1, u))
	}
	return terms
}

func encodeCovering(a adjacency) []pauli.Term {
	terms := make([]pauli.Term, 0)
	for u := 0; u < a.n; u++ {
		terms = append(terms, z(a.n, 1, u))
	}
	for u := 0; u < a.n; u++ {
		terms = append(terms, z(a.n, -1, u))
	}
	return terms
}

// encodeFeedbackEdgeSet cancels the penalty it adds on each edge, so its operator is zero.
func encodeFeedbackEdgeSet(a adjacency) []pauli.Term {
	terms := make([]pauli.Term, 0)
	for _, e := range a.edges() {
		terms = append(terms, z(a.n, 1, e[0], e[1]))
		terms = append(terms, z(a.n, -1, e[0], e[1]))
	}
	return terms
}

func encodeHamiltonianPath(a adjacency) []pauli.Term {
	terms := make([]pauli.Term, 0)
	for u := 0; u < a.n; u++ {
		for v := 0; v < a.n; v++ {
			if u == v {
				continue
			}
			terms = append(terms, z(a.n, -1, u, v))
		}
	}
	for u := 0; u < a.n; u++ {
		terms = append(terms, z(a.n, 1, u))
	}
	for u := 0; u < a.n; u++ {
		for v := u + 1; v < a.n; v++ {
			if !a.adjacent(u, v) {
				terms = append(terms, z(a.n, 2, u, v))
			}
		}
	}
	return terms
}

func encodeGraphPartition(a adjacency) []pauli.Term {
	terms := make([]pauli.Term, 0)
	for u := 0; u < a.n; u++ {
		terms = append(terms, z(a.n, 1, u))
	}
	for _, e := range a.edges() {
		terms = append(terms, z(a.n, 2, e[0], e[1]))
	}
	return terms
}

func encodeSetPartition(s []float64) []pauli.Term {
	n := len(s)
	terms := make([]pauli.Term, 0, n*(n+1)/2)
	for i := range n {
		terms = append(terms, z(n, s[i]*s[i], i))
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			terms = append(terms, z(n, 2*s[i]*s[j], i, j))
		}
	}
	return terms
}
