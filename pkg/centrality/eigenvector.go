package centrality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ritzau/netgraph/pkg/graph"
)

// Power configures the eigenvector power iteration.
type Power struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultPower matches the iteration budget and tolerance of the original
// analysis tool.
func DefaultPower() Power {
	return Power{MaxIterations: 100, Tolerance: 1e-6}
}

// ConvergenceError reports that power iteration did not reach the requested
// tolerance within its iteration budget.
type ConvergenceError struct {
	Iterations int
	Tolerance  float64
	Delta      float64 // total movement of the last step
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("eigenvector centrality did not converge within %d iterations (tolerance %g, last delta %g)",
		e.Iterations, e.Tolerance, e.Delta)
}

// Eigenvector computes eigenvector centrality as the dominant eigenvector of
// the weighted adjacency matrix, scaled to unit Euclidean norm. The adjacency
// is normalized by its largest weight before iterating (A+I)x, which keeps
// the identity shift significant at any weight scale so bipartite-like
// structures cannot oscillate. Normalizing leaves the eigenvectors unchanged.
// On a disconnected network the component with the largest eigenvalue
// dominates and scores elsewhere decay toward zero; that is the standard
// convention, not a defect.
func Eigenvector(n *graph.Network, p Power) (map[string]float64, error) {
	names := n.Names()
	count := len(names)
	scores := make(map[string]float64, count)
	if count == 0 {
		return scores, nil
	}

	index := make(map[string]int, count)
	for i, name := range names {
		index[name] = i
	}

	edges := n.Edges()
	maxWeight := 0.0
	for _, e := range edges {
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
	}
	if maxWeight == 0 {
		maxWeight = 1
	}

	adj := mat.NewSymDense(count, nil)
	for _, e := range edges {
		adj.SetSym(index[e.NodeA], index[e.NodeB], e.Weight/maxWeight)
	}

	x := mat.NewVecDense(count, nil)
	for i := 0; i < count; i++ {
		x.SetVec(i, 1/float64(count))
	}
	y := mat.NewVecDense(count, nil)

	var delta float64
	for it := 0; it < p.MaxIterations; it++ {
		y.MulVec(adj, x)
		y.AddVec(y, x)

		norm := mat.Norm(y, 2)
		if norm == 0 {
			norm = 1
		}
		y.ScaleVec(1/norm, y)

		delta = 0
		for i := 0; i < count; i++ {
			delta += math.Abs(y.AtVec(i) - x.AtVec(i))
		}
		x.CopyVec(y)

		if delta < float64(count)*p.Tolerance {
			for i, name := range names {
				scores[name] = x.AtVec(i)
			}
			return scores, nil
		}
	}

	return nil, &ConvergenceError{Iterations: p.MaxIterations, Tolerance: p.Tolerance, Delta: delta}
}
