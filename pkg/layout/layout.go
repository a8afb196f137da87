package layout

import (
	"golang.org/x/exp/rand"

	glayout "gonum.org/v1/gonum/graph/layout"

	"github.com/ritzau/netgraph/pkg/graph"
)

// Point is a node position in the layout plane.
type Point struct {
	X float64
	Y float64
}

// Options tune the force-directed layout. The random source is seeded
// explicitly so a given network always lays out the same way.
type Options struct {
	Seed      uint64
	Updates   int     // Iterations of the force simulation
	Repulsion float64 // Node-node repulsion strength
	Rate      float64 // Step size per update
	Theta     float64 // Barnes-Hut approximation parameter
}

// DefaultOptions returns layout parameters that settle small and mid-sized
// co-occurrence networks.
func DefaultOptions(seed uint64) Options {
	return Options{
		Seed:      seed,
		Updates:   100,
		Repulsion: 1,
		Rate:      0.05,
		Theta:     0.1,
	}
}

// Spring computes a force-directed layout of the network and returns the
// position of every node by name. An empty network yields an empty map.
func Spring(n *graph.Network, opts Options) map[string]Point {
	positions := make(map[string]Point, n.NodeCount())
	if n.NodeCount() == 0 {
		return positions
	}

	eades := glayout.EadesR2{
		Updates:   opts.Updates,
		Repulsion: opts.Repulsion,
		Rate:      opts.Rate,
		Theta:     opts.Theta,
		Src:       rand.NewSource(opts.Seed),
	}
	optimizer := glayout.NewOptimizerR2(n.Graph(), eades.Update)
	for optimizer.Update() {
	}

	for _, name := range n.Names() {
		id, _ := n.ID(name)
		coord := optimizer.Coord2(id)
		positions[name] = Point{X: coord.X, Y: coord.Y}
	}
	return positions
}
