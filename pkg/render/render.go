package render

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/ritzau/netgraph/pkg/graph"
	"github.com/ritzau/netgraph/pkg/layout"
)

// Options control the raster rendering of a network.
type Options struct {
	Width  int
	Height int
	Margin float64 // Blank border kept around the drawing, in pixels
	Labels bool    // Draw node names next to the nodes
}

// DefaultOptions returns the standard canvas used for the network PNG.
func DefaultOptions(labels bool) Options {
	return Options{Width: 1600, Height: 1200, Margin: 60, Labels: labels}
}

const (
	minNodeRadius = 5.0
	maxNodeRadius = 14.0
	minEdgeWidth  = 1.0
	maxEdgeWidth  = 4.0
)

// Image draws the network onto a white canvas: edges first with width scaled
// by weight, then nodes sized by degree, then optional labels. An empty
// network yields a blank canvas; that is valid output for an aggressive
// weight threshold, not an error.
func Image(n *graph.Network, positions map[string]layout.Point, opts Options) image.Image {
	return draw(n, positions, opts).Image()
}

// PNG draws the network and encodes it as a PNG to w.
func PNG(w io.Writer, n *graph.Network, positions map[string]layout.Point, opts Options) error {
	return draw(n, positions, opts).EncodePNG(w)
}

func draw(n *graph.Network, positions map[string]layout.Point, opts Options) *gg.Context {
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	names := n.Names()
	if len(names) == 0 {
		return dc
	}

	canvas := fit(positions, opts)

	maxWeight := 0.0
	edges := n.Edges()
	for _, e := range edges {
		if e.Weight > maxWeight {
			maxWeight = e.Weight
		}
	}
	maxDegree := 0
	for _, name := range names {
		if d := n.DegreeOf(name); d > maxDegree {
			maxDegree = d
		}
	}

	// Edges in sorted order so repeated runs paint identically
	for _, e := range edges {
		a, okA := canvas[e.NodeA]
		b, okB := canvas[e.NodeB]
		if !okA || !okB {
			continue
		}
		dc.SetRGBA(0.45, 0.45, 0.5, 0.6)
		dc.SetLineWidth(edgeWidth(e.Weight, maxWeight))
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}

	// Nodes on top of edges
	for _, name := range names {
		p, exists := canvas[name]
		if !exists {
			continue
		}
		dc.SetRGB(0.27, 0.51, 0.71)
		dc.DrawCircle(p.X, p.Y, nodeRadius(n.DegreeOf(name), maxDegree))
		dc.Fill()
	}

	if opts.Labels {
		dc.SetRGB(0.1, 0.1, 0.1)
		for _, name := range names {
			p, exists := canvas[name]
			if !exists {
				continue
			}
			r := nodeRadius(n.DegreeOf(name), maxDegree)
			dc.DrawStringAnchored(name, p.X, p.Y-r-6, 0.5, 0)
		}
	}

	return dc
}

func nodeRadius(degree, maxDegree int) float64 {
	if maxDegree <= 0 {
		return minNodeRadius
	}
	frac := float64(degree) / float64(maxDegree)
	return minNodeRadius + (maxNodeRadius-minNodeRadius)*frac
}

func edgeWidth(weight, maxWeight float64) float64 {
	if maxWeight <= 0 {
		return minEdgeWidth
	}
	frac := weight / maxWeight
	return minEdgeWidth + (maxEdgeWidth-minEdgeWidth)*frac
}

// fit scales layout coordinates into the drawable area, preserving the aspect
// ratio and centering the drawing. Degenerate spans (a single node, or all
// nodes collinear on one axis) fall back to centered placement.
func fit(positions map[string]layout.Point, opts Options) map[string]layout.Point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range positions {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	drawW := float64(opts.Width) - 2*opts.Margin
	drawH := float64(opts.Height) - 2*opts.Margin

	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(drawW/spanX, drawH/spanY)
	case spanX > 0:
		scale = drawW / spanX
	case spanY > 0:
		scale = drawH / spanY
	}

	centerX := (minX + maxX) / 2
	centerY := (minY + maxY) / 2
	out := make(map[string]layout.Point, len(positions))
	for name, p := range positions {
		out[name] = layout.Point{
			X: float64(opts.Width)/2 + (p.X-centerX)*scale,
			Y: float64(opts.Height)/2 + (p.Y-centerY)*scale,
		}
	}
	return out
}
