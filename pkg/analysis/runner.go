package analysis

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ritzau/netgraph/pkg/centrality"
	"github.com/ritzau/netgraph/pkg/config"
	"github.com/ritzau/netgraph/pkg/edgelist"
	"github.com/ritzau/netgraph/pkg/graph"
	"github.com/ritzau/netgraph/pkg/layout"
	"github.com/ritzau/netgraph/pkg/logging"
	"github.com/ritzau/netgraph/pkg/model"
	"github.com/ritzau/netgraph/pkg/output"
	"github.com/ritzau/netgraph/pkg/render"
)

// Result holds everything one analysis run produced.
type Result struct {
	Network   *graph.Network           // The filtered network
	Records   []model.CentralityRecord // One per node, sorted by name
	Positions map[string]layout.Point
	Stats     model.RunStats
}

// StatusFunc receives staged progress updates. Serve mode forwards them to
// web clients; CLI mode leaves it unset.
type StatusFunc func(state, message string, step, total int)

// TotalSteps is the number of pipeline stages reported to StatusFunc
const TotalSteps = 5

// Runner executes the analysis pipeline: parse, filter, measure, lay out,
// render. A mutex serializes runs so watch-triggered re-runs cannot overlap.
type Runner struct {
	cfg    *config.Config
	status StatusFunc
	mu     sync.Mutex
}

// NewRunner creates a runner for the given configuration
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// OnStatus registers a callback for staged progress updates
func (r *Runner) OnStatus(fn StatusFunc) {
	r.status = fn
}

func (r *Runner) report(state, message string, step int) {
	if r.status != nil {
		r.status(state, message, step, TotalSteps)
	}
}

// Run executes one analysis pass and returns its result. Artifacts are not
// written; use WriteArtifacts for that.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cols, err := edgelist.ParseColumns(r.cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("invalid column configuration: %w", err)
	}

	r.report("loading", "Parsing edge list...", 1)
	logging.Info("parsing edge list", "path", r.cfg.Input)
	records, err := edgelist.ParseFile(r.cfg.Input, cols)
	if err != nil {
		return nil, fmt.Errorf("parsing edge list %s: %w", r.cfg.Input, err)
	}
	logging.Debug("parsed edge rows", "count", len(records))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.report("filtering", "Building and filtering network...", 2)
	full := graph.Build(records)
	filtered := full.Filter(r.cfg.Threshold)
	logging.Info("filtered network",
		"threshold", r.cfg.Threshold,
		"nodes", filtered.NodeCount(),
		"edges", filtered.EdgeCount(),
		"totalNodes", full.NodeCount(),
		"totalEdges", full.EdgeCount(),
	)
	if filtered.EdgeCount() == 0 {
		logging.Warn("no edges at or above threshold", "threshold", r.cfg.Threshold)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.report("computing", "Computing centrality measures...", 3)
	measures, err := centrality.Compute(filtered)
	if err != nil {
		return nil, fmt.Errorf("computing centrality: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.report("layout", "Laying out network...", 4)
	positions := layout.Spring(filtered, layout.DefaultOptions(r.cfg.Seed))

	return &Result{
		Network:   filtered,
		Records:   measures,
		Positions: positions,
		Stats: model.RunStats{
			RowsParsed:    len(records),
			TotalNodes:    full.NodeCount(),
			TotalEdges:    full.EdgeCount(),
			FilteredNodes: filtered.NodeCount(),
			FilteredEdges: filtered.EdgeCount(),
			Threshold:     r.cfg.Threshold,
		},
	}, nil
}

// WriteArtifacts renders the network image and writes both output files.
func (r *Runner) WriteArtifacts(res *Result) error {
	r.report("rendering", "Writing artifacts...", 5)

	tablePath := r.cfg.TablePath()
	if err := output.SaveCentralityTable(tablePath, res.Records); err != nil {
		return fmt.Errorf("writing centrality table: %w", err)
	}
	logging.Info("wrote centrality table", "path", tablePath, "rows", len(res.Records))

	imagePath := r.cfg.ImagePath()
	err := output.WriteFileAtomic(imagePath, func(w io.Writer) error {
		return render.PNG(w, res.Network, res.Positions, render.DefaultOptions(r.cfg.Labels))
	})
	if err != nil {
		return fmt.Errorf("rendering network image: %w", err)
	}
	logging.Info("wrote network image", "path", imagePath, "labels", r.cfg.Labels)

	return nil
}
