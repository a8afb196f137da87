package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/pflag"

	"github.com/ritzau/netgraph/pkg/analysis"
	"github.com/ritzau/netgraph/pkg/config"
	"github.com/ritzau/netgraph/pkg/logging"
	"github.com/ritzau/netgraph/pkg/output"
	"github.com/ritzau/netgraph/pkg/watcher"
	"github.com/ritzau/netgraph/pkg/web"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := logging.LevelFor(cfg.Verbose)
	if cfg.LogJSON {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}

	if cfg.Serve {
		runServer(cfg)
	} else {
		runOnce(cfg)
	}
}

func loadConfig() (*config.Config, error) {
	flags := pflag.NewFlagSet("netgraph", pflag.ExitOnError)
	flags.StringP("input", "f", config.DefaultInput, "path to the weighted edge list CSV")
	flags.Float64P("threshold", "w", config.DefaultThreshold, "minimum edge weight kept in the network")
	flags.BoolP("labels", "l", false, "draw node labels on the network image")
	flags.String("columns", config.DefaultColumns, "node and weight column names, comma-separated")
	flags.String("outdir", config.DefaultOutDir, "directory for the centrality table")
	flags.String("vizdir", config.DefaultVizDir, "directory for the network image")
	flags.Uint64("seed", config.DefaultSeed, "random seed for the layout")
	flags.Bool("serve", false, "serve results over HTTP instead of printing a report")
	flags.Int("port", config.DefaultPort, "port for the web server")
	flags.Bool("watch", false, "re-run when the input file changes (requires --serve)")
	flags.Bool("open", true, "open the browser after the server starts")
	flags.CountP("verbose", "v", "increase log verbosity, repeat for more")
	flags.Bool("logjson", false, "log as JSON instead of compact text")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	return config.Load(flags)
}

// runOnce performs a single analysis and prints the console report
func runOnce(cfg *config.Config) {
	runner := analysis.NewRunner(cfg)

	res, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := runner.WriteArtifacts(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output.PrintRunReport(cfg.Input, res.Stats, res.Records, cfg.TablePath(), cfg.ImagePath())
}

// runServer starts the web UI, runs the analysis in the background, and
// optionally re-runs it whenever the input file changes
func runServer(cfg *config.Config) {
	server := web.NewServer(cfg)
	runner := analysis.NewRunner(cfg)
	runner.OnStatus(server.PublishRunStatus)

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)

	// Start server in background
	go func() {
		if err := server.Start(cfg.Port); err != nil {
			logging.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait a moment for server to start
	time.Sleep(500 * time.Millisecond)

	if cfg.OpenBrowser {
		openBrowser(url)
	}

	// Run the initial analysis in the background so the UI can show progress
	go refresh(cfg, runner, server)

	if cfg.Watch {
		go watchInput(cfg, runner, server)
	}

	// Block forever (server runs in goroutine)
	select {}
}

// refresh runs the full pipeline and publishes the outcome to the server
func refresh(cfg *config.Config, runner *analysis.Runner, server *web.Server) {
	res, err := runner.Run(context.Background())
	if err != nil {
		logging.Error("analysis failed", "error", err)
		server.PublishRunStatus("error", err.Error(), 0, 0)
		return
	}
	if err := runner.WriteArtifacts(res); err != nil {
		logging.Error("failed to write artifacts", "error", err)
		server.PublishRunStatus("error", err.Error(), 0, 0)
		return
	}

	server.SetResult(res)
	server.PublishRunStatus("ready", "Analysis complete", analysis.TotalSteps, analysis.TotalSteps)
	if err := server.PublishNetworkSummary("ready", true); err != nil {
		logging.Warn("failed to publish network summary", "error", err)
	}

	logging.Info("results ready",
		"nodes", res.Stats.FilteredNodes, "edges", res.Stats.FilteredEdges)
}

// watchInput re-runs the analysis whenever the input file changes
func watchInput(cfg *config.Config, runner *analysis.Runner, server *web.Server) {
	iw, err := watcher.NewInputWatcher(cfg.Input)
	if err != nil {
		logging.Error("failed to create watcher", "error", err)
		return
	}

	ctx := context.Background()
	if err := iw.Start(ctx); err != nil {
		logging.Error("failed to start watcher", "error", err)
		return
	}

	debouncer := watcher.NewDebouncer(iw.Events(), 500*time.Millisecond, 3*time.Second)
	debouncer.Start(ctx)

	for range debouncer.Output() {
		logging.Info("input changed, re-running analysis", "path", cfg.Input)
		refresh(cfg, runner, server)
	}
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on platform", "platform", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
