package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/ritzau/netgraph/pkg/analysis"
	"github.com/ritzau/netgraph/pkg/config"
	"github.com/ritzau/netgraph/pkg/logging"
	"github.com/ritzau/netgraph/pkg/model"
	"github.com/ritzau/netgraph/pkg/pubsub"
)

//go:embed static/*
var staticFiles embed.FS

// Server serves analysis results and live run status over HTTP
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher
	cfg       *config.Config
	log       *slog.Logger

	mu     sync.RWMutex
	result *analysis.Result
}

// NewServer creates a new web server for the given configuration
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		publisher: pubsub.NewSSEPublisher(),
		cfg:       cfg,
		log:       logging.New("web"),
	}
	s.setupRoutes()
	return s
}

// SetResult stores the results of a completed analysis run
func (s *Server) SetResult(res *analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
}

// PublishRunStatus publishes a pipeline status event. The signature
// matches analysis.StatusFunc so it can be registered directly as a
// runner callback.
func (s *Server) PublishRunStatus(state, message string, step, total int) {
	status := pubsub.RunStatus{
		State:   state,
		Message: message,
		Step:    step,
		Total:   total,
	}
	if err := s.publisher.Publish("run_status", state, status); err != nil {
		s.log.Warn("failed to publish run status", "error", err)
	}
}

// PublishNetworkSummary publishes a summary of the current network so
// connected clients know when to refetch results
func (s *Server) PublishNetworkSummary(eventType string, complete bool) error {
	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()

	summary := pubsub.NetworkSummary{
		Threshold: s.cfg.Threshold,
		Complete:  complete,
	}
	if res != nil {
		summary.Nodes = res.Stats.FilteredNodes
		summary.Edges = res.Stats.FilteredEdges
	}
	return s.publisher.Publish("network", eventType, summary)
}

func (s *Server) setupRoutes() {
	s.router.Use(logging.RequestIDMiddleware)

	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/run_status", s.handleSubscribe("run_status")).Methods("GET")
	s.router.HandleFunc("/api/subscribe/network", s.handleSubscribe("network")).Methods("GET")

	// API routes
	s.router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/api/network", s.handleNetwork).Methods("GET")
	s.router.HandleFunc("/api/table", s.handleTable).Methods("GET")

	// Generated artifacts
	s.router.HandleFunc("/files/centrality_measures.csv", s.handleTableFile).Methods("GET")
	s.router.HandleFunc("/files/network.png", s.handleImageFile).Methods("GET")

	// Serve static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logging.Fatal("failed to load embedded static files", "error", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
}

// handleSubscribe returns an SSE handler streaming events for a topic
func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set SSE headers
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

		// Send initial comment to establish connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		// Stream events until the client disconnects
		for {
			select {
			case <-r.Context().Done():
				return

			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := pubsub.WriteSSE(w, event); err != nil {
					s.log.Warn("error writing SSE event", "topic", topic, "error", err)
					return
				}
				if flusher, ok := w.(http.Flusher); ok {
					flusher.Flush()
				}
			}
		}
	}
}

type statusResponse struct {
	Ready     bool            `json:"ready"`
	Input     string          `json:"input"`
	Threshold float64         `json:"threshold"`
	Stats     *model.RunStats `json:"stats,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()

	response := statusResponse{
		Ready:     res != nil,
		Input:     s.cfg.Input,
		Threshold: s.cfg.Threshold,
	}
	if res != nil {
		stats := res.Stats
		response.Stats = &stats
	}

	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()

	if res == nil {
		http.Error(w, "Network data not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BuildNetworkView(res))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()

	if res == nil {
		json.NewEncoder(w).Encode([]model.CentralityRecord{})
		return
	}

	json.NewEncoder(w).Encode(res.Records)
}

func (s *Server) handleTableFile(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.TablePath())
}

func (s *Server) handleImageFile(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.ImagePath())
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}
