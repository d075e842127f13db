// Package api exposes the engine's operations over a chi REST surface plus
// a websocket progress feed.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/dali"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/export"
	importservice "github.com/meokisama/toolkit-engine-sub005/internal/services/import"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/progress"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/send"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/transfer"
)

// Server holds the service dependencies of the HTTP surface.
type Server struct {
	client    controller.Client
	transfers *transfer.Service
	sender    *send.Service
	dali      *dali.Service
	exporter  *export.Service
	importer  *importservice.Service
	feed      *progress.PubSub
}

// NewServer creates a new API server.
func NewServer(
	client controller.Client,
	transfers *transfer.Service,
	sender *send.Service,
	daliService *dali.Service,
	exporter *export.Service,
	importer *importservice.Service,
	feed *progress.PubSub,
) *Server {
	return &Server{
		client:    client,
		transfers: transfers,
		sender:    sender,
		dali:      daliService,
		exporter:  exporter,
		importer:  importer,
		feed:      feed,
	}
}

// Routes mounts the API endpoints on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/projects/{projectID}", func(r chi.Router) {
		r.Post("/transfer", s.handleTransfer)
		r.Post("/send", s.handleSend)
		r.Post("/knx/trigger", s.handleKnxTrigger)
		r.Post("/dali/reconcile", s.handleDaliReconcile)
		r.Post("/dali/rcu-mapping", s.handleDaliRCUMapping)
		r.Post("/dali/group-scene", s.handleDaliGroupScene)
		r.Post("/dali/delete-addresses", s.handleDaliDeleteAddresses)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Get("/export/csv", s.handleExportCSV)
	})
	r.Get("/ws/progress", s.handleProgressWS)

	return r
}

// unitRef identifies a target unit in request bodies.
type unitRef struct {
	IP    string `json:"ip"`
	CanID int    `json:"canId"`
}

func (u unitRef) toUnit() controller.Unit {
	return controller.Unit{IP: u.IP, CanID: u.CanID}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
