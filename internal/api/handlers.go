package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meokisama/toolkit-engine-sub005/internal/services/controller"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/dali"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/export"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/progress"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/send"
	"github.com/meokisama/toolkit-engine-sub005/internal/services/transfer"
)

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req struct {
		unitRef
		UnitID *string `json:"unitId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.IP == "" {
		respondError(w, http.StatusBadRequest, fmt.Errorf("unit ip is required"))
		return
	}

	s.feed.Publish(progress.TopicTransfer, projectID, progress.Event{Operation: "transfer", Completed: 0, Total: 1})
	summary, err := s.transfers.TransferAdvancedConfigurations(r.Context(), req.toUnit(), projectID, req.UnitID)
	s.feed.Publish(progress.TopicTransfer, projectID, progress.Event{Operation: "transfer", Completed: 1, Total: 1})
	if err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req struct {
		Units       []unitRef         `json:"units"`
		ConfigTypes []send.ConfigType `json:"configTypes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Units) == 0 || len(req.ConfigTypes) == 0 {
		respondError(w, http.StatusBadRequest, fmt.Errorf("units and configTypes are required"))
		return
	}

	units := make([]controller.Unit, 0, len(req.Units))
	for _, u := range req.Units {
		if u.IP == "" {
			respondError(w, http.StatusBadRequest, fmt.Errorf("unit ip is required"))
			return
		}
		units = append(units, u.toUnit())
	}

	results := s.sender.SendConfigurations(r.Context(), projectID, units, req.ConfigTypes, func(completed, total int) {
		s.feed.Publish(progress.TopicSend, projectID, progress.Event{Operation: "send", Completed: completed, Total: total})
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleKnxTrigger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		unitRef
		Address int `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := transfer.ValidateKnxAddress(req.Address); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.client.TriggerKnx(r.Context(), req.toUnit(), req.Address); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDaliReconcile(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req unitRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	mapping, err := s.dali.ReconcileAddressMapping(r.Context(), req.toUnit(), projectID)
	if err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	s.feed.Publish(progress.TopicDali, projectID, progress.Event{Operation: "dali_reconcile", Completed: 1, Total: 1})
	respondJSON(w, http.StatusOK, map[string]interface{}{"mapping": mapping})
}

func (s *Server) handleDaliRCUMapping(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req unitRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := s.dali.SendRCUMapping(r.Context(), req.toUnit(), projectID); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDaliGroupScene(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req unitRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := s.dali.PushGroupSceneConfig(r.Context(), req.toUnit(), projectID); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDaliDeleteAddresses(w http.ResponseWriter, r *http.Request) {
	var req struct {
		unitRef
		Mode      string `json:"mode"`
		Addresses string `json:"addresses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	// Validate the address list up front so nothing is sent on bad input.
	if req.Mode != "all" {
		if _, err := dali.ParseAddressList(req.Addresses); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
	}

	if err := s.dali.DeleteAddresses(r.Context(), req.toUnit(), req.Mode, req.Addresses); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	exported, _, err := s.exporter.ExportProject(r.Context(), projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if exported == nil {
		respondError(w, http.StatusNotFound, fmt.Errorf("project %s not found", projectID))
		return
	}
	respondJSON(w, http.StatusOK, exported)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}

	exported, err := export.ParseExportedProject(string(body))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	projectID, stats, err := s.importer.ImportProject(r.Context(), exported)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"projectId": projectID,
		"stats":     stats,
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	category := r.URL.Query().Get("category")

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", category))

	var err error
	switch category {
	case "unit":
		err = s.exporter.WriteUnitsCSV(r.Context(), w, projectID)
	case "curtain":
		err = s.exporter.WriteCurtainsCSV(r.Context(), w, projectID)
	case "scene":
		err = s.exporter.WriteScenesCSV(r.Context(), w, projectID)
	case "lighting", "aircon", "aircon_cards", "dmx":
		err = s.exporter.WriteItemsCSV(r.Context(), w, projectID, category)
	default:
		w.Header().Del("Content-Disposition")
		respondError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", category))
		return
	}
	if err != nil {
		// Headers are already committed once rows started flowing; the best
		// we can do is log the failure.
		log.Printf("Warning: csv export of %s failed: %v", category, err)
	}
}
