package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/tourpricing/internal/snapshot"
	"github.com/Simplici0/tourpricing/internal/store"
)

type scenarioRequest struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

type scenarioCreatedResponse struct {
	ID string `json:"id"`
	calcResponse
}

// handleScenarioCreate saves the current inputs, with any posted fields
// applied, as a named scenario. The stored form snapshot is left unchanged.
func (s *server) handleScenarioCreate(w http.ResponseWriter, r *http.Request) {
	overlay, body, err := readSnapshot(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req scenarioRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
	} else {
		req.Title = r.PostFormValue("title")
		req.Notes = r.PostFormValue("notes")
	}

	current, err := s.store.Current(r.Context(), s.storageKey, s.defaults)
	if err != nil {
		http.Error(w, "failed to load inputs", http.StatusInternalServerError)
		return
	}

	resp := calculate(snapshot.Merge(current, overlay))
	id, err := s.store.SaveScenario(r.Context(), req.Title, req.Notes, resp.Inputs, resp.Result)
	if err != nil {
		log.Printf("save scenario: %v", err)
		http.Error(w, "failed to save scenario", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, scenarioCreatedResponse{ID: id, calcResponse: resp})
}

func (s *server) handleScenariosList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListScenarios(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("list scenarios: %v", err)
		http.Error(w, "failed to load scenarios", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleScenarioDetail(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, sc)
}

func (s *server) handleScenarioText(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}

	title := sc.Title
	if sc.Notes != "" {
		title = strings.TrimSpace(title + "\n" + sc.Notes)
	}
	writeText(w, title, sc.Result, nil)
}

func (s *server) loadScenario(w http.ResponseWriter, r *http.Request) (store.Scenario, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "invalid scenario id", http.StatusBadRequest)
		return store.Scenario{}, false
	}

	sc, err := s.store.GetScenario(r.Context(), id)
	if errors.Is(err, store.ErrScenarioNotFound) {
		http.NotFound(w, r)
		return store.Scenario{}, false
	}
	if err != nil {
		log.Printf("get scenario %s: %v", id, err)
		http.Error(w, "failed to load scenario", http.StatusInternalServerError)
		return store.Scenario{}, false
	}

	return sc, true
}
