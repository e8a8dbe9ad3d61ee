package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/Simplici0/tourpricing/internal/pricing"
	"github.com/Simplici0/tourpricing/internal/report"
	"github.com/Simplici0/tourpricing/internal/snapshot"
)

const maxBodyBytes = 1 << 20

type calcResponse struct {
	Inputs  snapshot.Snapshot `json:"inputs"`
	Result  report.Summary    `json:"result"`
	Margins report.Margins    `json:"margins"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *server) handleInputsGet(w http.ResponseWriter, r *http.Request) {
	current, err := s.store.Current(r.Context(), s.storageKey, s.defaults)
	if err != nil {
		http.Error(w, "failed to load inputs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, calculate(current))
}

func (s *server) handleInputsSave(w http.ResponseWriter, r *http.Request) {
	overlay, _, err := readSnapshot(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	current, err := s.store.Current(r.Context(), s.storageKey, s.defaults)
	if err != nil {
		http.Error(w, "failed to load inputs", http.StatusInternalServerError)
		return
	}

	merged := snapshot.Merge(current, overlay)
	if err := s.store.SaveSnapshot(r.Context(), s.storageKey, merged); err != nil {
		log.Printf("save snapshot: %v", err)
		http.Error(w, "failed to save inputs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, calculate(merged))
}

func (s *server) handleInputsReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSnapshot(r.Context(), s.storageKey); err != nil {
		log.Printf("reset snapshot: %v", err)
		http.Error(w, "failed to reset inputs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, calculate(s.defaults.Clone()))
}

func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	overlay, _, err := readSnapshot(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, calculate(snapshot.Merge(s.defaults, overlay)))
}

func (s *server) handleResult(w http.ResponseWriter, r *http.Request) {
	current, err := s.store.Current(r.Context(), s.storageKey, s.defaults)
	if err != nil {
		http.Error(w, "failed to load inputs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report.Summarize(pricing.Calculate(current.Inputs())))
}

func (s *server) handleMargins(w http.ResponseWriter, r *http.Request) {
	current, err := s.store.Current(r.Context(), s.storageKey, s.defaults)
	if err != nil {
		http.Error(w, "failed to load inputs", http.StatusInternalServerError)
		return
	}

	from, to := current.Range()
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = strconv.Atoi(v); err != nil {
			http.Error(w, "from must be an integer", http.StatusBadRequest)
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = strconv.Atoi(v); err != nil {
			http.Error(w, "to must be an integer", http.StatusBadRequest)
			return
		}
	}

	writeJSON(w, http.StatusOK, report.BuildMargins(pricing.Calculate(current.Inputs()), from, to))
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	current, err := s.store.Current(r.Context(), s.storageKey, s.defaults)
	if err != nil {
		http.Error(w, "failed to load inputs", http.StatusInternalServerError)
		return
	}

	resp := calculate(current)
	writeText(w, r.URL.Query().Get("title"), resp.Result, resp.Margins.Rows)
}

// calculate runs the pricing model over a complete snapshot.
func calculate(snap snapshot.Snapshot) calcResponse {
	result := pricing.Calculate(snap.Inputs())
	from, to := snap.Range()
	return calcResponse{
		Inputs:  snap,
		Result:  report.Summarize(result),
		Margins: report.BuildMargins(result, from, to),
	}
}

// readSnapshot reads posted fields from a JSON object or a form body. The raw
// body is returned for JSON requests so callers can decode extra keys.
func readSnapshot(r *http.Request) (snapshot.Snapshot, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, nil, fmt.Errorf("read body: %w", err)
		}
		if len(body) == 0 {
			return snapshot.Snapshot{}, body, nil
		}
		snap, err := snapshot.FromJSON(body)
		if err != nil {
			return nil, nil, errors.New("invalid json body")
		}
		return snap, body, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, nil, errors.New("invalid form")
	}
	return snapshot.FromForm(r.PostForm), nil, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeText(w http.ResponseWriter, title string, summary report.Summary, rows []report.MarginRow) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := report.WriteText(w, title, summary, rows); err != nil {
		log.Printf("write text report: %v", err)
	}
}
