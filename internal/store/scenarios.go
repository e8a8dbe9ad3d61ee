package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/tourpricing/internal/report"
	"github.com/Simplici0/tourpricing/internal/snapshot"
)

// ErrScenarioNotFound is returned when no scenario has the requested id.
var ErrScenarioNotFound = errors.New("scenario not found")

// Scenario is a saved copy of the inputs and the result computed from them.
type Scenario struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"createdAt"`
	Title     string            `json:"title"`
	Notes     string            `json:"notes"`
	Inputs    snapshot.Snapshot `json:"inputs"`
	Result    report.Summary    `json:"result"`
}

// ScenarioListItem is the list view of a saved scenario.
type ScenarioListItem struct {
	ID                   string   `json:"id"`
	CreatedAt            string   `json:"createdAt"`
	Title                string   `json:"title"`
	SuggestedNormalPrice *float64 `json:"suggestedNormalPrice"`
	Risk                 string   `json:"risk"`
}

// SaveScenario stores a scenario and returns its new id.
func (s *Store) SaveScenario(ctx context.Context, title, notes string, inputs snapshot.Snapshot, result report.Summary) (string, error) {
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("encode scenario inputs: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode scenario result: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, title, notes, inputs_json, result_json)
		VALUES (?, ?, ?, ?, ?)
	`, id, strings.TrimSpace(title), strings.TrimSpace(notes), string(inputsJSON), string(resultJSON))
	if err != nil {
		return "", fmt.Errorf("insert scenario: %w", err)
	}

	return id, nil
}

// ListScenarios returns saved scenarios newest first. A non-empty query
// filters on title and notes.
func (s *Store) ListScenarios(ctx context.Context, query string) ([]ScenarioListItem, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, COALESCE(title, ''), result_json
		FROM scenarios
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, rowid DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	items := make([]ScenarioListItem, 0)
	for rows.Next() {
		var item ScenarioListItem
		var resultJSON string
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.Title, &resultJSON); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}

		// A result that no longer decodes still lists, just without figures.
		var summary report.Summary
		if err := json.Unmarshal([]byte(resultJSON), &summary); err == nil {
			item.SuggestedNormalPrice = summary.SuggestedNormalPrice
			item.Risk = summary.Risk
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}

	return items, nil
}

// GetScenario returns a saved scenario as stored, without recalculating it.
func (s *Store) GetScenario(ctx context.Context, id string) (Scenario, error) {
	var sc Scenario
	var inputsJSON, resultJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, COALESCE(title, ''), COALESCE(notes, ''), inputs_json, result_json
		FROM scenarios
		WHERE id = ?
	`, id).Scan(&sc.ID, &sc.CreatedAt, &sc.Title, &sc.Notes, &inputsJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, ErrScenarioNotFound
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("query scenario: %w", err)
	}

	if sc.Inputs, err = snapshot.FromJSON([]byte(inputsJSON)); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &sc.Result); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario result: %w", err)
	}

	return sc, nil
}
