package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/tourpricing/internal/db"
	"github.com/Simplici0/tourpricing/internal/migrations"
	"github.com/Simplici0/tourpricing/internal/pricing"
	"github.com/Simplici0/tourpricing/internal/report"
	"github.com/Simplici0/tourpricing/internal/snapshot"
	"github.com/Simplici0/tourpricing/internal/store"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return &server{
		store:      store.New(database),
		storageKey: store.DefaultStorageKey,
		defaults:   snapshot.Defaults(),
	}
}

func serve(t *testing.T, srv *server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	newRouter(srv, []string{"*"}).ServeHTTP(rr, req)
	return rr
}

func decodeCalc(t *testing.T, rr *httptest.ResponseRecorder) calcResponse {
	t.Helper()
	if rr.Code != http.StatusOK && rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	var resp calcResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestInputsGetReturnsDefaults(t *testing.T) {
	srv := newTestServer(t)

	resp := decodeCalc(t, serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/inputs", nil)))

	if resp.Inputs[snapshot.FieldPriceNormal] != "45,800" {
		t.Fatalf("unexpected inputs: %+v", resp.Inputs)
	}
	if resp.Result.BaseCostPerPerson != 36480 || resp.Result.FixedCostTotal != 50000 {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
	if resp.Result.BreakevenGroupSize == nil || *resp.Result.BreakevenGroupSize != 7 {
		t.Fatalf("unexpected breakeven: %v", resp.Result.BreakevenGroupSize)
	}
	if resp.Margins.From != 10 || resp.Margins.To != 28 || len(resp.Margins.Rows) != 19 {
		t.Fatalf("unexpected margins range: %d..%d (%d rows)", resp.Margins.From, resp.Margins.To, len(resp.Margins.Rows))
	}
}

func TestInputsSavePersistsAndMerges(t *testing.T) {
	srv := newTestServer(t)

	body := strings.NewReader(`{"ticketMode":"exclude","targetPeople":18,"unknown":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/inputs", body)
	req.Header.Set("Content-Type", "application/json")
	saved := decodeCalc(t, serve(t, srv, req))

	if saved.Result.TicketMode != "exclude" || saved.Result.NormalPrice != 35800 || saved.Result.TargetPeople != 18 {
		t.Fatalf("unexpected saved result: %+v", saved.Result)
	}

	form := url.Values{}
	form.Set(snapshot.FieldEarlyCount, "2")
	req = httptest.NewRequest(http.MethodPost, "/api/inputs", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	decodeCalc(t, serve(t, srv, req))

	got := decodeCalc(t, serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/inputs", nil)))
	if got.Inputs[snapshot.FieldTicketMode] != "exclude" || got.Inputs[snapshot.FieldTargetPeople] != "18" || got.Inputs[snapshot.FieldEarlyCount] != "2" {
		t.Fatalf("inputs not persisted: %+v", got.Inputs)
	}
	if _, ok := got.Inputs["unknown"]; ok {
		t.Fatalf("unknown field persisted")
	}
}

func TestInputsResetRestoresDefaults(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/inputs", strings.NewReader(`{"priceNormal":"60,000"}`))
	req.Header.Set("Content-Type", "application/json")
	decodeCalc(t, serve(t, srv, req))

	reset := decodeCalc(t, serve(t, srv, httptest.NewRequest(http.MethodPost, "/api/inputs/reset", nil)))
	if reset.Inputs[snapshot.FieldPriceNormal] != "45,800" {
		t.Fatalf("unexpected reset inputs: %+v", reset.Inputs)
	}

	got := decodeCalc(t, serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/inputs", nil)))
	if got.Inputs[snapshot.FieldPriceNormal] != "45,800" {
		t.Fatalf("reset not persisted: %+v", got.Inputs)
	}
}

func TestCalcDoesNotPersistAndRendersNull(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calc", strings.NewReader(`{"earlyCount":0,"studentCount":20}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(t, srv, req)

	if !strings.Contains(rr.Body.String(), `"suggestedNormalPrice":null`) {
		t.Fatalf("expected null suggestion, got %s", rr.Body.String())
	}

	got := decodeCalc(t, serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/inputs", nil)))
	if got.Inputs[snapshot.FieldStudentCount] != "4" {
		t.Fatalf("calc should not persist inputs: %+v", got.Inputs)
	}
}

func TestCalcRejectsInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calc", strings.NewReader(`{oops`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(t, srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestMarginsQueryRange(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/margins?from=5&to=9", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var margins struct {
		Rows []struct {
			People int    `json:"people"`
			Status string `json:"status"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &margins); err != nil {
		t.Fatalf("decode margins: %v", err)
	}
	if len(margins.Rows) != 5 || margins.Rows[0].Status != "below_breakeven" || margins.Rows[4].Status != "below_target" {
		t.Fatalf("unexpected margins: %+v", margins.Rows)
	}

	rr = serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/margins?from=x", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestMarginsCapsOversizedRange(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/margins?from=1&to=9223372036854775807", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var margins report.Margins
	if err := json.Unmarshal(rr.Body.Bytes(), &margins); err != nil {
		t.Fatalf("decode margins: %v", err)
	}
	if margins.From != 1 || margins.To != 1+pricing.MaxMarginSpan || len(margins.Rows) != pricing.MaxMarginSpan+1 {
		t.Fatalf("unexpected margins range: %d..%d (%d rows)", margins.From, margins.To, len(margins.Rows))
	}
}

func TestInputsSaveWithOversizedRangeStaysUsable(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/inputs", strings.NewReader(`{"rangeTo":"2147483647"}`))
	req.Header.Set("Content-Type", "application/json")
	decodeCalc(t, serve(t, srv, req))

	got := decodeCalc(t, serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/inputs", nil)))
	if got.Inputs[snapshot.FieldRangeTo] != "2147483647" {
		t.Fatalf("rangeTo not persisted: %+v", got.Inputs)
	}
	if got.Margins.From != 10 || got.Margins.To != 10+pricing.MaxMarginSpan || len(got.Margins.Rows) != pricing.MaxMarginSpan+1 {
		t.Fatalf("unexpected margins range: %d..%d (%d rows)", got.Margins.From, got.Margins.To, len(got.Margins.Rows))
	}

	rr := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestCalcHugeAmountsStayNonNegative(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calc", strings.NewReader(`{"costJapan":"10000000000000000000","fixedOther":"1000000000000000000000000000000"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := decodeCalc(t, serve(t, srv, req))

	if resp.Result.SuggestedNormalPrice != nil && *resp.Result.SuggestedNormalPrice < 0 {
		t.Fatalf("negative suggested price %v", *resp.Result.SuggestedNormalPrice)
	}
	if resp.Result.BreakevenGroupSize != nil {
		t.Fatalf("expected null breakeven, got %d", *resp.Result.BreakevenGroupSize)
	}
	if resp.Result.Risk != string(pricing.RiskBlocking) {
		t.Fatalf("risk = %q, want %q", resp.Result.Risk, pricing.RiskBlocking)
	}
}

func TestReportReturnsPlainText(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/report?title=Kyoto", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text/plain content type, got %q", rr.Header().Get("Content-Type"))
	}
	for _, expected := range []string{"Kyoto", "Breakeven: 7 people", "NT$ 41,800", "Margins:"} {
		if !strings.Contains(rr.Body.String(), expected) {
			t.Fatalf("expected body to contain %q, got: %s", expected, rr.Body.String())
		}
	}
}

func TestScenarioLifecycle(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/scenarios", strings.NewReader(`{"title":"Osaka 17","notes":"one bus","targetPeople":17}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(t, srv, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created scenarioCreatedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created scenario: %v", err)
	}
	if created.ID == "" || created.Result.TargetPeople != 17 || created.Result.CapacityExceeded {
		t.Fatalf("unexpected created scenario: %+v", created)
	}

	list := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/scenarios?q=bus", nil))
	var items []store.ScenarioListItem
	if err := json.Unmarshal(list.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID || items[0].Title != "Osaka 17" {
		t.Fatalf("unexpected list: %+v", items)
	}

	detail := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/scenarios/"+created.ID, nil))
	var sc store.Scenario
	if err := json.Unmarshal(detail.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if sc.Inputs[snapshot.FieldTargetPeople] != "17" || sc.Result.TargetPeople != 17 {
		t.Fatalf("unexpected detail: %+v", sc)
	}

	current := decodeCalc(t, serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/inputs", nil)))
	if current.Inputs[snapshot.FieldTargetPeople] != "20" {
		t.Fatalf("saving a scenario should not change stored inputs: %+v", current.Inputs)
	}

	missing := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/scenarios/nope", nil))
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", missing.Code)
	}
}

func TestHandleScenarioTextReturnsPlainText(t *testing.T) {
	srv := newTestServer(t)

	id, err := srv.store.SaveScenario(context.Background(), "Sapporo", "snow week", snapshot.Defaults(), calculate(snapshot.Defaults()).Result)
	if err != nil {
		t.Fatalf("save scenario: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/scenarios/"+id+"/text", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	srv.handleScenarioText(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, expected := range []string{"Sapporo", "snow week", "Suggested normal price for 15 people: NT$ 41,800"} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected body to contain %q, got: %s", expected, body)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rr := serve(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rr.Code, rr.Body.String())
	}
}
