package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advait/custlink/internal/actions"
	"github.com/advait/custlink/internal/domain"
	"github.com/advait/custlink/internal/service"
	"github.com/advait/custlink/internal/sources"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, crm sources.CRMClient, payments sources.PaymentsClient) http.Handler {
	t.Helper()
	svc := service.NewSearchService(crm, payments, nil)
	handlers := NewAPIHandlers(testLogger(), svc, actions.Deriver{
		CRMBaseURL:      "https://crm.example.com",
		PaymentsBaseURL: "https://pay.example.com",
	})
	return NewRouter(testLogger(), RouterDependencies{
		Health: SourcesHealthService{CRM: crm, Payments: payments},
		API:    handlers,
	})
}

func seededClients() (*sources.MemoryCRMClient, *sources.MemoryPaymentsClient) {
	crm := sources.NewMemoryCRMClient(
		[]domain.CrmCompany{
			{ID: "901", Name: "Acme Corp.", ExternalPaymentsID: "cus-1", Status: "complete"},
		},
		[]domain.CrmContact{
			{ID: "301", FirstName: "Jane", LastName: "Doe", Email: "jane@acme.example", CompanyName: "Acme Corp."},
		},
	)
	payments := sources.NewMemoryPaymentsClient(
		[]domain.PaymentsCustomer{
			{ID: "cus-1", Type: domain.CustomerTypeBusiness, BusinessName: "Acme Corp", Status: domain.CustomerStatusVerified},
		},
		[]domain.PaymentsTransfer{
			{ID: "tr-1", Status: "processed", SourceID: "cus-1", DestinationID: "cus-2"},
		},
	)
	return crm, payments
}

func TestHandleSearch(t *testing.T) {
	crm, payments := seededClients()
	router := newTestRouter(t, crm, payments)

	req := httptest.NewRequest(http.MethodGet, "/search?q=Acme+Corp.", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var decoded searchResponse
	if err := json.NewDecoder(rec.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.SearchID == "" {
		t.Fatalf("expected a search id")
	}
	if decoded.QueryKind != string(domain.QueryKindBusinessName) {
		t.Fatalf("unexpected query kind %q", decoded.QueryKind)
	}
	if decoded.Summary.LinkedAccounts != 1 || decoded.Summary.TotalResults != 1 {
		t.Fatalf("unexpected summary %+v", decoded.Summary)
	}
	if len(decoded.Results) != 1 {
		t.Fatalf("expected 1 result, got %+v", decoded.Results)
	}

	result := decoded.Results[0]
	if result.Company == nil || result.Customer == nil {
		t.Fatalf("expected both sides present, got %+v", result)
	}
	if result.Correlation.LinkType != string(domain.LinkByExternalID) || result.Correlation.Confidence != 100 {
		t.Fatalf("unexpected correlation %+v", result.Correlation)
	}
	if len(result.Actions) == 0 {
		t.Fatalf("expected quick actions on a linked view")
	}
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	crm, payments := seededClients()
	router := newTestRouter(t, crm, payments)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSearch_MethodNotAllowed(t *testing.T) {
	crm, payments := seededClients()
	router := newTestRouter(t, crm, payments)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/search?q=Acme", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleSearch_UpstreamFailure(t *testing.T) {
	crm, payments := seededClients()
	crm.WithError(errors.New("upstream down"))
	router := newTestRouter(t, crm, payments)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=Acme", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestHandleCustomerTransfers(t *testing.T) {
	crm, payments := seededClients()
	router := newTestRouter(t, crm, payments)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/cus-1/transfers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var decoded transfersResponse
	if err := json.NewDecoder(rec.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.CustomerID != "cus-1" || len(decoded.Transfers) != 1 {
		t.Fatalf("unexpected response %+v", decoded)
	}
	if decoded.Transfers[0].ID != "tr-1" {
		t.Fatalf("unexpected transfer %+v", decoded.Transfers[0])
	}
}

func TestHandleCustomerTransfers_BadPath(t *testing.T) {
	crm, payments := seededClients()
	router := newTestRouter(t, crm, payments)

	for _, path := range []string{"/customers/transfers", "/customers//transfers", "/customers/cus-1"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	crm, payments := seededClients()
	router := newTestRouter(t, crm, payments)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthz_Degraded(t *testing.T) {
	crm, payments := seededClients()
	payments.WithPingError(errors.New("payments unreachable"))
	router := newTestRouter(t, crm, payments)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
