package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advait/custlink/internal/domain"
)

func TestCRMClient_SearchCompaniesPaginates(t *testing.T) {
	var requests []searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/companies/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer crm-token" {
			t.Fatalf("unexpected authorization header %q", got)
		}

		var payload searchRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		requests = append(requests, payload)

		response := searchResponse{
			Results: []objectResult{
				{ID: "901", Properties: map[string]string{
					crmPropName:       "Acme Corp.",
					crmPropPaymentsID: "cus-1",
					crmPropLifecycle:  "complete",
				}},
			},
		}
		if payload.After == "" {
			response.Paging = &struct {
				Next struct {
					After string `json:"after"`
				} `json:"next"`
			}{}
			response.Paging.Next.After = "cursor-2"
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client, err := NewCRMClient(Options{BaseURL: server.URL, Tokens: StaticTokenSource("crm-token"), PageLimit: 50})
	if err != nil {
		t.Fatalf("NewCRMClient: %v", err)
	}

	companies, err := client.SearchCompanies(context.Background(), SearchQuery{Text: "Acme", Kind: domain.QueryKindBusinessName})
	if err != nil {
		t.Fatalf("SearchCompanies: %v", err)
	}

	if len(requests) != 2 {
		t.Fatalf("expected 2 paged requests, got %d", len(requests))
	}
	if requests[0].Limit != 50 || requests[1].After != "cursor-2" {
		t.Fatalf("unexpected pagination payloads %+v", requests)
	}
	if len(requests[0].FilterGroups) != 1 || requests[0].FilterGroups[0].Filters[0].PropertyName != crmPropName {
		t.Fatalf("expected a name filter, got %+v", requests[0].FilterGroups)
	}

	if len(companies) != 2 {
		t.Fatalf("expected one company per page, got %+v", companies)
	}
	if companies[0].ExternalPaymentsID != "cus-1" || companies[0].Status != "complete" {
		t.Fatalf("unexpected company mapping %+v", companies[0])
	}
}

func TestCRMClient_EmailQueryFilters(t *testing.T) {
	var companyFilters, contactFilters []filter
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload searchRequest
		_ = json.NewDecoder(r.Body).Decode(&payload)
		switch r.URL.Path {
		case "/crm/v3/objects/companies/search":
			companyFilters = payload.FilterGroups[0].Filters
		case "/crm/v3/objects/contacts/search":
			contactFilters = payload.FilterGroups[0].Filters
		}
		_ = json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	client, err := NewCRMClient(Options{BaseURL: server.URL, Tokens: StaticTokenSource("crm-token")})
	if err != nil {
		t.Fatalf("NewCRMClient: %v", err)
	}

	query := SearchQuery{Text: "Jane@Example.com", Kind: domain.QueryKindEmail}
	if _, err := client.SearchCompanies(context.Background(), query); err != nil {
		t.Fatalf("SearchCompanies: %v", err)
	}
	if _, err := client.SearchContacts(context.Background(), query); err != nil {
		t.Fatalf("SearchContacts: %v", err)
	}

	if len(companyFilters) != 1 || companyFilters[0].PropertyName != crmPropDomain || companyFilters[0].Value != "example.com" {
		t.Fatalf("expected company domain filter, got %+v", companyFilters)
	}
	if len(contactFilters) != 1 || contactFilters[0].PropertyName != crmPropEmail || contactFilters[0].Value != "jane@example.com" {
		t.Fatalf("expected contact email filter, got %+v", contactFilters)
	}
}

func TestCRMClient_PersonQueryFiltersOnNames(t *testing.T) {
	var got []filter
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload searchRequest
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload.FilterGroups[0].Filters
		_ = json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	client, err := NewCRMClient(Options{BaseURL: server.URL, Tokens: StaticTokenSource("crm-token")})
	if err != nil {
		t.Fatalf("NewCRMClient: %v", err)
	}

	if _, err := client.SearchContacts(context.Background(), SearchQuery{Text: "Jane Doe", Kind: domain.QueryKindPersonName}); err != nil {
		t.Fatalf("SearchContacts: %v", err)
	}

	if len(got) != 2 || got[0].PropertyName != crmPropFirstName || got[1].PropertyName != crmPropLastName {
		t.Fatalf("expected first and last name filters, got %+v", got)
	}
	if got[0].Value != "Jane" || got[1].Value != "Doe" {
		t.Fatalf("unexpected filter values %+v", got)
	}
}

func TestCRMClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewCRMClient(Options{BaseURL: server.URL, Tokens: StaticTokenSource("bad")})
	if err != nil {
		t.Fatalf("NewCRMClient: %v", err)
	}

	if _, err := client.SearchCompanies(context.Background(), SearchQuery{Text: "Acme"}); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestNewCRMClient_Validation(t *testing.T) {
	if _, err := NewCRMClient(Options{Tokens: StaticTokenSource("x")}); err != ErrMissingBaseURL {
		t.Fatalf("expected ErrMissingBaseURL, got %v", err)
	}
	if _, err := NewCRMClient(Options{BaseURL: "http://localhost"}); err != ErrMissingToken {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
