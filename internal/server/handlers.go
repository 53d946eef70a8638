package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/advait/custlink/internal/actions"
	"github.com/advait/custlink/internal/domain"
	"github.com/advait/custlink/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.SearchService
	actions actions.Deriver
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.SearchService, deriver actions.Deriver) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
		actions: deriver,
	}
}

func (h *APIHandlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("search failed", "error", err, "query", query)
		writeError(w, http.StatusBadGateway, "search against the source platforms failed")
		return
	}

	response := searchResponse{
		SearchID:  result.SearchID,
		Query:     result.Query,
		QueryKind: string(result.Kind),
		Summary: summaryResponse{
			TotalResults:         result.Summary.TotalResults,
			LinkedAccounts:       result.Summary.LinkedAccounts,
			UnlinkedFromCRM:      result.Summary.UnlinkedFromCRM,
			UnlinkedFromPayments: result.Summary.UnlinkedFromPayments,
			InconsistencyCount:   result.Summary.InconsistencyCount,
		},
		DurationMs: result.Duration.Milliseconds(),
		Results:    make([]correlatedViewResponse, 0, len(result.Views)),
	}
	for _, view := range result.Views {
		response.Results = append(response.Results, h.toViewResponse(view))
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *APIHandlers) handleCustomerTransfers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/customers/")
	customerID, ok := strings.CutSuffix(strings.Trim(rest, "/"), "/transfers")
	customerID = strings.Trim(customerID, "/")
	if !ok || customerID == "" {
		writeError(w, http.StatusNotFound, "expected /customers/{id}/transfers")
		return
	}

	transfers, err := h.service.LoadTransfers(r.Context(), customerID)
	if err != nil {
		h.logger.Error("failed to load transfers", "error", err, "customerId", customerID)
		writeError(w, http.StatusBadGateway, "loading transfers from the payments platform failed")
		return
	}

	response := transfersResponse{
		CustomerID: customerID,
		Transfers:  make([]transferResponse, 0, len(transfers)),
	}
	for _, transfer := range transfers {
		response.Transfers = append(response.Transfers, toTransferResponse(transfer))
	}

	respondJSON(w, http.StatusOK, response)
}

// --- Response DTOs ---

type searchResponse struct {
	SearchID   string                   `json:"searchId"`
	Query      string                   `json:"query"`
	QueryKind  string                   `json:"queryKind"`
	Summary    summaryResponse          `json:"summary"`
	Results    []correlatedViewResponse `json:"results"`
	DurationMs int64                    `json:"durationMs"`
}

type summaryResponse struct {
	TotalResults         int `json:"totalResults"`
	LinkedAccounts       int `json:"linkedAccounts"`
	UnlinkedFromCRM      int `json:"unlinkedFromCrm"`
	UnlinkedFromPayments int `json:"unlinkedFromPayments"`
	InconsistencyCount   int `json:"inconsistencyCount"`
}

type correlatedViewResponse struct {
	Company     *companyResponse    `json:"company,omitempty"`
	Contacts    []contactResponse   `json:"contacts"`
	Customer    *customerResponse   `json:"customer,omitempty"`
	Transfers   []transferResponse  `json:"transfers"`
	Correlation correlationResponse `json:"correlation"`
	Actions     []actionResponse    `json:"actions"`
}

type companyResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ExternalPaymentsID string `json:"externalPaymentsId,omitempty"`
	Status             string `json:"status,omitempty"`
	Description        string `json:"description,omitempty"`
}

type contactResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

type customerResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	BusinessName string `json:"businessName,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email,omitempty"`
	Status       string `json:"status"`
	Created      string `json:"created,omitempty"`
}

type transferResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Created       string `json:"created,omitempty"`
	SourceID      string `json:"sourceId"`
	DestinationID string `json:"destinationId"`
}

type correlationResponse struct {
	Linked          bool                    `json:"linked"`
	LinkType        string                  `json:"linkType"`
	Confidence      int                     `json:"confidence"`
	Inconsistencies []inconsistencyResponse `json:"inconsistencies"`
}

type inconsistencyResponse struct {
	Field         string `json:"field"`
	CRMValue      string `json:"crmValue"`
	PaymentsValue string `json:"paymentsValue"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
}

type actionResponse struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type transfersResponse struct {
	CustomerID string             `json:"customerId"`
	Transfers  []transferResponse `json:"transfers"`
}

// --- Helpers ---

func (h *APIHandlers) toViewResponse(view domain.CorrelatedCustomer) correlatedViewResponse {
	resp := correlatedViewResponse{
		Contacts:  make([]contactResponse, 0, len(view.Contacts)),
		Transfers: make([]transferResponse, 0, len(view.Transfers)),
		Correlation: correlationResponse{
			Linked:          view.Result.Linked,
			LinkType:        string(view.Result.LinkType),
			Confidence:      view.Result.Confidence,
			Inconsistencies: make([]inconsistencyResponse, 0, len(view.Result.Inconsistencies)),
		},
		Actions: make([]actionResponse, 0, 4),
	}

	if view.Company != nil {
		resp.Company = &companyResponse{
			ID:                 view.Company.ID,
			Name:               view.Company.Name,
			ExternalPaymentsID: view.Company.ExternalPaymentsID,
			Status:             view.Company.Status,
			Description:        view.Company.Description,
		}
	}
	for _, contact := range view.Contacts {
		resp.Contacts = append(resp.Contacts, contactResponse{
			ID:          contact.ID,
			FirstName:   contact.FirstName,
			LastName:    contact.LastName,
			Email:       contact.Email,
			Phone:       contact.Phone,
			CompanyName: contact.CompanyName,
		})
	}
	if view.Customer != nil {
		resp.Customer = &customerResponse{
			ID:           view.Customer.ID,
			Type:         view.Customer.Type,
			BusinessName: view.Customer.BusinessName,
			FirstName:    view.Customer.FirstName,
			LastName:     view.Customer.LastName,
			Email:        view.Customer.Email,
			Status:       view.Customer.Status,
			Created:      formatTime(view.Customer.Created),
		}
	}
	for _, transfer := range view.Transfers {
		resp.Transfers = append(resp.Transfers, toTransferResponse(transfer))
	}
	for _, item := range view.Result.Inconsistencies {
		resp.Correlation.Inconsistencies = append(resp.Correlation.Inconsistencies, inconsistencyResponse{
			Field:         item.Field,
			CRMValue:      item.CRMValue,
			PaymentsValue: item.PaymentsValue,
			Severity:      string(item.Severity),
			Message:       item.Message,
		})
	}
	for _, action := range h.actions.Derive(view) {
		resp.Actions = append(resp.Actions, actionResponse{
			Type:  string(action.Type),
			Label: action.Label,
			Value: action.Value,
		})
	}

	return resp
}

func toTransferResponse(transfer domain.PaymentsTransfer) transferResponse {
	return transferResponse{
		ID:            transfer.ID,
		Status:        transfer.Status,
		Amount:        transfer.Amount.Value,
		Currency:      transfer.Amount.Currency,
		Created:       formatTime(transfer.Created),
		SourceID:      transfer.SourceID,
		DestinationID: transfer.DestinationID,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
