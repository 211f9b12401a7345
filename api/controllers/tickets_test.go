package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ticketsvc "github.com/wrenchworks/mechshop-backend/internal/tickets"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
)

type stubTicketService struct {
	createFn   func(ctx context.Context, input ticketsvc.CreateInput) (*ticketsvc.TicketDTO, error)
	listFn     func(ctx context.Context, filter ticketsvc.ListFilter, params pagination.Params) (*ticketsvc.TicketListDTO, error)
	assignFn   func(ctx context.Context, ticketID, mechanicID uuid.UUID) (*ticketsvc.TicketDTO, error)
	bulkEditFn func(ctx context.Context, ticketID uuid.UUID, input ticketsvc.BulkEditInput) (*ticketsvc.BulkEditResultDTO, error)
}

func (s stubTicketService) Create(ctx context.Context, input ticketsvc.CreateInput) (*ticketsvc.TicketDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &ticketsvc.TicketDTO{ID: uuid.New()}, nil
}

func (s stubTicketService) Get(ctx context.Context, id uuid.UUID) (*ticketsvc.TicketDTO, error) {
	return &ticketsvc.TicketDTO{ID: id}, nil
}

func (s stubTicketService) List(ctx context.Context, filter ticketsvc.ListFilter, params pagination.Params) (*ticketsvc.TicketListDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter, params)
	}
	return &ticketsvc.TicketListDTO{}, nil
}

func (s stubTicketService) Update(ctx context.Context, id uuid.UUID, input ticketsvc.UpdateInput) (*ticketsvc.TicketDTO, error) {
	return &ticketsvc.TicketDTO{ID: id}, nil
}

func (s stubTicketService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s stubTicketService) AssignMechanic(ctx context.Context, ticketID, mechanicID uuid.UUID) (*ticketsvc.TicketDTO, error) {
	if s.assignFn != nil {
		return s.assignFn(ctx, ticketID, mechanicID)
	}
	return &ticketsvc.TicketDTO{ID: ticketID}, nil
}

func (s stubTicketService) RemoveMechanic(ctx context.Context, ticketID, mechanicID uuid.UUID) (*ticketsvc.TicketDTO, error) {
	return &ticketsvc.TicketDTO{ID: ticketID}, nil
}

func (s stubTicketService) AddPart(ctx context.Context, ticketID, partID uuid.UUID) (*ticketsvc.TicketDTO, error) {
	return &ticketsvc.TicketDTO{ID: ticketID}, nil
}

func (s stubTicketService) BulkEditMechanics(ctx context.Context, ticketID uuid.UUID, input ticketsvc.BulkEditInput) (*ticketsvc.BulkEditResultDTO, error) {
	if s.bulkEditFn != nil {
		return s.bulkEditFn(ctx, ticketID, input)
	}
	return &ticketsvc.BulkEditResultDTO{}, nil
}

func decodeErrorCode(t *testing.T, body string) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestTicketCreateRejectsMissingTitle(t *testing.T) {
	handler := TicketCreate(stubTicketService{}, nil)
	body := strings.NewReader(`{"customer_id":"` + uuid.NewString() + `","estimated_cost":"10.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp.Body.String()); code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code %s", code)
	}
}

func TestTicketCreateParsesPriority(t *testing.T) {
	var got ticketsvc.CreateInput
	svc := stubTicketService{
		createFn: func(ctx context.Context, input ticketsvc.CreateInput) (*ticketsvc.TicketDTO, error) {
			got = input
			return &ticketsvc.TicketDTO{ID: uuid.New()}, nil
		},
	}
	handler := TicketCreate(svc, nil)
	body := strings.NewReader(`{"title":"Brake job","customer_id":"` + uuid.NewString() + `","estimated_cost":"100.00","priority":"high"}`)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if got.Priority == nil || *got.Priority != enums.TicketPriorityHigh {
		t.Fatalf("priority not passed through: %v", got.Priority)
	}
}

func TestTicketListRejectsUnknownStatusFilter(t *testing.T) {
	handler := TicketList(stubTicketService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/?status=paused", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTicketListPassesFilters(t *testing.T) {
	customerID := uuid.New()
	var gotFilter ticketsvc.ListFilter
	svc := stubTicketService{
		listFn: func(ctx context.Context, filter ticketsvc.ListFilter, params pagination.Params) (*ticketsvc.TicketListDTO, error) {
			gotFilter = filter
			return &ticketsvc.TicketListDTO{}, nil
		},
	}
	handler := TicketList(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/?status=in_progress&customer_id="+customerID.String(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotFilter.Status == nil || *gotFilter.Status != enums.TicketStatusInProgress {
		t.Fatalf("status filter not passed: %v", gotFilter.Status)
	}
	if gotFilter.CustomerID == nil || *gotFilter.CustomerID != customerID {
		t.Fatalf("customer filter not passed: %v", gotFilter.CustomerID)
	}
}

func TestTicketAssignMechanicRejectsBadID(t *testing.T) {
	router := chi.NewRouter()
	router.Put("/tickets/{ticketId}/mechanics/{mechanicId}", TicketAssignMechanic(stubTicketService{}, nil))

	req := httptest.NewRequest(http.MethodPut, "/tickets/not-a-uuid/mechanics/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTicketBulkEditDecodesIDLists(t *testing.T) {
	addID := uuid.New()
	removeID := uuid.New()
	var gotInput ticketsvc.BulkEditInput
	svc := stubTicketService{
		bulkEditFn: func(ctx context.Context, ticketID uuid.UUID, input ticketsvc.BulkEditInput) (*ticketsvc.BulkEditResultDTO, error) {
			gotInput = input
			return &ticketsvc.BulkEditResultDTO{Added: []uuid.UUID{addID}}, nil
		},
	}

	router := chi.NewRouter()
	router.Put("/tickets/{ticketId}/mechanics", TicketBulkEditMechanics(svc, nil))

	body := strings.NewReader(`{"add_ids":["` + addID.String() + `"],"remove_ids":["` + removeID.String() + `"]}`)
	req := httptest.NewRequest(http.MethodPut, "/tickets/"+uuid.NewString()+"/mechanics", body)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(gotInput.AddIDs) != 1 || gotInput.AddIDs[0] != addID {
		t.Fatalf("add ids not decoded: %v", gotInput.AddIDs)
	}
	if len(gotInput.RemoveIDs) != 1 || gotInput.RemoveIDs[0] != removeID {
		t.Fatalf("remove ids not decoded: %v", gotInput.RemoveIDs)
	}
}
