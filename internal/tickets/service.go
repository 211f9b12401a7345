package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/wrenchworks/mechshop-backend/pkg/db"
	"github.com/wrenchworks/mechshop-backend/pkg/db/models"
	"github.com/wrenchworks/mechshop-backend/pkg/enums"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
	"github.com/wrenchworks/mechshop-backend/pkg/logger"
	"github.com/wrenchworks/mechshop-backend/pkg/outbox"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
)

// Service orchestrates the ticket workflow. Every mutation runs inside one
// transaction that also queues the matching outbox event, so the derived cost
// and status can never drift from the edge sets.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*TicketDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TicketDTO, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*TicketListDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*TicketDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignMechanic(ctx context.Context, ticketID, mechanicID uuid.UUID) (*TicketDTO, error)
	RemoveMechanic(ctx context.Context, ticketID, mechanicID uuid.UUID) (*TicketDTO, error)
	AddPart(ctx context.Context, ticketID, partID uuid.UUID) (*TicketDTO, error)
	BulkEditMechanics(ctx context.Context, ticketID uuid.UUID, input BulkEditInput) (*BulkEditResultDTO, error)
}

// CreateInput holds the validated payload to open a ticket.
type CreateInput struct {
	Title         string
	Description   string
	CustomerID    uuid.UUID
	VehicleInfo   *string
	EstimatedCost decimal.Decimal
	Priority      *enums.TicketPriority
}

// UpdateInput holds optional mutation values for a ticket.
type UpdateInput struct {
	Title         *string
	Description   *string
	VehicleInfo   *string
	EstimatedCost *decimal.Decimal
	Priority      *enums.TicketPriority
	Status        *enums.TicketStatus
}

// BulkEditInput lists mechanic ids to remove and add in one pass.
type BulkEditInput struct {
	RemoveIDs []uuid.UUID
	AddIDs    []uuid.UUID
}

type mechanicDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Mechanic, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type partDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	calc      CostCalculator
	mechanics mechanicDirectory
	parts     partDirectory
	events    *outbox.Service
	logg      *logger.Logger
}

// NewService constructs the ticket workflow service.
func NewService(
	repo *Repository,
	dbClient *db.Client,
	calc CostCalculator,
	mechanics mechanicDirectory,
	parts partDirectory,
	events *outbox.Service,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if mechanics == nil {
		return nil, fmt.Errorf("mechanic directory required")
	}
	if parts == nil {
		return nil, fmt.Errorf("part directory required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{
		repo:      repo,
		dbClient:  dbClient,
		calc:      calc,
		mechanics: mechanics,
		parts:     parts,
		events:    events,
		logg:      logg,
	}, nil
}

type ticketEventData struct {
	TicketID   uuid.UUID  `json:"ticketId"`
	Status     string     `json:"status"`
	TotalCost  string     `json:"totalCost"`
	MechanicID *uuid.UUID `json:"mechanicId,omitempty"`
	PartID     *uuid.UUID `json:"partId,omitempty"`
}

// Create opens a new ticket. The total starts at the estimate since no labor
// or parts exist yet.
func (s *service) Create(ctx context.Context, input CreateInput) (*TicketDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	if input.EstimatedCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated_cost cannot be negative")
	}

	priority := enums.TicketPriorityMedium
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket priority")
		}
		priority = *input.Priority
	}

	ticket := &models.ServiceTicket{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		CustomerID:    input.CustomerID,
		VehicleInfo:   input.VehicleInfo,
		EstimatedCost: input.EstimatedCost,
		TotalCost:     s.calc.Total(input.EstimatedCost, nil, nil),
		Status:        enums.TicketStatusOpen,
		Priority:      priority,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Create(ctx, ticket); err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.OutboxEventTicketCreated, ticket, nil, nil)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating ticket")
	}
	return NewTicketDTO(ticket, nil, nil), nil
}

// Get loads the ticket with its mechanics and parts.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.loadTicket(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return s.buildDTO(ctx, s.repo, ticket)
}

// List returns a page of tickets without their edge sets.
func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*TicketListDTO, error) {
	rows, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tickets")
	}

	out := &TicketListDTO{Tickets: make([]TicketDTO, 0, len(rows))}
	for i := range rows {
		out.Tickets = append(out.Tickets, *NewTicketDTO(&rows[i], nil, nil))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		out.NextCursor = &encoded
	}
	return out, nil
}

// Update edits ticket fields. A status change is only honored toward a
// terminal state; open and in_progress are derived from assignments.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*TicketDTO, error) {
	var updated *models.ServiceTicket
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ticket, err := s.loadTicket(ctx, txRepo, id)
		if err != nil {
			return err
		}

		if input.Title != nil {
			if strings.TrimSpace(*input.Title) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
			}
			ticket.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			ticket.Description = *input.Description
		}
		if input.VehicleInfo != nil {
			ticket.VehicleInfo = input.VehicleInfo
		}
		if input.Priority != nil {
			if !input.Priority.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket priority")
			}
			ticket.Priority = *input.Priority
		}
		if input.EstimatedCost != nil {
			if input.EstimatedCost.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "estimated_cost cannot be negative")
			}
			ticket.EstimatedCost = *input.EstimatedCost
		}
		if input.Status != nil {
			if err := validateManualTransition(ticket.Status, *input.Status); err != nil {
				return err
			}
			if *input.Status != ticket.Status {
				ticket.Status = *input.Status
				if ticket.Status == enums.TicketStatusCompleted {
					now := time.Now().UTC()
					ticket.CompletionDate = &now
				}
			}
		}

		if err := s.recompute(ctx, txRepo, ticket); err != nil {
			return err
		}
		updated = ticket
		return s.emit(ctx, tx, enums.OutboxEventTicketUpdated, ticket, nil, nil)
	})
	if err != nil {
		return nil, asTypedError(err, "updating ticket")
	}
	return s.buildDTO(ctx, s.repo, updated)
}

// Delete removes the ticket and, via the DB cascade, its edges.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ticket, err := s.loadTicket(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.emit(ctx, tx, enums.OutboxEventTicketDeleted, ticket, nil, nil)
	})
	if err != nil {
		return asTypedError(err, "deleting ticket")
	}
	return nil
}

// AssignMechanic adds the assignment edge and re-derives status and cost.
func (s *service) AssignMechanic(ctx context.Context, ticketID, mechanicID uuid.UUID) (*TicketDTO, error) {
	if _, err := s.mechanics.FindByID(ctx, mechanicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mechanic not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading mechanic")
	}

	var updated *models.ServiceTicket
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ticket, err := s.loadTicket(ctx, txRepo, ticketID)
		if err != nil {
			return err
		}

		if err := txRepo.InsertMechanicEdge(ctx, ticketID, mechanicID); err != nil {
			if db.IsUniqueViolation(err, "") || errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.New(pkgerrors.CodeConflict, "mechanic already assigned to ticket")
			}
			return err
		}

		if err := s.recompute(ctx, txRepo, ticket); err != nil {
			return err
		}
		updated = ticket
		return s.emit(ctx, tx, enums.OutboxEventTicketMechanicAdded, ticket, &mechanicID, nil)
	})
	if err != nil {
		return nil, asTypedError(err, "assigning mechanic")
	}
	return s.buildDTO(ctx, s.repo, updated)
}

// RemoveMechanic drops the assignment edge and re-derives status and cost.
func (s *service) RemoveMechanic(ctx context.Context, ticketID, mechanicID uuid.UUID) (*TicketDTO, error) {
	var updated *models.ServiceTicket
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ticket, err := s.loadTicket(ctx, txRepo, ticketID)
		if err != nil {
			return err
		}

		removed, err := txRepo.DeleteMechanicEdge(ctx, ticketID, mechanicID)
		if err != nil {
			return err
		}
		if !removed {
			return pkgerrors.New(pkgerrors.CodeConflict, "mechanic not assigned to ticket")
		}

		if err := s.recompute(ctx, txRepo, ticket); err != nil {
			return err
		}
		updated = ticket
		return s.emit(ctx, tx, enums.OutboxEventTicketMechanicRemoved, ticket, &mechanicID, nil)
	})
	if err != nil {
		return nil, asTypedError(err, "removing mechanic")
	}
	return s.buildDTO(ctx, s.repo, updated)
}

// AddPart attaches an inventory item and folds its price into the total.
func (s *service) AddPart(ctx context.Context, ticketID, partID uuid.UUID) (*TicketDTO, error) {
	if _, err := s.parts.FindByID(ctx, partID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
	}

	var updated *models.ServiceTicket
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ticket, err := s.loadTicket(ctx, txRepo, ticketID)
		if err != nil {
			return err
		}

		if err := txRepo.InsertPartEdge(ctx, ticketID, partID); err != nil {
			if db.IsUniqueViolation(err, "") || errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.New(pkgerrors.CodeConflict, "part already attached to ticket")
			}
			return err
		}

		if err := s.recompute(ctx, txRepo, ticket); err != nil {
			return err
		}
		updated = ticket
		return s.emit(ctx, tx, enums.OutboxEventTicketPartAdded, ticket, nil, &partID)
	})
	if err != nil {
		return nil, asTypedError(err, "adding part")
	}
	return s.buildDTO(ctx, s.repo, updated)
}

// BulkEditMechanics applies removals first, then additions. Ids that do not
// match a mechanic, removals of absent assignments, and duplicate additions
// are skipped without failing the batch.
func (s *service) BulkEditMechanics(ctx context.Context, ticketID uuid.UUID, input BulkEditInput) (*BulkEditResultDTO, error) {
	known, err := s.mechanics.ExistingIDs(ctx, append(append([]uuid.UUID{}, input.RemoveIDs...), input.AddIDs...))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading mechanics")
	}

	var (
		updated *models.ServiceTicket
		added   []uuid.UUID
		removed []uuid.UUID
		skipped []uuid.UUID
	)
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ticket, err := s.loadTicket(ctx, txRepo, ticketID)
		if err != nil {
			return err
		}

		assigned, err := txRepo.AssignedMechanicIDs(ctx, ticketID)
		if err != nil {
			return err
		}

		var skipErrs error
		for _, id := range input.RemoveIDs {
			if !known[id] || !assigned[id] {
				skipped = append(skipped, id)
				skipErrs = multierr.Append(skipErrs, fmt.Errorf("remove %s: not assigned", id))
				continue
			}
			ok, err := txRepo.DeleteMechanicEdge(ctx, ticketID, id)
			if err != nil {
				return err
			}
			if ok {
				assigned[id] = false
				removed = append(removed, id)
			}
		}
		for _, id := range input.AddIDs {
			if !known[id] || assigned[id] {
				skipped = append(skipped, id)
				skipErrs = multierr.Append(skipErrs, fmt.Errorf("add %s: unknown or already assigned", id))
				continue
			}
			if err := txRepo.InsertMechanicEdge(ctx, ticketID, id); err != nil {
				return err
			}
			assigned[id] = true
			added = append(added, id)
		}
		if skipErrs != nil && s.logg != nil {
			logCtx := s.logg.WithTicketID(ctx, ticketID.String())
			s.logg.Warn(s.logg.WithField(logCtx, "skipped", multierr.Errors(skipErrs)), "bulk mechanic edit skipped entries")
		}

		if err := s.recompute(ctx, txRepo, ticket); err != nil {
			return err
		}
		updated = ticket
		return s.emit(ctx, tx, enums.OutboxEventTicketUpdated, ticket, nil, nil)
	})
	if err != nil {
		return nil, asTypedError(err, "bulk editing mechanics")
	}

	dto, err := s.buildDTO(ctx, s.repo, updated)
	if err != nil {
		return nil, err
	}
	return &BulkEditResultDTO{
		Ticket:  *dto,
		Added:   added,
		Removed: removed,
		Skipped: skipped,
	}, nil
}

// recompute re-derives status and total cost from the post-mutation edge sets
// and persists the ticket row.
func (s *service) recompute(ctx context.Context, repo *Repository, ticket *models.ServiceTicket) error {
	mechanics, err := repo.ListMechanics(ctx, ticket.ID)
	if err != nil {
		return err
	}
	parts, err := repo.ListParts(ctx, ticket.ID)
	if err != nil {
		return err
	}

	rates := make([]decimal.Decimal, 0, len(mechanics))
	for i := range mechanics {
		rates = append(rates, mechanics[i].HourlyRate)
	}
	prices := make([]decimal.Decimal, 0, len(parts))
	for i := range parts {
		prices = append(prices, parts[i].Price)
	}

	ticket.TotalCost = s.calc.Total(ticket.EstimatedCost, rates, prices)
	ticket.Status = nextStatus(ticket.Status, len(mechanics))
	_, err = repo.Update(ctx, ticket)
	return err
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, ticket *models.ServiceTicket, mechanicID, partID *uuid.UUID) error {
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.OutboxAggregateServiceTicket,
		AggregateID:   ticket.ID,
		Data: ticketEventData{
			TicketID:   ticket.ID,
			Status:     string(ticket.Status),
			TotalCost:  ticket.TotalCost.StringFixed(2),
			MechanicID: mechanicID,
			PartID:     partID,
		},
	})
}

func (s *service) loadTicket(ctx context.Context, repo *Repository, id uuid.UUID) (*models.ServiceTicket, error) {
	ticket, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ticket")
	}
	return ticket, nil
}

func (s *service) buildDTO(ctx context.Context, repo *Repository, ticket *models.ServiceTicket) (*TicketDTO, error) {
	mechanics, err := repo.ListMechanics(ctx, ticket.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ticket mechanics")
	}
	parts, err := repo.ListParts(ctx, ticket.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ticket parts")
	}
	return NewTicketDTO(ticket, mechanics, parts), nil
}

// asTypedError passes through service errors and wraps raw DB failures.
func asTypedError(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
