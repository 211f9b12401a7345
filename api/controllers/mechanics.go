package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/wrenchworks/mechshop-backend/api/responses"
	"github.com/wrenchworks/mechshop-backend/api/validators"
	mechanicsvc "github.com/wrenchworks/mechshop-backend/internal/mechanics"
	pkgerrors "github.com/wrenchworks/mechshop-backend/pkg/errors"
	"github.com/wrenchworks/mechshop-backend/pkg/logger"
	"github.com/wrenchworks/mechshop-backend/pkg/pagination"
)

type mechanicRegisterRequest struct {
	Name       string          `json:"name" validate:"required"`
	Email      string          `json:"email" validate:"required,email"`
	Phone      *string         `json:"phone,omitempty"`
	Specialty  *string         `json:"specialty,omitempty"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Password   string          `json:"password" validate:"required,min=8"`
}

type mechanicUpdateRequest struct {
	Name       *string          `json:"name,omitempty"`
	Email      *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string          `json:"phone,omitempty"`
	Specialty  *string          `json:"specialty,omitempty"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
	Password   *string          `json:"password,omitempty" validate:"omitempty,min=8"`
}

// MechanicRegister creates a mechanic account.
func MechanicRegister(svc mechanicsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "mechanic service unavailable"))
			return
		}

		var payload mechanicRegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mechanic, err := svc.Register(r.Context(), mechanicsvc.RegisterInput{
			Name:       payload.Name,
			Email:      payload.Email,
			Phone:      payload.Phone,
			Specialty:  payload.Specialty,
			HourlyRate: payload.HourlyRate,
			Password:   payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mechanic)
	}
}

// MechanicGet returns a single mechanic.
func MechanicGet(svc mechanicsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "mechanicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mechanic, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mechanic)
	}
}

// MechanicUpdate edits an existing mechanic.
func MechanicUpdate(svc mechanicsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "mechanicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload mechanicUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mechanic, err := svc.Update(r.Context(), id, mechanicsvc.UpdateInput{
			Name:       payload.Name,
			Email:      payload.Email,
			Phone:      payload.Phone,
			Specialty:  payload.Specialty,
			HourlyRate: payload.HourlyRate,
			Password:   payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mechanic)
	}
}

// MechanicDelete removes a mechanic.
func MechanicDelete(svc mechanicsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "mechanicId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MechanicList returns a page of mechanics.
func MechanicList(svc mechanicsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// MechanicLeaderboard ranks mechanics by open assignment count.
func MechanicLeaderboard(svc mechanicsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Leaderboard(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
