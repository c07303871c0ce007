package controllers

import (
	"net/http"

	"github.com/aulaeco/recicla-backend/api/middleware"
	"github.com/aulaeco/recicla-backend/api/responses"
	"github.com/aulaeco/recicla-backend/api/validators"
	"github.com/aulaeco/recicla-backend/internal/ledger"
	pkgerrors "github.com/aulaeco/recicla-backend/pkg/errors"
	"github.com/aulaeco/recicla-backend/pkg/logger"
)

type createRecyclingRequest struct {
	Material string  `json:"material" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Item     string  `json:"item"`
	Date     string  `json:"date"`
}

// CreateRecycling stores one submission for the authenticated user.
func CreateRecycling(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}

		var req createRecyclingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Submit(r.Context(), ledger.SubmitInput{
			UserID:   userID,
			Material: req.Material,
			Quantity: req.Quantity,
			Item:     req.Item,
			Date:     req.Date,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// MyRecords lists the authenticated user's records, newest first.
func MyRecords(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
			return
		}

		from, err := validators.ParseFromDate(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.RecordsForUser(r.Context(), userID, from)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// PublicRecyclings exposes the whole ledger without usernames.
func PublicRecyclings(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseFromDate(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.PublicRecords(r.Context(), from)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// AdminRecyclings lists every record joined with its owner's username.
func AdminRecyclings(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseFromDate(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.AdminRecords(r.Context(), from)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}
