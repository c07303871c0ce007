package controllers

import (
	"net/http"

	"github.com/aulaeco/recicla-backend/api/middleware"
	"github.com/aulaeco/recicla-backend/api/responses"
	"github.com/aulaeco/recicla-backend/api/validators"
	"github.com/aulaeco/recicla-backend/internal/ledger"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	pkgerrors "github.com/aulaeco/recicla-backend/pkg/errors"
	"github.com/aulaeco/recicla-backend/pkg/logger"
)

// Stats returns per-material totals. Admins see the whole ledger, other
// users only their own records.
func Stats(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
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

		var totals []ledger.MaterialTotal
		if middleware.RoleFromContext(r.Context()) == models.RoleAdmin {
			totals, err = svc.LedgerStats(r.Context(), from)
		} else {
			totals, err = svc.UserStats(r.Context(), userID, from)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// GlobalStats returns the whole-ledger rollup with ecological equivalents.
func GlobalStats(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseFromDate(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := svc.GlobalStats(r.Context(), from)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// Evolution returns the monthly series. Admins see the whole ledger, other
// users only their own records.
func Evolution(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
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

		var series []ledger.MonthTotal
		if middleware.RoleFromContext(r.Context()) == models.RoleAdmin {
			series, err = svc.GlobalEvolution(r.Context(), from)
		} else {
			series, err = svc.Evolution(r.Context(), userID, from)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, series)
	}
}
