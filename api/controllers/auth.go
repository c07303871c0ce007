package controllers

import (
	"net/http"

	"github.com/aulaeco/recicla-backend/api/responses"
	"github.com/aulaeco/recicla-backend/api/validators"
	"github.com/aulaeco/recicla-backend/internal/auth"
	"github.com/aulaeco/recicla-backend/pkg/logger"
)

// AuthLogin exchanges credentials for an access token.
func AuthLogin(authService auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := authService.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
