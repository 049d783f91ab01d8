package handler

import (
	"net/http"

	"notcluely/internal/conflicts/service"
	httputil "notcluely/pkg/http"
	"notcluely/pkg/logger"
	"notcluely/pkg/middleware"
	"notcluely/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ConflictHandler struct {
	service service.ConflictService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewConflictHandler(service service.ConflictService, auth *middleware.Authenticator, log *logger.Logger) *ConflictHandler {
	return &ConflictHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *ConflictHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "Authentication required"})
		return
	}

	conflicts, err := h.service.ListUnresolved(r.Context(), ident)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if conflicts == nil {
		conflicts = []*model.Conflict{}
	}
	if err := httputil.WriteSuccess(w, conflicts); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *ConflictHandler) Resolve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Resolve(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Resolve", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]bool{"success": true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Resolve", "error", err)
	}
}

func (h *ConflictHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/conflicts", h.auth.Require(h.List))
	router.PUT("/api/conflicts/:id/resolve", h.auth.Require(h.Resolve))
}
