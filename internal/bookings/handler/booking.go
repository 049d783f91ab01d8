package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"notcluely/internal/bookings/service"
	apperrors "notcluely/pkg/errors"
	httputil "notcluely/pkg/http"
	"notcluely/pkg/logger"
	"notcluely/pkg/middleware"
	"notcluely/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type createRequest struct {
	Title        string `json:"title"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Notes        string `json:"notes"`
	UserTimezone string `json:"user_timezone"`
}

// createResponse is the created booking with the conflict outcome of this
// creation attached.
type createResponse struct {
	*model.Booking
	HasConflicts bool `json:"has_conflicts"`
}

type BookingHandler struct {
	service service.BookingService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, auth *middleware.Authenticator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	input, err := req.toInput()
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	booking, conflicts, err := h.service.Create(r.Context(), ident, input)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, createResponse{Booking: booking, HasConflicts: len(conflicts) > 0}); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "Authentication required"})
		return
	}

	bookings, err := h.service.List(r.Context(), ident)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.service.Delete(r.Context(), ident, ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]bool{"success": true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "error", err)
	}
}

func (r *createRequest) toInput() (*service.CreateInput, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, apperrors.Validation("Invalid start_time, must be RFC3339", map[string]any{"start_time": r.StartTime})
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, apperrors.Validation("Invalid end_time, must be RFC3339", map[string]any{"end_time": r.EndTime})
	}

	return &service.CreateInput{
		Title:        r.Title,
		StartTime:    start,
		EndTime:      end,
		Notes:        r.Notes,
		UserTimezone: r.UserTimezone,
	}, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/bookings", h.auth.Require(h.List))
	router.POST("/api/bookings", h.auth.Require(h.Create))
	router.DELETE("/api/bookings/:id", h.auth.Require(h.Delete))
}
