package handler

import (
	"net/http"

	httputil "notcluely/pkg/http"
	"notcluely/pkg/logger"
	"notcluely/pkg/timezone"

	"github.com/julienschmidt/httprouter"
)

// TimezoneHandler serves the zone labels the timezone picker offers.
// Unauthenticated: the list is static and public.
type TimezoneHandler struct {
	log *logger.Logger
}

func NewTimezoneHandler(log *logger.Logger) *TimezoneHandler {
	return &TimezoneHandler{log: log}
}

func (h *TimezoneHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, map[string][]string{
		"timezones": timezone.Names(),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *TimezoneHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/timezones", h.List)
}
