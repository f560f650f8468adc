package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/susu3304/slashbot/internal/metrics"
	"github.com/susu3304/slashbot/internal/slash"
	"go.uber.org/zap"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleHook(h Hook) http.HandlerFunc {
	name := h.Command.Name()
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		status := a.serveHook(w, r, h)
		metrics.RequestsTotal.WithLabelValues(name, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

func (a *API) serveHook(w http.ResponseWriter, r *http.Request, h Hook) int {
	req, err := decodeRequest(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		a.logger.Warn("Rejected malformed request",
			zap.String("command", h.Command.Name()),
			zap.String("remote", r.RemoteAddr),
			zap.Error(err),
		)
		writeJSON(w, status, slash.Private("invalid request body"))
		return status
	}

	if !slash.Authorized(req.Token, h.Token) {
		a.logger.Warn("Unauthorized access",
			zap.String("command", h.Command.Name()),
			zap.String("remote", r.RemoteAddr),
		)
		writeJSON(w, http.StatusUnauthorized, slash.Private("Invalid token"))
		return http.StatusUnauthorized
	}

	a.logger.Debug("Slash command received",
		zap.String("command", h.Command.Name()),
		zap.String("remote", r.RemoteAddr),
		zap.String("user", req.UserName),
		zap.String("text", req.Text),
	)

	reply := h.Command.Execute(r.Context(), req)
	if err := writeJSON(w, http.StatusOK, reply); err != nil {
		a.logger.Error("Failed to write reply", zap.String("command", h.Command.Name()), zap.Error(err))
	}
	return http.StatusOK
}
