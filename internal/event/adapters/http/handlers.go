package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pulseops/eventpulse/internal/event/application"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req application.CreateEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.service.CreateEvent(r.Context(), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "create_event", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListEvents(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "list_events", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "event_id"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "get_event", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) setEventActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "is_active is required")
		return
	}
	if err := h.service.SetEventActive(r.Context(), chi.URLParam(r, "event_id"), *req.IsActive); err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "set_event_active", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "event updated")
}

func (h *Handler) createReward(w http.ResponseWriter, r *http.Request) {
	var req application.CreateRewardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.service.CreateReward(r.Context(), chi.URLParam(r, "event_id"), req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "create_reward", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) listRewards(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListRewardsByEvent(r.Context(), chi.URLParam(r, "event_id"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "list_rewards", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) createRewardRequest(w http.ResponseWriter, r *http.Request) {
	var claim application.RewardClaim
	if err := decodeBody(r, &claim); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.service.CreateRewardRequest(r.Context(), chi.URLParam(r, "event_id"), claim)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "create_reward_request", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) listRequestsByEvent(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RewardRequestsByEvent(r.Context(), chi.URLParam(r, "event_id"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "list_requests_by_event", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listRequestsByUser(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RewardRequestsByUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "list_requests_by_user", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listRequestsByStatus(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status query parameter is required")
		return
	}
	res, err := h.service.RewardRequestsByStatus(r.Context(), status)
	if err != nil {
		statusCode, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "list_requests_by_status", statusCode, code, msg, err)
		writeError(w, statusCode, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) updateRequestStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.service.UpdateRewardRequestStatus(r.Context(), chi.URLParam(r, "request_id"), req.Status)
	if err != nil {
		status, code, msg := mapDomainError(err)
		logHTTPOperationError(r.Context(), "update_request_status", status, code, msg, err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
