package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/annual"
	"github.com/dannyaudian/payroll-indonesia-go/internal/handler/http/response"
	"github.com/dannyaudian/payroll-indonesia-go/internal/service/history"
	"github.com/go-chi/chi/v5"
)

type HistoryHandler interface {
	Sync(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	CascadeCancel(w http.ResponseWriter, r *http.Request)
}

type historyHandlerImpl struct {
	historyService *history.Service
}

func NewHistoryHandler(historyService *history.Service) HistoryHandler {
	return &historyHandlerImpl{historyService: historyService}
}

func (h *historyHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	var req annual.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	historyID, err := h.historyService.Sync(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{"history_id": historyID})
}

func (h *historyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employee := chi.URLParam(r, "employee")
	fiscalYear, err := strconv.Atoi(chi.URLParam(r, "fiscal_year"))
	if err != nil {
		response.BadRequest(w, "Invalid fiscal year", nil)
		return
	}

	result, err := h.historyService.Get(r.Context(), employee, fiscalYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *historyHandlerImpl) CascadeCancel(w http.ResponseWriter, r *http.Request) {
	var req annual.CancelCascadeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.historyService.CascadeCancel(r.Context(), &req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Annual payroll history cancelled", nil)
}
