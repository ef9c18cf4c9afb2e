package http

import (
	"encoding/json"
	"net/http"

	domain "github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/dannyaudian/payroll-indonesia-go/internal/handler/http/response"
	taxservice "github.com/dannyaudian/payroll-indonesia-go/internal/service/tax"
)

type TaxHandler interface {
	Categorize(w http.ResponseWriter, r *http.Request)
	CalculateProgressive(w http.ResponseWriter, r *http.Request)
	CalculateTER(w http.ResponseWriter, r *http.Request)
	CalculateDecember(w http.ResponseWriter, r *http.Request)
	CalculateDecemberFromSlips(w http.ResponseWriter, r *http.Request)
	CalculateBPJS(w http.ResponseWriter, r *http.Request)
}

type taxHandlerImpl struct {
	taxService *taxservice.Service
}

func NewTaxHandler(taxService *taxservice.Service) TaxHandler {
	return &taxHandlerImpl{taxService: taxService}
}

func (h *taxHandlerImpl) Categorize(w http.ResponseWriter, r *http.Request) {
	var req domain.CategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CategorizeSlip(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) CalculateProgressive(w http.ResponseWriter, r *http.Request) {
	var req domain.ProgressiveTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CalculateProgressive(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) CalculateTER(w http.ResponseWriter, r *http.Request) {
	var req domain.TERTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CalculateTER(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) CalculateDecember(w http.ResponseWriter, r *http.Request) {
	var req domain.DecemberTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CalculateDecember(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) CalculateDecemberFromSlips(w http.ResponseWriter, r *http.Request) {
	var req domain.DecemberFromSlipsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CalculateDecemberFromSlips(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) CalculateBPJS(w http.ResponseWriter, r *http.Request) {
	var req domain.BPJSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CalculateBPJS(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
