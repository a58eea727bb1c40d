package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Masood0319/Startups-platform/middleware"
	"github.com/Masood0319/Startups-platform/services"
	"github.com/Masood0319/Startups-platform/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Archiver stores preview text and returns its object key and a download URL.
type Archiver interface {
	Archive(ctx context.Context, text string) (key string, url string, err error)
}

// InvestmentController serves /api/investments/{type} and the startup compliance check.
type InvestmentController struct {
	Service *services.InvestmentService
	Archive Archiver
}

// NewInvestmentController wires the handlers. archive may be nil when R2 is not configured.
func NewInvestmentController(svc *services.InvestmentService, archive *utils.PreviewArchive) *InvestmentController {
	c := &InvestmentController{Service: svc}
	if archive != nil {
		c.Archive = archive
	}
	return c
}

type createInvestmentRequest struct {
	InvestorID string      `json:"investorId" validate:"max=64"`
	StartupID  string      `json:"startupId" validate:"max=64"`
	Amount     interface{} `json:"amount"`
	Terms      interface{} `json:"terms"`
}

type updateInvestmentRequest struct {
	ID     string      `json:"id"`
	Status string      `json:"status" validate:"max=32"`
	Terms  interface{} `json:"terms"`
	Amount interface{} `json:"amount"`
}

type listResponse struct {
	Success bool        `json:"success"`
	Items   interface{} `json:"items"`
}

type createResponse struct {
	Success bool `json:"success"`
	*services.CreateResult
}

func actorFrom(r *http.Request) *services.Actor {
	if id, ok := utils.GetUserID(r); ok {
		return &services.Actor{ID: id}
	}
	return nil
}

// GET /api/investments/{type}?investorId=&startupId=&id=
func (c *InvestmentController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := c.Service.List(r.Context(), mux.Vars(r)["type"], services.InvestmentFilter{
		InvestorID: q.Get("investorId"),
		StartupID:  q.Get("startupId"),
		ID:         q.Get("id"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, listResponse{Success: true, Items: items})
}

// POST /api/investments/{type}
func (c *InvestmentController) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvestmentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	res, err := c.Service.Create(r.Context(), mux.Vars(r)["type"], actorFrom(r), services.CreateInput{
		InvestorID: req.InvestorID,
		StartupID:  req.StartupID,
		Amount:     req.Amount,
		Terms:      req.Terms,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, createResponse{Success: true, CreateResult: res})
}

// PUT /api/investments/{type}
func (c *InvestmentController) Update(w http.ResponseWriter, r *http.Request) {
	var req updateInvestmentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	err := c.Service.Update(r.Context(), mux.Vars(r)["type"], actorFrom(r), services.UpdateInput{
		ID:     req.ID,
		Status: req.Status,
		Terms:  req.Terms,
		Amount: req.Amount,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true})
}

// DELETE /api/investments/{type}?id=
func (c *InvestmentController) Delete(w http.ResponseWriter, r *http.Request) {
	err := c.Service.Delete(r.Context(), mux.Vars(r)["type"], actorFrom(r), r.URL.Query().Get("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true})
}

// GET /api/startups/{id}/compliance
func (c *InvestmentController) StartupCompliance(w http.ResponseWriter, r *http.Request) {
	res, err := c.Service.CheckStartup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: res})
}

// writeServiceError maps the service error taxonomy onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *services.ValidationError
		nf *services.NotFoundError
	)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.As(err, &ve):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Errors: ve.Messages})
	case errors.As(err, &nf) && nf.Invalid:
		utils.WriteError(w, http.StatusBadRequest, nf.Message)
	case errors.As(err, &nf):
		utils.WriteError(w, http.StatusNotFound, nf.Message)
	default:
		rid, _ := r.Context().Value(utils.RequestIDKey).(string)
		utils.Logger.Error("request failed",
			zap.String("request_id", rid),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
