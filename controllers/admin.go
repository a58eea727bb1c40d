package controllers

import (
	"net/http"
	"strconv"

	"github.com/Masood0319/Startups-platform/services"
	"github.com/Masood0319/Startups-platform/utils"
)

type AdminController struct {
	Reconciler *services.Reconciler
}

func NewAdminController(rec *services.Reconciler) *AdminController {
	return &AdminController{Reconciler: rec}
}

// GET  /api/admin/reconcile?limit=   reports orphaned investments
// POST /api/admin/reconcile?limit=   also creates their missing contracts
func (c *AdminController) Reconcile(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	repair := r.Method == http.MethodPost
	report, err := c.Reconciler.Run(r.Context(), repair, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	msg := "Reconciliation report"
	if repair {
		msg = "Reconciliation complete"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: msg, Data: report})
}
