package controllers

import (
	"net/http"

	"github.com/Masood0319/Startups-platform/compliance"
	"github.com/Masood0319/Startups-platform/middleware"
	"github.com/Masood0319/Startups-platform/services"
	"github.com/Masood0319/Startups-platform/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type previewParty struct {
	ID    string `json:"id" validate:"max=64"`
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"max=254"`
}

type previewRequest struct {
	Amount   interface{}            `json:"amount"`
	Investor previewParty           `json:"investor" validate:"dive"`
	Startup  previewParty           `json:"startup" validate:"dive"`
	Terms    map[string]interface{} `json:"terms"`
	Archive  bool                   `json:"archive"`
}

type previewResponse struct {
	Success  bool   `json:"success"`
	Preview  string `json:"preview"`
	Archived bool   `json:"archived"`
	Key      string `json:"key,omitempty"`
	URL      string `json:"url,omitempty"`
}

// POST /api/investments/{type}/preview
func (c *InvestmentController) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	text := c.Service.Preview(r.Context(), mux.Vars(r)["type"], services.PreviewRequest{
		Amount:   req.Amount,
		Investor: compliance.Party(req.Investor),
		Startup:  compliance.Party(req.Startup),
		Terms:    req.Terms,
	})
	resp := previewResponse{Success: true, Preview: text}

	if req.Archive && c.Archive != nil {
		key, url, err := c.Archive.Archive(r.Context(), text)
		if err != nil {
			// the preview itself is still useful without the link
			rid, _ := r.Context().Value(utils.RequestIDKey).(string)
			utils.Logger.Warn("preview archive failed", zap.String("request_id", rid), zap.Error(err))
		} else {
			resp.Archived, resp.Key, resp.URL = true, key, url
		}
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
