package middleware

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/Masood0319/Startups-platform/utils"
)

// ValidateJSON decodes the JSON body into dst, keeping numbers as json.Number,
// and runs utils.ValidateStruct. On failure the error response is already written.
func ValidateJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			utils.WriteError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return http.ErrNotSupported
		}
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return err
	}
	if err := utils.ValidateStruct(dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return err
	}
	return nil
}
