package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/routewise/pmconfig/internal/domain"
)

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError writes a JSON error response, detecting domain.AppError for
// status codes. Validation error lists are included item by item so clients
// see every problem at once.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		body := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		var verrs domain.ValidationErrors
		if errors.As(appErr.Cause, &verrs) {
			items := make([]map[string]string, len(verrs))
			for i, fe := range verrs {
				items[i] = map[string]string{"field": fe.Field, "message": fe.Msg}
			}
			body["errors"] = items
		}
		RespondJSON(w, appErr.Status, body)
		return
	}
	RespondJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    "INTERNAL_ERROR",
		"message": "internal server error",
	})
}

// DecodeJSON reads and decodes a JSON request body into dst, capped at 1 MiB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}
