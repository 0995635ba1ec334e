/*
Package resp writes the JSON envelope shared by the room inspection endpoints.

Successful reads carry code 0 and their data. Failures carry the errs code, its
player-facing message and its HTTP status, so REST clients see the same codes
that websocket acks use.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"triviaroom/internal/pkg/errs"
	"triviaroom/internal/pkg/logx"
)

// JSONResponse is the envelope of every REST response.
type JSONResponse struct {
	// Code is 0 on success, an errs code otherwise.
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// RespondJSON writes payload with httpStatus. An unencodable payload becomes a plain 500.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Failed to encode JSON response", "path", r.URL.Path, "http_status", httpStatus)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	if _, err := w.Write(response); err != nil {
		logx.Warn("Failed to write JSON response", "path", r.URL.Path, "error", err.Error())
	}
}

// RespondSuccess wraps data in a 200 envelope.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusOK, JSONResponse{Message: "success", Data: data})
}

// RespondError writes customErr with its own status. A nil error is reported as ErrUnknown.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

// RespondErr classifies err through the errs package before responding.
// Errors outside the taxonomy become ErrUnknown.
func RespondErr(w http.ResponseWriter, r *http.Request, err error) {
	RespondError(w, r, errs.From(err))
}
