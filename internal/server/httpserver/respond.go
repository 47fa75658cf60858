package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/dmitrijs2005/knowledgehub/internal/logging"
)

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Success: status < 400, Message: msg})
}

// writeError maps a service error to a response. Anything unrecognised is
// logged and answered with the generic fallback; internal detail never
// reaches the client.
func writeError(ctx context.Context, l logging.Logger, w http.ResponseWriter, err error, notFound, fallback string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: ve.Message, Field: ve.Field})
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrStorageUnavailable):
		l.Error(ctx, "object storage is not configured")
		writeMessage(w, http.StatusInternalServerError, common.ErrStorageUnavailable.Error())
	default:
		l.Error(ctx, fallback, "error", err)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}
