package httpjson

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Writer renders JSON responses. When exposeDetails is set, internal
// failures carry the underlying error text in a "details" field.
type Writer struct {
	logger        *slog.Logger
	exposeDetails bool
}

func NewWriter(logger *slog.Logger, exposeDetails bool) *Writer {
	return &Writer{
		logger:        logger,
		exposeDetails: exposeDetails,
	}
}

func (o *Writer) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		o.logger.Error("failed to encode response", "error", err)
	}
}

func (o *Writer) Error(w http.ResponseWriter, status int, message string) {
	o.JSON(w, status, map[string]string{"error": message})
}

// Internal writes a 500 response for a storage or other unexpected failure.
func (o *Writer) Internal(w http.ResponseWriter, message string, err error) {
	body := map[string]string{"error": message}
	if o.exposeDetails && err != nil {
		body["details"] = err.Error()
	}
	o.JSON(w, http.StatusInternalServerError, body)
}

// Message writes a {"message": ...} body.
func (o *Writer) Message(w http.ResponseWriter, status int, message string) {
	o.JSON(w, status, map[string]string{"message": message})
}
