package email

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/httpjson"
	"github.com/joao-fontenele/storefront/internal/validation"
)

// Handler is a simulated mailer: it validates the message, waits for a
// random delivery delay and logs it.
type Handler struct {
	out      *httpjson.Writer
	validate *validatorv10.Validate
	logger   *slog.Logger
	minDelay time.Duration
	maxDelay time.Duration
}

type Option func(*Handler)

// WithDelay sets the bounds of the simulated delivery latency.
func WithDelay(minDelay, maxDelay time.Duration) Option {
	return func(h *Handler) {
		h.minDelay = minDelay
		h.maxDelay = maxDelay
	}
}

func NewHandler(out *httpjson.Writer, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		out:      out,
		validate: validation.New(),
		logger:   logger,
		minDelay: 50 * time.Millisecond,
		maxDelay: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type sendRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body"`
}

type sendResponse struct {
	Status string `json:"status"`
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := validation.DecodeAndValidate(r, &req, h.validate); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.out.Error(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.out.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	select {
	case <-time.After(h.delay()):
	case <-r.Context().Done():
		h.logger.Warn("email delivery aborted", "to", req.To, "error", r.Context().Err())
		return
	}

	h.logger.Info("email sent", "to", req.To, "subject", req.Subject, "body_bytes", len(req.Body))

	h.out.JSON(w, http.StatusOK, sendResponse{Status: "sent"})
}

func (h *Handler) delay() time.Duration {
	if h.maxDelay <= h.minDelay {
		return h.minDelay
	}
	return h.minDelay + rand.N(h.maxDelay-h.minDelay+1)
}
