package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/messaging"
)

// Mail is the payload accepted by the mailer's /send endpoint.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ReceiptNotifier turns order.placed events into receipt emails.
type ReceiptNotifier struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewReceiptNotifier(emailServiceURL string, client *http.Client, logger *slog.Logger) *ReceiptNotifier {
	return &ReceiptNotifier{
		emailServiceURL: strings.TrimRight(emailServiceURL, "/"),
		httpClient:      client,
		logger:          logger,
	}
}

func (n *ReceiptNotifier) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w: %w", messaging.ErrUnprocessable, err)
	}

	n.logger.Info("processing order placed event", "order_id", event.OrderID, "items", len(event.Items))

	if err := n.send(ctx, ReceiptMail(event)); err != nil {
		n.logger.Error("failed to send receipt email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send receipt email: %w", err)
	}

	n.logger.Info("receipt sent", "order_id", event.OrderID)
	return nil
}

// ReceiptMail renders the receipt email for event.
func ReceiptMail(event domain.OrderPlacedEvent) Mail {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order %s.\n\n", event.CustomerName, event.OrderID)
	for _, item := range event.Items {
		fmt.Fprintf(&b, "%d x %s @ %s = %s\n", item.Quantity, item.Name, FormatAmount(item.Price), FormatAmount(item.Subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatAmount(event.Total))

	return Mail{
		To:      event.CustomerEmail,
		Subject: "Order Receipt: " + event.OrderID,
		Body:    b.String(),
	}
}

// FormatAmount renders minor currency units with two decimals.
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (n *ReceiptNotifier) send(ctx context.Context, mail Mail) error {
	data, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
