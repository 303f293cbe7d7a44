package mail

import (
	"context"
	"fmt"

	"app/internal/usecase"

	"github.com/resend/resend-go/v2"
)

// Resendで注文メールを送る。
// APIキーが無ければ全件失敗として返す（注文処理は止めない）。
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey string, from string) *ResendSender {
	s := &ResendSender{from: from}
	if apiKey != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

func (s *ResendSender) SendOrderLifecycleEmails(ctx context.Context, data usecase.OrderEmailData) usecase.EmailResults {
	return usecase.EmailResults{
		Confirmation: s.send(ctx,
			data.Email,
			fmt.Sprintf("Order Confirmed - %s", data.OrderNumber),
			confirmationHTML(data),
		),
		Receipt: s.send(ctx,
			data.Email,
			fmt.Sprintf("Receipt for Order %s", data.OrderNumber),
			receiptHTML(data),
		),
	}
}

func (s *ResendSender) send(ctx context.Context, to string, subject string, html string) usecase.EmailResult {
	if s.client == nil {
		return usecase.EmailResult{Success: false, Error: "email sender not configured"}
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return usecase.EmailResult{Success: false, Error: err.Error()}
	}
	return usecase.EmailResult{Success: true, MessageID: sent.Id}
}

func confirmationHTML(data usecase.OrderEmailData) string {
	return fmt.Sprintf(`<h1>Thanks for your order, %s!</h1>
<p>Your order <strong>%s</strong> is confirmed.</p>
<p>Estimated delivery: %s</p>
<p>Shipping to: %s, %s, %s %s, %s</p>`,
		data.CustomerName,
		data.OrderNumber,
		data.EstimatedDelivery,
		data.Shipping.AddressLine1,
		data.Shipping.City,
		data.Shipping.State,
		data.Shipping.PostalCode,
		data.Shipping.Country,
	)
}

func receiptHTML(data usecase.OrderEmailData) string {
	return fmt.Sprintf(`<h1>Receipt for order %s</h1>
<table>
<tr><td>Subtotal</td><td>$%.2f</td></tr>
<tr><td>Shipping</td><td>$%.2f</td></tr>
<tr><td>Tax</td><td>$%.2f</td></tr>
<tr><td><strong>Total</strong></td><td><strong>$%.2f</strong></td></tr>
</table>`,
		data.OrderNumber,
		data.Pricing.Subtotal,
		data.Pricing.Shipping,
		data.Pricing.Tax,
		data.Pricing.Total,
	)
}
