// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/tapecar-backend/internal/config"
)

// EmailService renders and sends transactional order emails over SMTP.
// Templates are compiled once at construction.
type EmailService struct {
	config    *config.Config
	logger    *logrus.Logger
	templates map[string]*template.Template
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	service := &EmailService{
		config:    cfg,
		logger:    logger,
		templates: make(map[string]*template.Template),
	}

	service.templates["order_confirmation"] = template.Must(
		template.New("order_confirmation").Parse(orderConfirmationTemplate))
	service.templates["admin_order_notification"] = template.Must(
		template.New("admin_order_notification").Parse(adminOrderNotificationTemplate))

	return service
}

// SendEmail sends an email, or logs it when SMTP is disabled (local
// development).
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if s.config.External.Email.SMTPDisabled {
		s.logger.WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
		}).Info("SMTP disabled, skipping email delivery")
		return nil
	}
	return s.sendSMTPEmail(email)
}

// SendOrderConfirmation emails the buyer that their payment was
// received and the order is being prepared.
func (s *EmailService) SendOrderConfirmation(ctx context.Context, data OrderEmailData) error {
	s.fillDefaults(&data)

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{data.Email},
		Subject:     fmt.Sprintf("Pedido confirmado - %s", data.OrderNumber),
		HTMLContent: htmlContent,
	})
}

// SendAdminOrderNotification emails the store operator that a paid
// order needs fulfilment.
func (s *EmailService) SendAdminOrderNotification(ctx context.Context, data OrderEmailData) error {
	s.fillDefaults(&data)

	htmlContent, err := s.renderTemplate("admin_order_notification", data)
	if err != nil {
		return fmt.Errorf("failed to render admin notification template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{s.config.External.Email.AdminEmail},
		Subject:     fmt.Sprintf("Novo pedido pago - %s", data.OrderNumber),
		HTMLContent: htmlContent,
	})
}

func (s *EmailService) fillDefaults(data *OrderEmailData) {
	if data.StoreName == "" {
		data.StoreName = s.config.App.CompanyName
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}
}

func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.StoreName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
    <h1 style="color: #333;">{{.StoreName}}</h1>
    <p>Olá {{.CustomerName}},</p>
    <p>Recebemos o pagamento do seu pedido <strong>{{.OrderNumber}}</strong> e já estamos preparando tudo.</p>
    <table style="width: 100%; border-collapse: collapse;">
      <tr style="border-bottom: 1px solid #ddd;">
        <th style="text-align: left; padding: 8px;">Produto</th>
        <th style="text-align: center; padding: 8px;">Qtd</th>
        <th style="text-align: right; padding: 8px;">Preço</th>
      </tr>
      {{range .Items}}
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 8px;">{{.Title}}{{if .Year}} ({{.Year}}){{end}}</td>
        <td style="text-align: center; padding: 8px;">{{.Quantity}}</td>
        <td style="text-align: right; padding: 8px;">{{.UnitPrice}}</td>
      </tr>
      {{end}}
    </table>
    <p style="text-align: right;">
      Subtotal: {{.Subtotal}}<br>
      Frete ({{.ShippingName}}): {{.ShippingCost}}<br>
      <strong>Total: {{.Total}}</strong>
    </p>
    {{if .Pickup}}
    <p>Retirada na loja: entraremos em contato quando o pedido estiver pronto.</p>
    {{else}}
    <p>Endereço de entrega:<br>{{.Address}}</p>
    {{end}}
    <p>Obrigado pela preferência!</p>
    <hr>
    <p style="font-size: 12px; color: #666;">© {{.Year}} {{.StoreName}}.</p>
  </div>
</body>
</html>`

const adminOrderNotificationTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.StoreName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto;">
    <h2>Novo pedido pago: {{.OrderNumber}}</h2>
    <p>
      Cliente: {{.CustomerName}} (CPF {{.CustomerCPF}})<br>
      Email: {{.Email}}<br>
      Telefone: {{.Phone}}
    </p>
    <table style="width: 100%; border-collapse: collapse;">
      <tr style="border-bottom: 1px solid #ddd;">
        <th style="text-align: left; padding: 8px;">Produto</th>
        <th style="text-align: center; padding: 8px;">Qtd</th>
        <th style="text-align: right; padding: 8px;">Preço</th>
      </tr>
      {{range .Items}}
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 8px;">{{.Title}}{{if .Year}} ({{.Year}}){{end}}</td>
        <td style="text-align: center; padding: 8px;">{{.Quantity}}</td>
        <td style="text-align: right; padding: 8px;">{{.UnitPrice}}</td>
      </tr>
      {{end}}
    </table>
    <p>
      Subtotal: {{.Subtotal}}<br>
      Frete ({{.ShippingName}}): {{.ShippingCost}}<br>
      <strong>Total: {{.Total}}</strong>
    </p>
    {{if .Pickup}}
    <p><strong>Retirada na loja.</strong></p>
    {{else}}
    <p>Entrega:<br>{{.Address}}</p>
    {{end}}
  </div>
</body>
</html>`
