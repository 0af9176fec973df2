// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/tapecar-backend/internal/config"
	"github.com/your-org/tapecar-backend/internal/domain/order"
	"github.com/your-org/tapecar-backend/internal/domain/pricing"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice generates a PDF invoice for an order
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.Number),
		InvoiceDate:   time.Now().Format("02/01/2006"),
		Order:         o,
		Subtotal:      o.FormattedSubtotal(),
		ShippingCost:  o.FormattedShipping(),
		Total:         o.FormattedTotal(),
		Items:         invoiceItems(o),
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// InvoiceItem is one order line with pre-formatted prices.
type InvoiceItem struct {
	Title     string
	Year      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	Items         []InvoiceItem
	Subtotal      string
	ShippingCost  string
	Total         string
	Company       CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

func invoiceItems(o *order.Order) []InvoiceItem {
	items := make([]InvoiceItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, InvoiceItem{
			Title:     it.Title,
			Year:      it.Year,
			Quantity:  it.Quantity,
			UnitPrice: pricing.FormatMinorUnits(it.UnitPrice),
			LineTotal: pricing.FormatMinorUnits(it.UnitPrice * int64(it.Quantity)),
		})
	}
	return items
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Fatura {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 100px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 120px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
        }
        .status-paid {
            background-color: #dcfce7;
            color: #166534;
        }
        .status-pending {
            background-color: #fef3c7;
            color: #92400e;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Address}}</p>
            <p>Telefone: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
        </div>
        <div class="invoice-info" style="text-align: right;">
            <div class="invoice-title">FATURA</div>
            <p><strong>Fatura:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Data:</strong> {{.InvoiceDate}}</p>
            <p><strong>Pedido:</strong> {{.Order.Number}}</p>
            <p>
                <span class="status-badge {{if eq .Order.Status "paid"}}status-paid{{else}}status-pending{{end}}">
                    {{.Order.Status}}
                </span>
            </p>
        </div>
    </div>

    <div style="margin-bottom: 30px;">
        <div class="section-title">Cliente:</div>
        <p><strong>{{.Order.Customer.Name}}</strong> (CPF {{.Order.Customer.CPF}})</p>
        <p>Email: {{.Order.Customer.Email}}</p>
        {{if .Order.Customer.Phone}}<p>Telefone: {{.Order.Customer.Phone}}</p>{{end}}
        {{if .Order.Customer.Address.Street}}
        <p>
            {{.Order.Customer.Address.Street}}, {{.Order.Customer.Address.Number}}
            {{if .Order.Customer.Address.Complement}} - {{.Order.Customer.Address.Complement}}{{end}}<br>
            {{.Order.Customer.Address.District}} - {{.Order.Customer.Address.City}}/{{.Order.Customer.Address.State}}<br>
            CEP {{.Order.Customer.Address.CEP}}
        </p>
        {{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Produto</th>
                <th class="qty-col">Qtd</th>
                <th class="price-col">Preço</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>
                    <strong>{{.Title}}</strong>
                    {{if .Year}}<br><small>Ano {{.Year}}</small>{{end}}
                </td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{.UnitPrice}}</td>
                <td class="total-col">{{.LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Subtotal}}</td>
            </tr>
            <tr>
                <td class="label">Frete ({{.Order.Shipping.ServiceName}}):</td>
                <td class="amount">{{.ShippingCost}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.Total}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Obrigado pela preferência!</p>
        <p>Dúvidas sobre esta fatura? Fale com a gente em {{.Company.Email}}</p>
    </div>
</body>
</html>
`
