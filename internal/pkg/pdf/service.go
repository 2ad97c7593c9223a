// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/pharmacy-backend/internal/config"
	"github.com/your-org/pharmacy-backend/internal/domain/order"
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
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         o,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
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

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	Order         *order.Order `json:"order"`
	Company       CompanyInfo  `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
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
        .invoice-details td {
            padding: 5px 10px 5px 0;
        }
        .addresses {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th {
            background: #f8fafc;
            text-align: left;
            padding: 10px;
            border-bottom: 2px solid #e2e8f0;
        }
        .items-table td {
            padding: 10px;
            border-bottom: 1px solid #e2e8f0;
        }
        .totals {
            width: 300px;
            margin-left: auto;
        }
        .totals td {
            padding: 5px 10px;
        }
        .totals .grand-total {
            font-weight: bold;
            font-size: 16px;
            border-top: 2px solid #333;
        }
        .status {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 4px;
            background: #ecfdf5;
            color: #047857;
            text-transform: uppercase;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <div class="invoice-title">{{.Company.Name}}</div>
            <div>{{.Company.Address}}</div>
            <div>{{.Company.Email}}</div>
        </div>
        <div style="text-align: right;">
            <div class="invoice-title">INVOICE</div>
            <table class="invoice-details">
                <tr><td>Invoice #:</td><td>{{.InvoiceNumber}}</td></tr>
                <tr><td>Date:</td><td>{{.InvoiceDate}}</td></tr>
                <tr><td>Order #:</td><td>{{.Order.OrderNumber}}</td></tr>
                <tr><td>Status:</td><td><span class="status">{{.Order.Status}}</span></td></tr>
            </table>
        </div>
    </div>

    <div class="addresses">
        <div>
            <strong>Bill To:</strong><br/>
            {{.Order.ShippingAddress.Name}}<br/>
            {{.Order.ShippingAddress.AddressLine1}}<br/>
            {{if .Order.ShippingAddress.AddressLine2}}{{.Order.ShippingAddress.AddressLine2}}<br/>{{end}}
            {{.Order.ShippingAddress.City}}{{if .Order.ShippingAddress.State}}, {{.Order.ShippingAddress.State}}{{end}} {{.Order.ShippingAddress.PostalCode}}<br/>
            {{.Order.ShippingAddress.Country}}<br/>
            {{.Order.ShippingAddress.Email}} | {{.Order.ShippingAddress.Phone}}
        </div>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>#</th>
                <th>Item</th>
                <th>Quantity</th>
            </tr>
        </thead>
        <tbody>
            {{range $i, $item := .Order.Items}}
            <tr>
                <td>{{$item.ProductID}}-{{$item.VariantID}}</td>
                <td>{{$item.Name}}</td>
                <td>{{$item.Quantity}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal:</td><td>{{.Order.Currency}} {{.Order.TotalPrice}}</td></tr>
        <tr><td>Delivery:</td><td>{{.Order.Currency}} {{.Order.DeliveryCharge}}</td></tr>
        <tr class="grand-total"><td>Total:</td><td>{{.Order.Currency}} {{.Order.TotalCartPrice}}</td></tr>
    </table>
</body>
</html>
`
