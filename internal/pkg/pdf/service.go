// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/EliasMateo-dev/edm-hardware-backend/internal/config"
	"github.com/EliasMateo-dev/edm-hardware-backend/internal/domain/order"
)

// Service renders order invoices as PDF via wkhtmltopdf.
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service.
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// GenerateInvoice renders a PDF invoice for the given order.
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

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

type invoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	Company       companyInfo
}

type companyInfo struct {
	Name  string
	Email string
}

// money formats a minor-unit amount as "$12.345,67", Argentine style.
func money(cents int64) string {
	whole := cents / 100
	frac := cents % 100
	if frac < 0 {
		frac = -frac
	}

	digits := fmt.Sprintf("%d", whole)
	neg := false
	if digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s,%02d", sign, grouped, frac)
}

func (s *Service) generateHTML(o *order.Order) (string, error) {
	tmpl := template.Must(template.New("invoice").
		Funcs(template.FuncMap{"money": money}).
		Parse(invoiceTemplate))

	data := invoiceData{
		InvoiceNumber: "FAC-" + o.OrderNumber,
		InvoiceDate:   o.CreatedAt.Format("02/01/2006"),
		Order:         o,
		Company: companyInfo{
			Name:  s.config.Store.CompanyName,
			Email: s.config.Store.CompanyEmail,
		},
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const invoiceTemplate = `
<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <title>Factura {{.InvoiceNumber}}</title>
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
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Email}}</p>
        </div>
        <div style="text-align: right;">
            <div class="invoice-title">FACTURA</div>
            <p><strong>N°:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Fecha:</strong> {{.InvoiceDate}}</p>
            <p><strong>Pedido:</strong> {{.Order.OrderNumber}}</p>
        </div>
    </div>

    <p><strong>Cliente:</strong> {{.Order.Name}} ({{.Order.Email}})</p>
    <p><strong>Estado del pago:</strong> {{.Order.Status}}</p>

    <table class="items-table">
        <thead>
            <tr>
                <th>Producto</th>
                <th class="qty-col">Cantidad</th>
                <th class="price-col">Precio</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{.Name}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{money .UnitPrice}}</td>
                <td class="total-col">{{money .TotalPrice}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr class="total-row">
                <td class="label">Total ({{.Order.Currency}}):</td>
                <td class="amount">{{money .Order.TotalAmount}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>¡Gracias por tu compra!</p>
        <p>Ante cualquier consulta escribinos a {{.Company.Email}}</p>
    </div>
</body>
</html>
`
