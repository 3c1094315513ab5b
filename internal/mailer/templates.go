package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`
<h2>Recibo de parqueadero</h2>
<p>Recibo <strong>{{.ReceiptNumber}}</strong></p>
<table>
  <tr><td>Placa</td><td>{{.Plate}}</td></tr>
  <tr><td>Entrada</td><td>{{.EntryTime}}</td></tr>
  <tr><td>Salida</td><td>{{.ExitTime}}</td></tr>
  <tr><td>Duración</td><td>{{.DurationHours}} horas</td></tr>
  <tr><td>Tarifa</td><td>{{.RateName}}</td></tr>
  <tr><td>Subtotal</td><td>${{.Subtotal}}</td></tr>
  {{if .HasDiscount}}<tr><td>Descuento</td><td>-${{.Discount}}</td></tr>{{end}}
  <tr><td><strong>Total</strong></td><td><strong>${{.Total}}</strong></td></tr>
  <tr><td>Medio de pago</td><td>{{.Method}}</td></tr>
</table>
<p>Gracias por su visita.</p>
`))

type receiptData struct {
	ReceiptNumber string
	Plate         string
	EntryTime     string
	ExitTime      string
	DurationHours string
	RateName      string
	Subtotal      string
	Discount      string
	HasDiscount   bool
	Total         string
	Method        string
}

// BuildReceiptEmail renders the receipt email for a settled payment
func BuildReceiptEmail(payment *domain.Payment, vehicle *domain.Vehicle) (subject, body string, err error) {
	const timeLayout = "2006-01-02 15:04"

	exitTime := ""
	if vehicle.ExitTime != nil {
		exitTime = vehicle.ExitTime.In(time.Local).Format(timeLayout)
	}

	data := receiptData{
		ReceiptNumber: payment.ReceiptNumber,
		Plate:         vehicle.Plate,
		EntryTime:     vehicle.EntryTime.In(time.Local).Format(timeLayout),
		ExitTime:      exitTime,
		DurationHours: payment.DurationHours.StringFixed(2),
		RateName:      payment.RateApplied.Name,
		Subtotal:      payment.Subtotal.StringFixed(2),
		Discount:      payment.DiscountAmount.StringFixed(2),
		HasDiscount:   payment.DiscountAmount.GreaterThan(decimal.Zero),
		Total:         payment.Total.StringFixed(2),
		Method:        payment.Method,
	}

	var sb strings.Builder
	if err := receiptTemplate.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render receipt email: %w", err)
	}

	subject = fmt.Sprintf("Recibo %s - Placa %s", payment.ReceiptNumber, vehicle.Plate)
	return subject, sb.String(), nil
}
