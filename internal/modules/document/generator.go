package document

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"hotel/internal/domain"
)

var ErrIncompleteBooking = errors.New("booking is missing room or guest data")

// Generator renders booking documents as single page A4 PDFs.
type Generator struct {
	hotelName string
	taxID     string
	now       func() time.Time
}

func NewGenerator(hotelName, taxID string) *Generator {
	return &Generator{hotelName: hotelName, taxID: taxID, now: time.Now}
}

func (g *Generator) Confirmation(b *domain.Booking) ([]byte, error) {
	if err := complete(b); err != nil {
		return nil, err
	}
	d := g.newDoc("Booking Confirmation")
	d.title("Booking Confirmation for Your Stay at " + g.hotelName)
	d.text("Dear " + b.User.LastName + ",")
	d.text("Thank you for choosing the " + g.hotelName + ". Here are your booking details:")
	d.gap()

	d.heading("Guest Details")
	d.row("Name", b.User.FullName())
	d.row("Email", b.User.Email)
	d.row("Phone", b.User.Phone)
	d.gap()

	d.heading("Booking Details")
	d.row("Booking Number", b.BookingNumber)
	d.row("Room", b.Room.Name)
	d.row("Check-in", b.StartDate.Format(time.DateOnly))
	d.row("Check-out", b.EndDate.Format(time.DateOnly))
	d.row("Nights", fmt.Sprint(b.Charges().Nights))
	d.row("Payment", paymentLabel(b.Paid))
	return d.bytes()
}

func (g *Generator) Invoice(b *domain.Booking) ([]byte, error) {
	if err := complete(b); err != nil {
		return nil, err
	}
	charges := b.Charges()
	invoiceDate := g.now()
	if b.InvoiceDate != nil {
		invoiceDate = *b.InvoiceDate
	}

	d := g.newDoc("Invoice")
	d.title("Invoice " + b.InvoiceNumber)
	d.row("Hotel", g.hotelName)
	d.row("Tax ID", g.taxID)
	d.row("Invoice Date", invoiceDate.Format(time.DateOnly))
	d.row("Booking Number", b.BookingNumber)
	d.row("Billed To", b.User.FullName())
	d.gap()

	d.heading("Charges")
	d.row("Room", b.Room.Name)
	d.row("Stay", b.StartDate.Format(time.DateOnly)+" to "+b.EndDate.Format(time.DateOnly))
	d.row("Nights", fmt.Sprint(charges.Nights))
	d.row("Price per Night", money(b.Room.Price))
	d.row("Net Amount", money(charges.Net))
	d.row(fmt.Sprintf("Tax (%.0f%%)", domain.TaxRate*100), money(charges.Tax))
	d.row("Total Amount", money(charges.Total))
	d.gap()
	d.text("Payment status: " + paymentLabel(b.Paid))
	return d.bytes()
}

func (g *Generator) CancellationReceipt(b *domain.Booking) ([]byte, error) {
	if err := complete(b); err != nil {
		return nil, err
	}
	cancelled := g.now()
	if b.CancellationDate != nil {
		cancelled = *b.CancellationDate
	}

	d := g.newDoc("Cancellation Receipt")
	d.title("Booking Cancellation")
	d.text("Dear " + b.User.LastName + ",")
	d.text("your booking at the " + g.hotelName + " has been cancelled.")
	d.gap()

	d.heading("Cancellation Details")
	d.row("Booking Number", b.BookingNumber)
	d.row("Room", b.Room.Name)
	d.row("Booking Period", b.StartDate.Format(time.DateOnly)+" to "+b.EndDate.Format(time.DateOnly))
	d.row("Cancelled On", cancelled.Format(time.DateOnly))
	if b.Paid {
		d.row("Refund", money(b.Charges().Total))
	}
	return d.bytes()
}

func complete(b *domain.Booking) error {
	if b == nil || b.Room == nil || b.User == nil {
		return ErrIncompleteBooking
	}
	return nil
}

func paymentLabel(paid bool) string {
	if paid {
		return "paid"
	}
	return "due on arrival"
}

func money(v float64) string {
	return fmt.Sprintf("%.2f EUR", v)
}

// doc wraps the fpdf calls shared by all layouts.
type doc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (g *Generator) newDoc(title string) *doc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor(g.hotelName, true)
	pdf.SetCreationDate(g.now())
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	return &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *doc) title(s string) {
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.MultiCell(0, 8, d.tr(s), "", "L", false)
	d.pdf.Ln(6)
}

func (d *doc) heading(s string) {
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.CellFormat(0, 7, d.tr(s+":"), "", 1, "L", false, 0, "")
}

func (d *doc) text(s string) {
	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.MultiCell(0, 6, d.tr(s), "", "L", false)
}

func (d *doc) row(label, value string) {
	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.CellFormat(50, 6, d.tr(label+":"), "", 0, "L", false, 0, "")
	d.pdf.CellFormat(0, 6, d.tr(value), "", 1, "L", false, 0, "")
}

func (d *doc) gap() {
	d.pdf.Ln(6)
}

func (d *doc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
