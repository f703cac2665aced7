// Package receipt renders payment receipts as PDF documents.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"unistay-backend/internal/domain"
)

const (
	brandName  = "UniStay"
	labelWidth = 55.0
	rowHeight  = 9.0
)

type PDFRenderer struct {
	brand string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{brand: brandName}
}

// Render lays out rec on a single A4 page.
func (r *PDFRenderer) Render(rec *domain.PaymentRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("no payment record to render")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("%s receipt %s", r.brand, rec.TransactionID)), false)
	pdf.SetAuthor(r.brand, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(127, 194, 155)
	pdf.CellFormat(0, 12, r.brand, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Payment Receipt", "B", 1, "L", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Transaction ID", rec.TransactionID},
		{"Payment date", rec.PaymentDate.Format("02 Jan 2006 15:04")},
		{"Paid by", rec.FullName},
		{"Email", rec.Email},
		{"Phone number", rec.PhoneNumber},
		{"Payment method", orDash(rec.PaymentMethod)},
		{"Booking", orDash(rec.BookingTitle)},
		{"Paid to", orDash(rec.ReceiverName)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(labelWidth, rowHeight, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, rowHeight, tr(row[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(labelWidth, 12, "Amount paid", "T", 0, "L", true, 0, "")
	pdf.CellFormat(0, 12, domain.FormatCents(rec.AmountCents), "T", 1, "R", true, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "This receipt was generated electronically and is valid without a signature.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
