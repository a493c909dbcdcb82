package booking

import (
	"bytes"
	"fmt"

	"tourdesk/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Receipt renders b as a one page PDF with a QR code for the chat link.
func (s *Service) Receipt(b models.Booking) ([]byte, error) {
	qrPNG, err := qrcode.Encode(s.ChatLink(b), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking "+b.ID, true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Request")
	pdf.Ln(12)

	// The core fonts are cp1252; the rupee sign is not in it.
	rows := [][2]string{
		{"Booking ID", b.ID},
		{"Tour Package", b.TourName},
		{"Name", b.FullName},
		{"Contact Number", b.Phone},
		{"Number of Persons", fmt.Sprint(b.MaxGroupSize)},
		{"Price per Person", "INR " + formatPrice(b.UnitPrice)},
		{"Total Price", "INR " + formatPrice(b.TotalPrice)},
		{"Travel Date", b.Date},
		{"Requested", b.CreatedAt.Format("02 Jan 2006 15:04")},
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(50, 8, row[0]+":")
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, tr(row[1]))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 6, "Scan the code to continue the booking on WhatsApp. Nothing has been charged.", "", "L", false)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
