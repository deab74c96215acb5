package service

import (
	"bytes"
	"fmt"

	"lms_backend/internal/model"

	"github.com/jung-kurt/gofpdf"
)

// RenderCertificatePDF produces the printable certificate document.
func RenderCertificatePDF(certificate *model.Certificate, studentName, courseTitle string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetDrawColor(60, 60, 120)
	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, 277, 190, "D")

	pdf.SetFont("Arial", "B", 28)
	pdf.CellFormat(0, 20, "Certificate of Completion", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 10, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 15, studentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 14)
	pdf.CellFormat(0, 10, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 14, courseTitle, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Certificate No: %s", certificate.CertificateNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Issued on: %s", certificate.IssuedAt.Format("January 2, 2006")), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "I", 9)
	pdf.Ln(6)
	pdf.CellFormat(0, 6, fmt.Sprintf("Verify at: %s", certificate.VerificationURL), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
