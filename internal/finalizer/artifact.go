package finalizer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// PDFArtifactBuilder renders the completion certificate: the document hash,
// the full signer table and a QR code pointing at the public verify
// endpoint, optionally x509-signed.
type PDFArtifactBuilder struct {
	verifyHost string
	signer     *ArtifactSigner
}

func NewPDFArtifactBuilder(verifyHost string, signer *ArtifactSigner) *PDFArtifactBuilder {
	return &PDFArtifactBuilder{
		verifyHost: verifyHost,
		signer:     signer,
	}
}

func (b *PDFArtifactBuilder) Build(request *model.SigningRequest, slots []*model.SignerSlot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Signing Completion Certificate", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Request: %s", request.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Document hash: %s", request.DocumentHash), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Initiated by: %s", request.InitiatorID), "", 1, "L", false, 0, "")
	if request.CompletedAt != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Completed at: %s", request.CompletedAt.UTC().Format("2006-01-02 15:04:05 UTC")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(128, 8, "Signer", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Signed at", "1", 1, "L", false, 0, "")

	pdf.SetFont("Courier", "", 8)
	for _, slot := range slots {
		signedAt := ""
		if slot.SignedAt != nil {
			signedAt = slot.SignedAt.UTC().Format("2006-01-02 15:04:05")
		}
		pdf.CellFormat(12, 8, fmt.Sprintf("%d", slot.SignerIndex+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(128, 8, slot.SignerID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, signedAt, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	verifyUrl := fmt.Sprintf("%s/api/public/request/%s/verify", b.verifyHost, request.ID)

	qrPng, err := qrcode.Encode(verifyUrl, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode verify QR code: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("verify-qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 52)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Scan to independently verify every signature of this request.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, verifyUrl, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render artifact PDF: %w", err)
	}

	if b.signer != nil {
		return b.signer.SignPDF(buf.Bytes(), request.ID)
	}

	return buf.Bytes(), nil
}
