package finalizer

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	digitorus_pdf "github.com/digitorus/pdf"
	"github.com/digitorus/pdfsign/sign"
	"github.com/sunthewhat/multisign-api/common"
)

// ArtifactSigner applies the platform's x509 certification signature to the
// final artifact PDF. Disabled deployments pass artifacts through unsigned.
type ArtifactSigner struct {
	certificate *x509.Certificate
	privateKey  *rsa.PrivateKey
	enabled     bool
}

func NewArtifactSigner() (*ArtifactSigner, error) {
	if common.Config.SigningEnabled == nil || !*common.Config.SigningEnabled {
		slog.Info("Artifact PDF signing disabled in configuration")
		return &ArtifactSigner{enabled: false}, nil
	}

	if common.Config.SigningCertPath == nil || common.Config.SigningKeyPath == nil {
		return nil, fmt.Errorf("signing enabled but certificate or key path not configured")
	}

	certPath := *common.Config.SigningCertPath
	keyPath := *common.Config.SigningKeyPath

	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file %s: %w", certPath, err)
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil {
		return nil, fmt.Errorf("failed to decode certificate PEM from %s", certPath)
	}

	certificate, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file %s: %w", keyPath, err)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, fmt.Errorf("failed to decode private key PEM from %s", keyPath)
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
	if err != nil {
		// Try PKCS8 format as fallback
		key, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		var ok bool
		privateKey, ok = key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is not RSA format")
		}
	}

	slog.Info("Artifact signer initialized",
		"cert_subject", certificate.Subject.String(),
		"cert_expiry", certificate.NotAfter)

	return &ArtifactSigner{
		certificate: certificate,
		privateKey:  privateKey,
		enabled:     true,
	}, nil
}

// SignPDF certifies the artifact PDF. A signing failure degrades to the
// unsigned PDF rather than failing finalization; the content hash and
// per-signer signatures inside the artifact stay verifiable either way.
func (s *ArtifactSigner) SignPDF(pdfBytes []byte, requestId string) ([]byte, error) {
	if !s.enabled {
		return pdfBytes, nil
	}

	if s.privateKey == nil || s.certificate == nil {
		slog.Error("Artifact signer misconfigured, returning unsigned PDF", "requestId", requestId)
		return pdfBytes, nil
	}
	if len(pdfBytes) == 0 {
		return pdfBytes, fmt.Errorf("empty PDF bytes")
	}

	signData := sign.SignData{
		Signature: sign.SignDataSignature{
			Info: sign.SignDataSignatureInfo{
				Name:     "MultiSign Platform",
				Location: "Multi-party Signing Service",
				Reason:   fmt.Sprintf("Completion certification for signing request %s", requestId),
				Date:     time.Now(),
			},
			CertType:   sign.CertificationSignature,
			DocMDPPerm: sign.AllowFillingExistingFormFieldsAndSignaturesPerms,
		},
		Signer:      s.privateKey,
		Certificate: s.certificate,
	}

	inputReader := bytes.NewReader(pdfBytes)
	var outputBuffer bytes.Buffer

	var signingError error
	func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic occurred during PDF signing", "panic", r, "requestId", requestId)
			}
		}()

		pdfReader, err := digitorus_pdf.NewReader(inputReader, int64(len(pdfBytes)))
		if err != nil {
			slog.Error("Failed to create PDF reader", "error", err, "requestId", requestId)
			signingError = err
			return
		}

		inputReader.Seek(0, io.SeekStart)

		signingError = sign.Sign(inputReader, &outputBuffer, pdfReader, int64(len(pdfBytes)), signData)
	}()

	if signingError != nil || outputBuffer.Len() == 0 {
		slog.Warn("PDF signing failed, returning unsigned artifact",
			"error", signingError,
			"requestId", requestId)
		return pdfBytes, nil
	}

	slog.Info("Artifact PDF signed", "requestId", requestId, "size", outputBuffer.Len())

	return outputBuffer.Bytes(), nil
}
