package signing

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/ed25519"
)

// HashDocument computes the canonical content hash of a document: sha256
// over the raw bytes, hex encoded. Every signature in the system is bound
// to this value.
func HashDocument(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SigningMessage builds the exact message a signer must sign:
// requestId || documentHash || signerId. No other message form is accepted,
// which binds a signature to one request, one document and one signer and
// prevents replay across unrelated requests.
func SigningMessage(requestId string, documentHash string, signerId string) []byte {
	msg := make([]byte, 0, len(requestId)+len(documentHash)+len(signerId))
	msg = append(msg, requestId...)
	msg = append(msg, documentHash...)
	msg = append(msg, signerId...)
	return msg
}

// IsValidSignerID reports whether id is a hex encoded ed25519 public key.
func IsValidSignerID(signerId string) bool {
	key, err := hex.DecodeString(signerId)
	return err == nil && len(key) == ed25519.PublicKeySize
}

// VerifySignature checks a base64 signature against a signer identity and a
// message. It fails closed: malformed identity, wrong key length, bad
// encoding or wrong signature length all return false, never an error.
func VerifySignature(signerId string, message []byte, signature string) bool {
	key, err := hex.DecodeString(signerId)
	if err != nil || len(key) != ed25519.PublicKeySize {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(key), message, sig)
}

// Sign produces the base64 signature counterpart of VerifySignature. The
// server never signs on behalf of a signer; this exists for client tooling
// and tests.
func Sign(privateKey ed25519.PrivateKey, message []byte) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(privateKey, message))
}

// SignerIDFromPublicKey renders a public key as the opaque signer identity
// used throughout the API.
func SignerIDFromPublicKey(publicKey ed25519.PublicKey) string {
	return hex.EncodeToString(publicKey)
}
