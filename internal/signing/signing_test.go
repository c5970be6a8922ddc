package signing_test

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/sunthewhat/multisign-api/internal/signing"
	"golang.org/x/crypto/ed25519"
)

func genKey(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return signing.SignerIDFromPublicKey(pub), priv
}

func TestHashDocument_Deterministic(t *testing.T) {
	data := []byte("important agreement")

	first := signing.HashDocument(data)
	second := signing.HashDocument(data)

	if first != second {
		t.Errorf("Expected identical hashes, got %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(first))
	}
	if signing.HashDocument([]byte("other agreement")) == first {
		t.Error("Different documents must not share a hash")
	}
}

func TestSigningMessage_Construction(t *testing.T) {
	msg := signing.SigningMessage("req-1", "abcd", "signer-1")

	if string(msg) != "req-1abcdsigner-1" {
		t.Errorf("Unexpected message construction: %q", string(msg))
	}
}

func TestVerifySignature_RoundTrip(t *testing.T) {
	signerId, priv := genKey(t)
	msg := signing.SigningMessage("req-1", signing.HashDocument([]byte("doc")), signerId)

	sig := signing.Sign(priv, msg)

	if !signing.VerifySignature(signerId, msg, sig) {
		t.Error("Valid signature must verify")
	}
}

func TestVerifySignature_RejectsCrossMessage(t *testing.T) {
	signerId, priv := genKey(t)
	docHash := signing.HashDocument([]byte("doc"))

	msg1 := signing.SigningMessage("req-1", docHash, signerId)
	msg2 := signing.SigningMessage("req-2", docHash, signerId)

	sig1 := signing.Sign(priv, msg1)

	if signing.VerifySignature(signerId, msg2, sig1) {
		t.Error("Signature for one request must not verify against another")
	}
}

func TestVerifySignature_RejectsWrongSigner(t *testing.T) {
	signerId, priv := genKey(t)
	otherId, _ := genKey(t)
	msg := signing.SigningMessage("req-1", signing.HashDocument([]byte("doc")), signerId)

	sig := signing.Sign(priv, msg)

	if signing.VerifySignature(otherId, msg, sig) {
		t.Error("Signature must not verify under a different identity")
	}
}

func TestVerifySignature_FailsClosed(t *testing.T) {
	signerId, priv := genKey(t)
	msg := signing.SigningMessage("req-1", "hash", signerId)
	validSig := signing.Sign(priv, msg)

	cases := []struct {
		name      string
		signerId  string
		signature string
	}{
		{"empty identity", "", validSig},
		{"non-hex identity", "zz" + signerId[2:], validSig},
		{"short identity", signerId[:10], validSig},
		{"empty signature", signerId, ""},
		{"non-base64 signature", signerId, "%%%not-base64%%%"},
		{"short signature", signerId, "YWJj"},
		{"truncated signature", signerId, validSig[:len(validSig)-8]},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if signing.VerifySignature(tc.signerId, msg, tc.signature) {
				t.Errorf("Expected verification to fail for %s", tc.name)
			}
		})
	}
}

func TestIsValidSignerID(t *testing.T) {
	signerId, _ := genKey(t)

	if !signing.IsValidSignerID(signerId) {
		t.Error("Generated identity must be valid")
	}
	if signing.IsValidSignerID(strings.Repeat("g", 64)) {
		t.Error("Non-hex identity must be invalid")
	}
	if signing.IsValidSignerID(signerId[:32]) {
		t.Error("Short identity must be invalid")
	}
}
