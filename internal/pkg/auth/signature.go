package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// SignatureVerifier checks MercadoPago x-signature headers using HMAC-SHA256.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier builds a verifier; an empty secret disables checks.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Enabled reports whether a signing secret is configured.
func (v *SignatureVerifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// Verify validates header against the manifest of dataID and requestID.
func (v *SignatureVerifier) Verify(header, dataID, requestID string) error {
	if !v.Enabled() {
		return nil
	}

	ts, sig := parseSignatureHeader(header)
	if ts == "" || sig == "" {
		return ErrInvalidSignature
	}

	expected := v.Sign(dataID, requestID, ts)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig))) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the hex signature for the given manifest parts.
func (v *SignatureVerifier) Sign(dataID, requestID, ts string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(manifest(dataID, requestID, ts)))
	return hex.EncodeToString(mac.Sum(nil))
}

func manifest(dataID, requestID, ts string) string {
	var b strings.Builder
	if dataID != "" {
		fmt.Fprintf(&b, "id:%s;", strings.ToLower(dataID))
	}
	if requestID != "" {
		fmt.Fprintf(&b, "request-id:%s;", requestID)
	}
	fmt.Fprintf(&b, "ts:%s;", ts)
	return b.String()
}

func parseSignatureHeader(header string) (ts, sig string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			sig = strings.TrimSpace(value)
		}
	}
	return ts, sig
}
