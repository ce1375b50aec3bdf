package qr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

var ErrInvalidPayload = errors.New("invalid QR payload")

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// NewCode returns a fresh ticket code, "TKT-" followed by 16 upper-case hex characters.
func (q *QRGenerator) NewCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TKT-" + strings.ToUpper(hex[:16])
}

// Payload is the string encoded into the QR image: the code plus its signature, so a
// scanner can reject forged codes without a lookup.
func (q *QRGenerator) Payload(code string) string {
	return code + "." + q.sign(code)
}

// Verify checks a scanned payload and returns the ticket code it carries.
func (q *QRGenerator) Verify(payload string) (string, error) {
	i := strings.LastIndexByte(payload, '.')
	if i <= 0 || i == len(payload)-1 {
		return "", ErrInvalidPayload
	}
	code, sig := payload[:i], payload[i+1:]
	if !hmac.Equal([]byte(sig), []byte(q.sign(code))) {
		return "", ErrInvalidPayload
	}
	return code, nil
}

// PNG renders the signed payload for code as a size x size PNG.
func (q *QRGenerator) PNG(code string, size int) ([]byte, error) {
	return qrcode.Encode(q.Payload(code), qrcode.Medium, size)
}

func (q *QRGenerator) sign(code string) string {
	mac := hmac.New(sha256.New, q.secret)
	mac.Write([]byte(code))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
