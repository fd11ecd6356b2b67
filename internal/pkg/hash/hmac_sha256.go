package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// HMACSHA256 signs payloads with a shared secret. Signatures are lowercase hex.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a signer with a secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Sign returns the hex signature of payload.
func (s *HMACSHA256) Sign(payload []byte) string {
	return hex.EncodeToString(s.sum(payload))
}

// SignTimestamped signs "<unix>.<payload>", binding the signature to the time
// it was produced so receivers can reject replays.
func (s *HMACSHA256) SignTimestamped(ts time.Time, payload []byte) string {
	return s.Sign(timestamped(ts, payload))
}

// Verify checks signature against payload in constant time.
func (s *HMACSHA256) Verify(signature string, payload []byte) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, s.sum(payload))
}

// VerifyTimestamped is the counterpart of SignTimestamped.
func (s *HMACSHA256) VerifyTimestamped(signature string, ts time.Time, payload []byte) bool {
	return s.Verify(signature, timestamped(ts, payload))
}

func (s *HMACSHA256) sum(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	return h.Sum(nil)
}

func timestamped(ts time.Time, payload []byte) []byte {
	prefix := strconv.FormatInt(ts.Unix(), 10) + "."
	out := make([]byte, 0, len(prefix)+len(payload))
	out = append(out, prefix...)
	return append(out, payload...)
}
