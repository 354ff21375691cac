package helpers

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateApiKey returns a fresh random project key. Only its HMAC is
// persisted, see models.ApiKey.
func GenerateApiKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func GenerateHMAC(apiSecret string, key string) string {
	h := hmac.New(sha256.New, []byte(apiSecret))
	h.Write([]byte(key))

	return hex.EncodeToString(h.Sum(nil))
}
