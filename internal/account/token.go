package account

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// generateVerificationCode returns a 6-digit numeric code (100000–999999)
// from a crypto-strong source. Short enough to type from an email, large
// enough that guessing within the 24h window is impractical behind the
// rate-limited endpoint.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// generateResetToken returns 40 random bytes hex-encoded. Reset tokens
// travel in a link, so they carry full entropy rather than a typable code.
func generateResetToken() (string, error) {
	buf := make([]byte, 40)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
