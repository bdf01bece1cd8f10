// Package idgen generates stable human-readable keys for defect records.
package idgen

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultPrefix is used when no key prefix is configured.
const DefaultPrefix = "bug"

// DefaultHashLength is the default number of base36 characters in a key.
const DefaultHashLength = 6

// EncodeBase36 converts a byte slice to a base36 string of specified length.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	// Build the string in reverse
	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}

	var result strings.Builder
	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}

	// Truncate to exact length if needed (keep least significant digits)
	if len(str) > length {
		str = str[len(str)-length:]
	}

	return str
}

// GenerateKey creates a hash-based key for a defect record, of the form
// "<prefix>-<hash>". The hash covers title, reporter, creation time, and a
// collision nonce, so identical submissions at different times still get
// distinct keys. The length parameter is expected to be 3-8; other values
// fall back to a 3-char byte width.
func GenerateKey(prefix, title, reporter string, timestamp time.Time, length, nonce int) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	content := fmt.Sprintf("%s|%s|%d|%d", title, reporter, timestamp.UnixNano(), nonce)
	hash := sha256.Sum256([]byte(content))

	var numBytes int
	switch length {
	case 3:
		numBytes = 2
	case 4:
		numBytes = 3
	case 5, 6:
		numBytes = 4
	case 7, 8:
		numBytes = 5
	default:
		numBytes = 3
	}

	return fmt.Sprintf("%s-%s", prefix, EncodeBase36(hash[:numBytes], length))
}
