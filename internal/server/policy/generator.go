package policy

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/credvault/internal/common"
)

const (
	DefaultGenerateLength = 16
	MaxGenerateLength     = 128

	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	allChars     = upperChars + lowerChars + digitChars + specialChars
)

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

// Generate returns a random secret of the given length that passes the
// policy. A zero length means DefaultGenerateLength.
func (p PasswordPolicy) Generate(length int) (string, error) {
	if length == 0 {
		length = DefaultGenerateLength
	}
	minLen := max(p.MinLength, 4)
	if length < minLen || length > MaxGenerateLength {
		return "", fmt.Errorf("%w: length must be between %d and %d", common.ErrorInvalidInput, minLen, MaxGenerateLength)
	}

	out := make([]byte, 0, length)
	// one character from each class, the rest from the full alphabet
	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		i, err := randIndex(len(set))
		if err != nil {
			return "", err
		}
		out = append(out, set[i])
	}
	for len(out) < length {
		i, err := randIndex(len(allChars))
		if err != nil {
			return "", err
		}
		out = append(out, allChars[i])
	}

	// Fisher-Yates so the guaranteed characters are not always in front
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}
