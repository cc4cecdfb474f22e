package policy

import "strings"

// MaskVisible is how many trailing characters Mask leaves readable.
const MaskVisible = 2

// Mask replaces all but the last MaskVisible characters with '*'. Secrets
// no longer than MaskVisible are masked completely.
func Mask(secret string) string {
	r := []rune(secret)
	if len(r) <= MaskVisible {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-MaskVisible) + string(r[len(r)-MaskVisible:])
}
