// Package policy holds the rules a secret must satisfy, plus helpers that
// score, generate and mask secrets.
package policy

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/credvault/internal/common"
)

// Rule names reported in common.WeakSecretError.
const (
	RuleMinLength = "min_length"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleDigit     = "digit"
	RuleSpecial   = "special"
)

const DefaultMinLength = 8

// PasswordPolicy checks secrets rule by rule and reports the first failure.
type PasswordPolicy struct {
	MinLength int
}

func Default() PasswordPolicy {
	return PasswordPolicy{MinLength: DefaultMinLength}
}

type charClasses struct {
	upper, lower, digit, special bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		case r == '_' || !unicode.IsLetter(r):
			c.special = true
		}
	}
	return c
}

func weak(rule, format string, args ...any) error {
	return &common.WeakSecretError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Validate returns nil or a *common.WeakSecretError naming the first rule
// the secret breaks, in the order length, uppercase, lowercase, digit, special.
func (p PasswordPolicy) Validate(secret string) error {
	if utf8.RuneCountInString(secret) < p.MinLength {
		return weak(RuleMinLength, "secret must be at least %d characters long", p.MinLength)
	}

	c := classify(secret)
	switch {
	case !c.upper:
		return weak(RuleUppercase, "secret must include at least one uppercase letter")
	case !c.lower:
		return weak(RuleLowercase, "secret must include at least one lowercase letter")
	case !c.digit:
		return weak(RuleDigit, "secret must include at least one digit")
	case !c.special:
		return weak(RuleSpecial, "secret must include at least one special character")
	}
	return nil
}
