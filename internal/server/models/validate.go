package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/credvault/internal/common"
)

var (
	userNameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	urlRe      = regexp.MustCompile(`^(https?|ftp)://(\w+(-\w+)*\.)*\w+(-\w+)*(:\d+)?(/.*)?$`)
)

const maxNameLen = 200

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateUserName accepts 3 to 30 letters, digits or underscores.
func ValidateUserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("username cannot be empty")
	}
	if !userNameRe.MatchString(name) {
		return invalid("username must be 3-30 letters, digits or underscores")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return invalid("invalid email address %q", email)
	}
	return nil
}

// ValidateURL accepts http, https and ftp locators with an optional port and path.
func ValidateURL(u string) error {
	if !urlRe.MatchString(u) {
		return invalid("invalid URL %q", u)
	}
	return nil
}

// ValidateName checks a credential display label.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name cannot be empty")
	}
	if len(name) > maxNameLen {
		return invalid("name is longer than %d bytes", maxNameLen)
	}
	return nil
}

// ParseCategory matches a category case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", invalid("unknown category %q", s)
}
