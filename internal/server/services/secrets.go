package services

import (
	"github.com/dmitrijs2005/credvault/internal/server/policy"
)

// SecretService scores and generates secrets against the password policy.
type SecretService struct {
	policy policy.PasswordPolicy
}

func NewSecretService() *SecretService {
	return &SecretService{policy: policy.Default()}
}

// Evaluate scores secret. userInputs are words zxcvbn should penalise.
func (s *SecretService) Evaluate(secret string, userInputs ...string) policy.Strength {
	return s.policy.Evaluate(secret, userInputs...)
}

// Generate returns a random secret of the given length that passes the
// policy. Zero selects the default length.
func (s *SecretService) Generate(length int) (string, error) {
	return s.policy.Generate(length)
}
