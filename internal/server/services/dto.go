package services

import (
	"time"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/policy"
)

// CredentialInput is what a caller supplies to create or fully replace a
// credential. An empty Cipher selects the configured default strategy.
type CredentialInput struct {
	Name     string
	Category string
	URL      string
	Secret   string
	Cipher   cryptox.CipherStrategy
}

// CredentialOutput is a decrypted credential as returned to its owner.
type CredentialOutput struct {
	ID        int64
	Name      string
	Category  models.Category
	URL       string
	Secret    string
	Cipher    cryptox.CipherStrategy
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Masked returns the secret with all but its last two characters hidden.
func (o CredentialOutput) Masked() string {
	return policy.Mask(o.Secret)
}

func newOutput(c *models.Credential, plaintext string) *CredentialOutput {
	return &CredentialOutput{
		ID:        c.ID,
		Name:      c.Name,
		Category:  c.Category,
		URL:       c.URL,
		Secret:    plaintext,
		Cipher:    c.Secret.Strategy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
