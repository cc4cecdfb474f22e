package grpc

import "time"

type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	MasterPassword string `json:"master_password"`
}

type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

type LoginRequest struct {
	Username       string `json:"username"`
	MasterPassword string `json:"master_password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Credential is the wire form of a credential. Secret is plaintext on
// requests and responses alike; the transport is expected to be TLS.
type Credential struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	URL       string    `json:"url"`
	Secret    string    `json:"secret,omitempty"`
	Masked    string    `json:"masked,omitempty"`
	Cipher    string    `json:"cipher,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

type CreateCredentialRequest struct {
	Credential Credential `json:"credential"`
}

type GetCredentialRequest struct {
	ID int64 `json:"id"`
}

type UpdateCredentialRequest struct {
	ID         int64      `json:"id"`
	Credential Credential `json:"credential"`
}

type DeleteCredentialRequest struct {
	ID int64 `json:"id"`
}

type CredentialResponse struct {
	Credential Credential `json:"credential"`
}

// ListCredentialsRequest asks for the caller's vault. With Masked set the
// secrets come back masked only.
type ListCredentialsRequest struct {
	Masked bool `json:"masked"`
}

type ListCredentialsResponse struct {
	Credentials []Credential `json:"credentials"`
}

type EvaluateSecretRequest struct {
	Secret     string   `json:"secret"`
	UserInputs []string `json:"user_inputs,omitempty"`
}

type EvaluateSecretResponse struct {
	Score     int     `json:"score"`
	Label     string  `json:"label"`
	Entropy   float64 `json:"entropy"`
	CrackTime string  `json:"crack_time"`
}

type GenerateSecretRequest struct {
	Length int `json:"length"`
}

type GenerateSecretResponse struct {
	Secret string `json:"secret"`
}

type ExportSnapshotRequest struct{}

type ExportSnapshotResponse struct {
	Key string `json:"key"`
}

type DeleteAccountRequest struct{}

type Empty struct{}
