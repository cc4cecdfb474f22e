package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	user, err := s.users.Register(ctx, req.Username, req.Email, req.MasterPassword)
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "username", req.Username, "error", err.Error())
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "registered", "user_id", user.ID)
	return &RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := s.users.Login(ctx, req.Username, req.MasterPassword)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "invalid username or password")
		}
		s.logger.Error(ctx, "login failed", "error", err.Error())
		return nil, toStatus(err)
	}
	return &LoginResponse{AccessToken: token}, nil
}

func (s *GRPCServer) CreateCredential(ctx context.Context, req *CreateCredentialRequest) (*CredentialResponse, error) {
	callerID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.credentials.Create(ctx, callerID, toInput(req.Credential))
	if err != nil {
		s.logError(ctx, "create credential", err)
		return nil, toStatus(err)
	}
	return &CredentialResponse{Credential: fromOutput(out, false)}, nil
}

func (s *GRPCServer) GetCredential(ctx context.Context, req *GetCredentialRequest) (*CredentialResponse, error) {
	callerID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.credentials.Get(ctx, callerID, req.ID)
	if err != nil {
		s.logError(ctx, "get credential", err, "credential_id", req.ID)
		return nil, toCredentialStatus(err)
	}
	return &CredentialResponse{Credential: fromOutput(out, false)}, nil
}

func (s *GRPCServer) UpdateCredential(ctx context.Context, req *UpdateCredentialRequest) (*CredentialResponse, error) {
	callerID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.credentials.Update(ctx, callerID, req.ID, toInput(req.Credential))
	if err != nil {
		s.logError(ctx, "update credential", err, "credential_id", req.ID)
		return nil, toCredentialStatus(err)
	}
	return &CredentialResponse{Credential: fromOutput(out, false)}, nil
}

func (s *GRPCServer) DeleteCredential(ctx context.Context, req *DeleteCredentialRequest) (*Empty, error) {
	callerID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.credentials.Delete(ctx, callerID, req.ID); err != nil {
		s.logError(ctx, "delete credential", err, "credential_id", req.ID)
		return nil, toCredentialStatus(err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) ListCredentials(ctx context.Context, req *ListCredentialsRequest) (*ListCredentialsResponse, error) {
	callerID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.credentials.List(ctx, callerID)
	if err != nil {
		s.logError(ctx, "list credentials", err)
		return nil, toStatus(err)
	}

	resp := &ListCredentialsResponse{Credentials: make([]Credential, 0, len(items))}
	for _, o := range items {
		resp.Credentials = append(resp.Credentials, fromOutput(o, req.Masked))
	}
	return resp, nil
}

func (s *GRPCServer) EvaluateSecret(ctx context.Context, req *EvaluateSecretRequest) (*EvaluateSecretResponse, error) {
	st := s.secrets.Evaluate(req.Secret, req.UserInputs...)
	return &EvaluateSecretResponse{
		Score:     st.Score,
		Label:     st.Label,
		Entropy:   st.Entropy,
		CrackTime: st.CrackTime,
	}, nil
}

func (s *GRPCServer) GenerateSecret(ctx context.Context, req *GenerateSecretRequest) (*GenerateSecretResponse, error) {
	secret, err := s.secrets.Generate(req.Length)
	if err != nil {
		return nil, toStatus(err)
	}
	return &GenerateSecretResponse{Secret: secret}, nil
}

func (s *GRPCServer) ExportSnapshot(ctx context.Context, req *ExportSnapshotRequest) (*ExportSnapshotResponse, error) {
	callerID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	key, err := s.snapshots.Export(ctx, callerID)
	if err != nil {
		s.logError(ctx, "export snapshot", err)
		return nil, toStatus(err)
	}
	s.logger.Info(ctx, "snapshot exported", "key", key)
	return &ExportSnapshotResponse{Key: key}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *DeleteAccountRequest) (*Empty, error) {
	callerID, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.users.DeleteAccount(ctx, callerID); err != nil {
		s.logError(ctx, "delete account", err)
		return nil, toStatus(err)
	}
	s.logger.Info(ctx, "account deleted", "user_id", callerID)
	return &Empty{}, nil
}

func (s *GRPCServer) logError(ctx context.Context, op string, err error, args ...any) {
	args = append([]any{"op", op, "error", err.Error()}, args...)
	s.logger.Warn(ctx, "request failed", args...)
}

func toInput(c Credential) services.CredentialInput {
	return services.CredentialInput{
		Name:     c.Name,
		Category: c.Category,
		URL:      c.URL,
		Secret:   c.Secret,
		Cipher:   cryptox.CipherStrategy(c.Cipher),
	}
}

func fromOutput(o *services.CredentialOutput, masked bool) Credential {
	c := Credential{
		ID:        o.ID,
		Name:      o.Name,
		Category:  string(o.Category),
		URL:       o.URL,
		Masked:    o.Masked(),
		Cipher:    string(o.Cipher),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if !masked {
		c.Secret = o.Secret
	}
	return c
}
