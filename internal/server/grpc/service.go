package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "credvault.VaultService"

// Method names.
const (
	MethodRegister         = "Register"
	MethodLogin            = "Login"
	MethodCreateCredential = "CreateCredential"
	MethodGetCredential    = "GetCredential"
	MethodUpdateCredential = "UpdateCredential"
	MethodDeleteCredential = "DeleteCredential"
	MethodListCredentials  = "ListCredentials"
	MethodEvaluateSecret   = "EvaluateSecret"
	MethodGenerateSecret   = "GenerateSecret"
	MethodExportSnapshot   = "ExportSnapshot"
	MethodDeleteAccount    = "DeleteAccount"
)

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// VaultServiceServer is implemented by GRPCServer.
type VaultServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	CreateCredential(context.Context, *CreateCredentialRequest) (*CredentialResponse, error)
	GetCredential(context.Context, *GetCredentialRequest) (*CredentialResponse, error)
	UpdateCredential(context.Context, *UpdateCredentialRequest) (*CredentialResponse, error)
	DeleteCredential(context.Context, *DeleteCredentialRequest) (*Empty, error)
	ListCredentials(context.Context, *ListCredentialsRequest) (*ListCredentialsResponse, error)
	EvaluateSecret(context.Context, *EvaluateSecretRequest) (*EvaluateSecretResponse, error)
	GenerateSecret(context.Context, *GenerateSecretRequest) (*GenerateSecretResponse, error)
	ExportSnapshot(context.Context, *ExportSnapshotRequest) (*ExportSnapshotResponse, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*Empty, error)
}

func unary[Req, Resp any](method string, call func(VaultServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(VaultServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(VaultServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// VaultServiceDesc describes the vault service for grpc.Server.RegisterService.
var VaultServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, VaultServiceServer.Register),
		unary(MethodLogin, VaultServiceServer.Login),
		unary(MethodCreateCredential, VaultServiceServer.CreateCredential),
		unary(MethodGetCredential, VaultServiceServer.GetCredential),
		unary(MethodUpdateCredential, VaultServiceServer.UpdateCredential),
		unary(MethodDeleteCredential, VaultServiceServer.DeleteCredential),
		unary(MethodListCredentials, VaultServiceServer.ListCredentials),
		unary(MethodEvaluateSecret, VaultServiceServer.EvaluateSecret),
		unary(MethodGenerateSecret, VaultServiceServer.GenerateSecret),
		unary(MethodExportSnapshot, VaultServiceServer.ExportSnapshot),
		unary(MethodDeleteAccount, VaultServiceServer.DeleteAccount),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "credvault/vault.json",
}

// VaultClient calls the vault service over any client connection using
// the JSON codec.
type VaultClient struct {
	cc grpc.ClientConnInterface
}

func NewVaultClient(cc grpc.ClientConnInterface) *VaultClient {
	return &VaultClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *VaultClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VaultClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c, MethodRegister, in, opts)
}

func (c *VaultClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, MethodLogin, in, opts)
}

func (c *VaultClient) CreateCredential(ctx context.Context, in *CreateCredentialRequest, opts ...grpc.CallOption) (*CredentialResponse, error) {
	return invoke[CredentialResponse](ctx, c, MethodCreateCredential, in, opts)
}

func (c *VaultClient) GetCredential(ctx context.Context, in *GetCredentialRequest, opts ...grpc.CallOption) (*CredentialResponse, error) {
	return invoke[CredentialResponse](ctx, c, MethodGetCredential, in, opts)
}

func (c *VaultClient) UpdateCredential(ctx context.Context, in *UpdateCredentialRequest, opts ...grpc.CallOption) (*CredentialResponse, error) {
	return invoke[CredentialResponse](ctx, c, MethodUpdateCredential, in, opts)
}

func (c *VaultClient) DeleteCredential(ctx context.Context, in *DeleteCredentialRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodDeleteCredential, in, opts)
}

func (c *VaultClient) ListCredentials(ctx context.Context, in *ListCredentialsRequest, opts ...grpc.CallOption) (*ListCredentialsResponse, error) {
	return invoke[ListCredentialsResponse](ctx, c, MethodListCredentials, in, opts)
}

func (c *VaultClient) EvaluateSecret(ctx context.Context, in *EvaluateSecretRequest, opts ...grpc.CallOption) (*EvaluateSecretResponse, error) {
	return invoke[EvaluateSecretResponse](ctx, c, MethodEvaluateSecret, in, opts)
}

func (c *VaultClient) GenerateSecret(ctx context.Context, in *GenerateSecretRequest, opts ...grpc.CallOption) (*GenerateSecretResponse, error) {
	return invoke[GenerateSecretResponse](ctx, c, MethodGenerateSecret, in, opts)
}

func (c *VaultClient) ExportSnapshot(ctx context.Context, in *ExportSnapshotRequest, opts ...grpc.CallOption) (*ExportSnapshotResponse, error) {
	return invoke[ExportSnapshotResponse](ctx, c, MethodExportSnapshot, in, opts)
}

func (c *VaultClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c, MethodDeleteAccount, in, opts)
}
