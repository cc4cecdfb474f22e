package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	userIDKey      ctxKey = "userID"
	requestInfoKey ctxKey = "requestInfo"
)

// Metadata keys.
const (
	AccessTokenHeader = common.AccessTokenHeaderName
	RequestIDHeader   = common.RequestIDHeaderName
)

// publicMethods may be called without an access token.
var publicMethods = map[string]bool{
	FullMethod(MethodRegister): true,
	FullMethod(MethodLogin):    true,
}

// requestInfo is filled in by inner interceptors and read by the logging
// interceptor once the call completes.
type requestInfo struct {
	id       string
	callerID int64
}

func callerFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(userIDKey).(int64)
	if !ok || id <= 0 {
		return 0, status.Error(codes.Unauthenticated, "missing caller identity")
	}
	return id, nil
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ri := &requestInfo{id: firstMetadata(ctx, RequestIDHeader)}
	if ri.id == "" {
		ri.id = uuid.NewString()
	}
	ctx = context.WithValue(ctx, requestInfoKey, ri)
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, ri.id))

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"request_id", ri.id,
		"caller_id", ri.callerID,
		"duration", time.Since(start),
		"code", status.Code(err).String(),
	)
	return resp, err
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := firstMetadata(ctx, AccessTokenHeader)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	if ri, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		ri.callerID = userID
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	return handler(ctx, req)
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter == nil {
		return handler(ctx, req)
	}
	if !s.limiter.allow(limitKey(ctx)) {
		return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}
	return handler(ctx, req)
}

// limitKey buckets authenticated calls by caller and anonymous ones by
// peer address.
func limitKey(ctx context.Context) string {
	if id, err := callerFromContext(ctx); err == nil {
		return "user:" + formatID(id)
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return "peer:" + p.Addr.String()
	}
	return "anonymous"
}
