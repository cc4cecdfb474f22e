package grpc

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// msgCredentialNotFound is returned for both missing and foreign
// credentials so callers cannot probe other users' ids.
const msgCredentialNotFound = "credential not found"

// toStatus maps a service error onto a gRPC status.
func toStatus(err error) error {
	var weak *common.WeakSecretError
	var entry *common.EntryDecryptionError

	switch {
	case errors.As(err, &weak):
		return status.Error(codes.InvalidArgument, weak.Error())
	case errors.Is(err, common.ErrorInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.As(err, &entry):
		return status.Error(codes.DataLoss, fmt.Sprintf("credential %d could not be decrypted", entry.EntryID))
	case errors.Is(err, common.ErrorDecryptionFailed), errors.Is(err, common.ErrorMalformedRecord):
		return status.Error(codes.DataLoss, "credential could not be decrypted")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// toCredentialStatus is toStatus for reads of a single credential, where
// a foreign credential looks exactly like a missing one.
func toCredentialStatus(err error) error {
	if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorNotFound) {
		return status.Error(codes.NotFound, msgCredentialNotFound)
	}
	return toStatus(err)
}
