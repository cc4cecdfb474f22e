package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName is the optional metadata key carrying a caller-chosen
// request id. The server generates one when absent.
const RequestIDHeaderName = "x-request-id"
