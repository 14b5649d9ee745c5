package constants

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const (
	HeaderXRequestId      = "X-Request-Id"
	HeaderIdempotencyKey  = "Idempotency-Key"
	HeaderAuthorization   = "Authorization"
	metadataRequestID     = "x-request-id"
	metadataIdempotencyID = "idempotency-key"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = metadataRequestID
	// ContextKeyIdempotencyKey is the context key for the idempotency key.
	ContextKeyIdempotencyKey contextKey = metadataIdempotencyID
	// ContextKeyIdentity is the context key for the verified caller identity.
	ContextKeyIdentity contextKey = "identity"

	// MetadataRequestID is the gRPC metadata key carrying the request ID.
	MetadataRequestID = metadataRequestID
)
