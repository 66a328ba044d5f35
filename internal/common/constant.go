package common

const (
	// AuthorizationHeaderName carries the bearer token on HTTP requests and
	// in gRPC metadata (lower-cased there).
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// DefaultRole is assigned at registration when none is supplied.
	DefaultRole = "staff"

	// DefaultAssetStatus is assigned to new assets without an explicit status.
	DefaultAssetStatus = "Healthy"
)
