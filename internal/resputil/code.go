package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest ErrorCode = 40001

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Login
	InvalidCredentials ErrorCode = 40106

	// User is not allowed to access the resource
	UserNotAllowed ErrorCode = 40301

	NotFound ErrorCode = 40401

	// Workflow conflicts
	InvalidTransition ErrorCode = 40901
	AlreadySigned     ErrorCode = 40902

	TooManyRequests ErrorCode = 42901

	// Downstream providers
	GatewayFailed      ErrorCode = 50201
	StorageFailed      ErrorCode = 50202
	ChannelUnavailable ErrorCode = 50301

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
