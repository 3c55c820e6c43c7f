package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrUnauthorized     = fmt.Errorf("credential rejected")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// Provider authorization errors
	ErrMissingVerifier      = fmt.Errorf("missing code verifier")
	ErrTokenExchangeFailed  = fmt.Errorf("token exchange failed")
	ErrAlreadyInitialized   = fmt.Errorf("session already initialized")
	ErrAuthorizationAborted = fmt.Errorf("authorization aborted")

	// Request outcome errors
	ErrTimeout        = fmt.Errorf("operation timed out")
	ErrServerRejected = fmt.Errorf("request rejected by server")
	ErrPartialFailure = fmt.Errorf("operation partially failed")
	ErrAPIRequest     = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
