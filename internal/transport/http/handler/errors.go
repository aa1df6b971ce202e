package handler

const (
	errInternalServer     = "Internal server error"
	errEmailTaken         = "Email already exists"
	errAlreadyVerified    = "Email is already verified"
	errTokenInvalid       = "Invalid or expired verification token. Please sign up again."
	errNoPending          = "No pending verification found for this email. Please sign up."
	errDeliveryFailed     = "Failed to send verification email. Please try again."
	errInvalidCredentials = "Invalid credentials"
	errUnauthorized       = "Unauthorized"
)
