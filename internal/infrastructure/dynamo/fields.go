package dynamo

// DynamoDB attribute and index names shared across repos.
const (
	fieldUserID          = "user_id"
	fieldSessionID       = "session_id"
	fieldEmail           = "email"
	fieldActivationToken = "activation_token"
	fieldEmailVerifiedAt = "email_verified_at"
	fieldEnable          = "enable"
	fieldUpdatedAt       = "updated_at"

	indexEmail           = "email-index"
	indexActivationToken = "activation_token-index"
	indexUserID          = "user_id-index"
)
