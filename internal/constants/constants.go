package constants

// Reserved variable names in the run store.
const (
	// VarBearerToken is the store key the request executor reads when a step
	// sets useAuthentication. Token extraction on login steps typically
	// writes into it.
	VarBearerToken = "bearerToken"

	// VarAuthTokenType holds the token scheme label for the Authorization
	// header. Set at most once per run.
	VarAuthTokenType = "authTokenType"

	// DefaultTokenType is used when no token type has been recorded.
	DefaultTokenType = "Bearer"
)

// RowCountColumn is the synthetic column name on tabular results that
// resolves to the number of rows instead of a real column value.
const RowCountColumn = "rowCount"

// ContentTypeJSON is the media type applied to serialized request bodies
// when no explicit content type header is configured.
const ContentTypeJSON = "application/json"
