package domain

// Principal is the resolved identity of an authenticated public-API
// request: the owning user plus the API key that presented itself.
// It is threaded explicitly through the call chain rather than read
// from ambient request state.
type Principal struct {
	User *User
	Key  *APIKey
}
