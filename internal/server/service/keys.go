package service

// Layout of the data in the key-value store.
// Durable credentials live in the UsersCollection, keyed by username.
// The credentials cache uses the bare username as key.
const (
	UsersCollection   = "users"
	UsernamesCacheKey = "cachedUsernames"
)

// isReservedKey reports whether name would collide with a store key used
// for something other than a user's cached hash
func isReservedKey(name string) bool {
	return name == UsersCollection || name == UsernamesCacheKey
}
