// Package service provides technical services for authentication operations:
// password hashing and session token generation.
package service

// SecretService defines operations for password hashing and verification.
// Implementations must use an industry-standard slow hash (e.g. Argon2id).
type SecretService interface {
	// HashSecret hashes a plain text password for storage.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret compares a plain text password against a stored hash in
	// constant time. Returns true on match.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService defines operations for session token generation and hashing.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain token (shown once to the caller) and its hash
	// (the only form ever stored).
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain token using SHA-256. Used for token lookup
	// during authentication.
	HashToken(plainToken string) string
}
