// Package dto provides data transfer objects for HTTP request and response handling.
package dto

// LoginResponse contains the issued session token.
// SECURITY: The token is only returned once and must be saved securely.
type LoginResponse struct {
	Token string `json:"token"`
}
