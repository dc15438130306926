// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq represents the JSON body of POST /users/.
// It uses Gin's binding tags for validation (required, email format).
type RegisterReq struct {
	EmailAddress string `json:"email_address" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
}
