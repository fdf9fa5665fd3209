// Package dto defines data transfer objects for the user feature's HTTP transport layer.
package dto

// RegisterReq represents the request body for the /users/register endpoint.
// It uses Gin's binding tags for validation (required, email format, lengths).
type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,min=3"`
	Name     string `json:"name" binding:"required,min=1"`
}
