// Package dto defines data transfer objects for the post feature's HTTP transport layer.
package dto

// CreatePostReq represents the request body for POST /posts/.
// The author must match the authenticated user's username.
type CreatePostReq struct {
	Title        string `json:"title" binding:"required,min=1"`
	Author       string `json:"author" binding:"required"`
	Image        string `json:"image"`
	Body         string `json:"textArea" binding:"required"`
	GameCategory string `json:"gameCategory" binding:"required"`
}

// UpdatePostReq represents the request body for PATCH /posts/:postID.
// Omitted fields keep their stored values.
type UpdatePostReq struct {
	Title        string `json:"title"`
	Image        string `json:"image"`
	Body         string `json:"textArea"`
	GameCategory string `json:"gameCategory"`
}
