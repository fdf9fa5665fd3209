package dto

// UpdateReq represents the request body for the full profile update
// (PUT /users/). Every field is required; the password is rehashed and
// a new session token issued.
type UpdateReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"required,min=3"`
	Name     string `json:"name" binding:"required,min=1"`
	About    string `json:"about"`
}

// PartialUpdateReq represents the request body for the partial profile
// update (PATCH /users/). Omitted fields keep their stored values;
// username and email cannot be changed through this endpoint.
type PartialUpdateReq struct {
	Password string  `json:"password" binding:"omitempty,min=8"`
	Name     string  `json:"name"`
	About    *string `json:"about"`
}
