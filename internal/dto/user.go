package dto

// UserRequest is the JSON body for POST /users and PUT /users/{id}.
// ID is optional on create and ignored on update.
type UserRequest struct {
	ID      string `json:"id,omitempty" example:""`
	Name    string `json:"name" example:"Alice"`
	Email   string `json:"email" example:"a@x.com"`
	Phone   string `json:"phone" example:"555"`
	Address string `json:"address" example:"Earth"`
}

// UserResponse is a stored user.
type UserResponse struct {
	ID      string `json:"id" example:"65f1c2a9e4b0a1b2c3d4e5f6"`
	Name    string `json:"name" example:"Alice"`
	Email   string `json:"email" example:"a@x.com"`
	Phone   string `json:"phone" example:"555"`
	Address string `json:"address" example:"Earth"`
}

// ErrorResponse is the body of 400, 401 and 500 responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
