package models

// User is an account in the credential store. ID is the backend's native
// identifier rendered as a string (ObjectID hex for MongoDB, UUID for PostgreSQL).
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash, never serialize
}

// SignupRequest is the JSON body for POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SigninRequest is the JSON body for POST /signin.
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
