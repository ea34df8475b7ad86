package api

// Registration carries the fields accepted by the register endpoint.
type Registration struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email"`
	Username        string `json:"username,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"conf_password"`
}

// User is the account returned by the register endpoint.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordReset completes a forgot-password flow using the reset id and
// token delivered to the user.
type PasswordReset struct {
	ResetID         string `json:"uid"`
	ResetToken      string `json:"token"`
	NewPassword     string `json:"new_pass"`
	ConfirmPassword string `json:"conf_pass"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}
