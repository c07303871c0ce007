package auth

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginUser is the slice of the account echoed back on login.
type LoginUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse carries the minted token plus the account it belongs to.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	Role        string    `json:"role"`
	User        LoginUser `json:"user"`
}
