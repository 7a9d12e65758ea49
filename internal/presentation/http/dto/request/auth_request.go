package request

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name            string `json:"name" binding:"required,max=255"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
	ShopName        string `json:"shop_name" binding:"omitempty,max=255"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest represents a shop profile update
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,max=255"`
	ShopName *string `json:"shop_name" binding:"omitempty,max=255"`
	ShopLogo *string `json:"shop_logo"`
}

// UpdateRoleRequest sets a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserFilterRequest represents user list parameters
type UserFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
