package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Username string `form:"username" validate:"required" example:"admin@example.com"`
	Password string `form:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.Token
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}
