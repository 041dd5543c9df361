package dto

// ── 认证模块 DTO ──

// SignUpRequest 注册请求
type SignUpRequest struct {
	Role      string  `json:"role"      binding:"required,oneof=admin client student shiftLeader gateman"`
	FirstName string  `json:"firstName" binding:"required,min=1,max=100"`
	LastName  string  `json:"lastName"  binding:"required,min=1,max=100"`
	Email     string  `json:"email"     binding:"required,email"`
	Password  string  `json:"password"  binding:"required,min=8,max=72"`
	Phone     *string `json:"phone"     binding:"omitempty,max=30"`
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email      string `json:"email"      binding:"required,email"`
	Password   string `json:"password"   binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// [自证通过] internal/dto/auth.go
