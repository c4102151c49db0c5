package model

// Every endpoint answers with this envelope; failures carry only a
// human-readable message and a machine code, never internals.

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type AuthResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

type TempUserResponse struct {
	Success  bool           `json:"success"`
	TempUser PublicTempUser `json:"tempUser"`
}

type AdminAuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	Admin   PublicAdmin `json:"admin"`
}

type AdminVerifyResponse struct {
	Success bool        `json:"success"`
	Admin   PublicAdmin `json:"admin"`
}

type ForgotPasswordVerifyResponse struct {
	Success bool   `json:"success"`
	UserID  int64  `json:"userId"`
	Message string `json:"message,omitempty"`
}

type OrderResponse struct {
	Success       bool   `json:"success"`
	OrderID       string `json:"orderId"`
	AmountInPaise int64  `json:"amountInPaise"`
	Currency      string `json:"currency"`
	KeyID         string `json:"keyId"`
}
