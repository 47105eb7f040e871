package dto

import "time"

// PinLoginRequest representa o login do painel por PIN
type PinLoginRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// PinLoginResponse representa o token emitido para o painel
type PinLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
