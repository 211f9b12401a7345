package auth

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest carries credentials for either actor kind.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the minted token and its subject.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	SubjectID uuid.UUID `json:"subject_id"`
	Role      string    `json:"role"`
}
