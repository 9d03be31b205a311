// Package transport defines the typed request and response bodies of the
// HTTP surface. Requests validate themselves before the core is invoked; the
// services assume already-validated inputs.
package transport

import (
	"errors"
	"strings"
)

const (
	minPasswordLen   = 8
	maxPasswordBytes = 200
	maxAnswerLen     = 200
)

type RegisterRequest struct {
	Email              string `json:"email"`
	Username           string `json:"username"`
	Password           string `json:"password"`
	SecurityQuestionID uint   `json:"security_question_id"`
	SecurityAnswer     string `json:"security_answer"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	if !validEmail(r.Email) {
		return errors.New("invalid email")
	}
	if r.Username == "" {
		return errors.New("username required")
	}
	if err := validPassword(r.Password); err != nil {
		return err
	}
	if r.SecurityQuestionID == 0 {
		return errors.New("security_question_id required")
	}
	if strings.TrimSpace(r.SecurityAnswer) == "" {
		return errors.New("security_answer required")
	}
	if len(r.SecurityAnswer) > maxAnswerLen {
		return errors.New("security_answer too long")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password required")
	}
	if len(r.Password) > maxPasswordBytes {
		return errors.New("password too long")
	}
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshRequest) Validate() error {
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
	if r.RefreshToken == "" {
		return errors.New("refresh_token required")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !validEmail(r.Email) {
		return errors.New("invalid email")
	}
	return nil
}

type ResetPasswordRequest struct {
	Email          string `json:"email"`
	SecurityAnswer string `json:"security_answer"`
	NewPassword    string `json:"new_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !validEmail(r.Email) {
		return errors.New("invalid email")
	}
	if strings.TrimSpace(r.SecurityAnswer) == "" {
		return errors.New("security_answer required")
	}
	if len(r.SecurityAnswer) > maxAnswerLen {
		return errors.New("security_answer too long")
	}
	return validPassword(r.NewPassword)
}

// TokenResponse mirrors the OAuth-style bearer response of login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ForgotPasswordResponse is success-shaped for both real and unknown
// accounts: one of the two fields is set, the status code is identical.
type ForgotPasswordResponse struct {
	Question string `json:"question,omitempty"`
	Message  string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

func validPassword(password string) error {
	if len(password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return errors.New("password too long")
	}
	return nil
}
