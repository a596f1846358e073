package models

import (
	"errors"
	"strings"
)

type RegisterUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterUserRequest) Validate() error {
	var errs []string

	username := strings.TrimSpace(r.Username)
	if username == "" {
		errs = append(errs, "username is required")
	} else if len(username) < 3 || len(username) > 64 {
		errs = append(errs, "username must be between 3 and 64 characters")
	}
	if len(r.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type RegisterUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Balance  string `json:"balance"`
}

type VerifyPasswordRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r VerifyPasswordRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type VerifyPasswordResponse struct {
	UserID          string `json:"userId,omitempty"`
	Username        string `json:"username"`
	IsValidPassword bool   `json:"isValidPassword"`
}
