package jobportal

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vieclam/jobportal/internal/domain/models"
)

var ErrEmptyToken = errors.New("login response has no token")

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (c *Client) Login(ctx context.Context, request models.LoginRequest) (string, error) {

	if err := validate.Struct(request); err != nil {
		return "", fmt.Errorf("invalid login request: %w", err)
	}

	var response models.LoginResponse
	if err := c.post(ctx, "/api/auth/login", request, &response); err != nil {
		return "", err
	}
	if response.Token == "" {
		return "", ErrEmptyToken
	}
	return response.Token, nil
}

func (c *Client) Register(ctx context.Context, request models.RegisterRequest) error {

	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("invalid register request: %w", err)
	}
	return c.post(ctx, "/api/auth/register", request, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, request models.VerifyOTPRequest) error {

	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("invalid otp request: %w", err)
	}
	return c.post(ctx, "/api/auth/verify-otp", request, nil)
}

func (c *Client) ResendOTP(ctx context.Context, email string) error {
	return c.postEmail(ctx, "/api/auth/resend-otp", email)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.postEmail(ctx, "/api/auth/forgot-password", email)
}

func (c *Client) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error {

	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("invalid reset password request: %w", err)
	}
	return c.post(ctx, "/api/auth/reset-password", request, nil)
}

func (c *Client) postEmail(ctx context.Context, path string, email string) error {
	request := emailRequest{Email: email}
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	return c.post(ctx, path, request, nil)
}
