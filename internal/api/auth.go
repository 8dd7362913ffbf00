package api

import (
	"context"
	"net/http"

	"edulearn-cli/internal/domain"
)

// LoginResult is the backend's login response: a token pair plus the
// authenticated user's profile.
type LoginResult struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    domain.User `json:"user"`
}

// RegisterRequest creates a new account. Email verification happens
// separately through the OTP flow.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/register/", req, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (LoginResult, error) {
	var result LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/login/", creds, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// Logout revokes the refresh token server-side.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.doJSON(ctx, http.MethodPost, "/api/users/logout/", body, nil)
}

// OTP flows. Each endpoint takes an email (plus code/password where
// relevant) and returns no body of interest.

func (c *Client) SendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/users/otp/send-verification/", body, nil)
}

func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "otp": code}
	return c.doJSON(ctx, http.MethodPost, "/api/users/otp/verify-email/", body, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/users/otp/forgot-password/", body, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{"email": email, "otp": code, "new_password": newPassword}
	return c.doJSON(ctx, http.MethodPost, "/api/users/otp/reset-password/", body, nil)
}
