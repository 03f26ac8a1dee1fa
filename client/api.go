package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hrm-access/models"
)

// ErrInvalidCredentials is returned by SignIn when the backend rejects the
// email/password pair. All other backend failures propagate unchanged.
var ErrInvalidCredentials = errors.New("invalid email or password")

// apiClient wraps the credential endpoints of the HR backend
type apiClient struct {
	baseURL string
	http    *http.Client
}

// envelope mirrors the backend's standard response shape
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *apiClient) login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *apiClient) signup(ctx context.Context, req models.CreateUserRequest) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.post(ctx, "/auth/signup", req, &out)
	return out, err
}

func (c *apiClient) logout(ctx context.Context, refreshToken string) error {
	return c.post(ctx, "/auth/logout", models.LogoutRequest{RefreshToken: refreshToken}, nil)
}

func (c *apiClient) forgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		ResetToken string `json:"resetToken"`
	}
	err := c.post(ctx, "/auth/forgot-password", models.ForgotPasswordRequest{Email: email}, &out)
	return out.ResetToken, err
}

func (c *apiClient) resetPassword(ctx context.Context, tok, newPassword string) error {
	return c.post(ctx, "/auth/reset-password", models.ResetPasswordRequest{Token: tok, NewPassword: newPassword}, nil)
}

func (c *apiClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			return fmt.Errorf("backend returned %d: %s", resp.StatusCode, env.Message)
		}
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
