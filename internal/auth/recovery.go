package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Password recovery runs in three steps: SendOTP mails a one-time code,
// VerifyOTP exchanges the code for a short-lived reset token, and
// ResetPassword consumes that token. The reset token is kept in the Store
// between the last two steps and cleared once used.

// SendOTP asks the server to mail a one-time code to the address.
func (m *Manager) SendOTP(ctx context.Context, email string) error {
	resp, err := m.post(ctx, sendOTPPath, map[string]string{"email": email})
	if err != nil {
		return fmt.Errorf("send OTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return errorFromBody(resp.StatusCode, body)
	}
	return nil
}

// VerifyOTP checks the one-time code. On success the server returns the
// reset token as a raw string in the result field; it is persisted for the
// ResetPassword step and also returned to the caller.
func (m *Manager) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	resp, err := m.post(ctx, verifyOTPPath, map[string]string{"email": email, "otp": otp})
	if err != nil {
		return "", fmt.Errorf("verify OTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read verify OTP response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errorFromBody(resp.StatusCode, body)
	}

	var vr struct {
		Code   int    `json:"code"`
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &vr); err != nil {
		return "", fmt.Errorf("failed to parse verify OTP response: %w", err)
	}
	if vr.Result == "" {
		return "", fmt.Errorf("verify OTP response carried no reset token")
	}

	if err := m.store.SaveResetToken(vr.Result); err != nil {
		return "", fmt.Errorf("failed to persist reset token: %w", err)
	}
	slog.Debug("reset token stored")
	return vr.Result, nil
}

// ResetPassword sets a new password using the stored reset token and
// clears the token afterwards.
func (m *Manager) ResetPassword(ctx context.Context, newPassword string) error {
	token, err := m.store.ResetToken()
	if err != nil {
		return fmt.Errorf("failed to load reset token: %w", err)
	}
	if token == "" {
		return ErrNoResetToken
	}

	resp, err := m.post(ctx, resetPasswordPath, map[string]string{
		"token":       token,
		"newPassword": newPassword,
	})
	if err != nil {
		return fmt.Errorf("reset password request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return errorFromBody(resp.StatusCode, body)
	}

	return m.store.ClearResetToken()
}
