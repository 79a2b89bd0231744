// internal/app/features/account/reset.go
package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/credentials"
	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/dalemusser/ecotrack/internal/app/system/mailer"
	"github.com/dalemusser/ecotrack/internal/app/system/normalize"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgResetRequested = "If that email is registered, a reset link has been sent"
	msgResetInvalid   = "Invalid or expired reset token"
)

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleForgotPassword issues a reset token for a registered email. The
// response is the same whether or not the email is known.
// POST /api/v1/auth/forgot-password
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	email := normalize.Email(req.Email)
	if email != "" {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "account.forgot_password")
		defer cancel()
		h.startReset(ctx, email)
	}

	httpjson.Message(w, http.StatusOK, msgResetRequested)
}

// startReset stores a hashed token for email and mails the plain token.
// Known and unknown emails both cost one bcrypt hash, and the email goes
// out in the background, so response time does not reveal registration.
// Failures are logged only.
func (h *Handler) startReset(ctx context.Context, email string) {
	token := uuid.NewString()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("forgot-password: user lookup failed", zap.Error(err))
		}
		_, _ = hashSecret(token)
		return
	}

	hash, err := hashSecret(token)
	if err != nil {
		h.Log.Error("forgot-password: token hash failed", zap.Error(err))
		return
	}
	expires := h.now().Add(h.ResetTokenTTL)
	if err := h.Users.SetResetToken(ctx, u.ID, hash, expires); err != nil {
		h.Log.Error("forgot-password: store token failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		return
	}

	if h.Mail == nil {
		h.Log.Warn("forgot-password: mailer not configured, reset token not sent", zap.String("user_id", u.ID.Hex()))
		return
	}

	msg := mailer.BuildPasswordResetEmail(mailer.PasswordResetEmailData{
		SiteName:  h.SiteName,
		Token:     token,
		ResetLink: h.resetLink(u.Email, token),
		ExpiresIn: humanizeTTL(h.ResetTokenTTL),
	})
	msg.To = u.Email

	userID := u.ID.Hex()
	h.mailWG.Add(1)
	go func() {
		defer h.mailWG.Done()
		sendCtx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		if err := h.Mail.Send(sendCtx, msg); err != nil {
			h.Log.Error("forgot-password: send failed", zap.String("user_id", userID), zap.Error(err))
		}
	}()
}

// HandleResetPassword sets a new password when the reset token matches and
// has not expired. The token is single use.
// POST /api/v1/auth/reset-password
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	email := normalize.Email(req.Email)
	token := strings.TrimSpace(req.Token)
	if email == "" || token == "" {
		httpjson.Error(w, http.StatusBadRequest, msgResetInvalid)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "account.reset_password")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("reset-password: user lookup failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, msgInternal)
			return
		}
		verifySecret(token, dummyHash())
		httpjson.Error(w, http.StatusBadRequest, msgResetInvalid)
		return
	}

	if !h.resetTokenValid(u, token) {
		httpjson.Error(w, http.StatusBadRequest, msgResetInvalid)
		return
	}

	if err := credentials.ValidatePassword(req.Password); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	hash, err := hashSecret(req.Password)
	if err != nil {
		h.Log.Error("reset-password: hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if err := h.Users.ResetPassword(ctx, u.ID, hash); err != nil {
		h.Log.Error("reset-password: update failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.Log.Info("password reset", zap.String("user_id", u.ID.Hex()))
	httpjson.Message(w, http.StatusOK, "Password reset successful")
}

// resetTokenValid always runs exactly one bcrypt comparison, even when the
// user has no pending token.
func (h *Handler) resetTokenValid(u *models.User, token string) bool {
	hash := u.ResetPasswordTokenHash
	pending := hash != "" && u.ResetPasswordExpires != nil
	if !pending {
		hash = dummyHash()
	}
	matched := verifySecret(token, hash)
	return pending && matched && h.now().Before(*u.ResetPasswordExpires)
}

func (h *Handler) resetLink(email, token string) string {
	if h.BaseURL == "" {
		return ""
	}
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return strings.TrimRight(h.BaseURL, "/") + "/reset-password?" + q.Encode()
}

// humanizeTTL renders whole hours or minutes, e.g. "1 hour", "30 minutes".
func humanizeTTL(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int64(d/time.Hour), "hour")
	}
	return plural(int64(d.Round(time.Minute)/time.Minute), "minute")
}
