// internal/app/features/account/handler.go
package account

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/ecotrack/internal/app/system/mailer"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of userstore.Store the account flows need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(userID, userType, organizationName string) (string, error)
}

// MailSender delivers outbound email. *mailer.Mailer satisfies it.
type MailSender interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Handler serves registration, login and password reset.
type Handler struct {
	Users  UserStore
	Tokens TokenIssuer
	Mail   MailSender // nil disables reset emails
	Log    *zap.Logger

	BaseURL       string        // used to build reset links, may be empty
	SiteName      string        // shown in reset emails
	ResetTokenTTL time.Duration // lifetime of a password-reset token

	now    func() time.Time
	mailWG sync.WaitGroup // in-flight reset emails
}

// NewHandler constructs an account Handler.
func NewHandler(users UserStore, tokens TokenIssuer, mail MailSender, baseURL string, resetTTL time.Duration, logger *zap.Logger) *Handler {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Handler{
		Users:         users,
		Tokens:        tokens,
		Mail:          mail,
		Log:           logger,
		BaseURL:       baseURL,
		SiteName:      "EcoTrack",
		ResetTokenTTL: resetTTL,
		now:           time.Now,
	}
}
