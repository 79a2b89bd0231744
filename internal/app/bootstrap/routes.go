// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	accountfeature "github.com/dalemusser/ecotrack/internal/app/features/account"
	carbonfeature "github.com/dalemusser/ecotrack/internal/app/features/carbonfootprint"
	ecotipsfeature "github.com/dalemusser/ecotrack/internal/app/features/ecotips"
	errorsfeature "github.com/dalemusser/ecotrack/internal/app/features/errors"
	goalsfeature "github.com/dalemusser/ecotrack/internal/app/features/goals"
	healthfeature "github.com/dalemusser/ecotrack/internal/app/features/health"
	profilefeature "github.com/dalemusser/ecotrack/internal/app/features/profile"
	ecotipstore "github.com/dalemusser/ecotrack/internal/app/store/ecotips"
	metricsstore "github.com/dalemusser/ecotrack/internal/app/store/metrics"
	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/auth"
	"github.com/dalemusser/ecotrack/internal/app/system/mailer"
	"github.com/dalemusser/ecotrack/internal/app/system/metrics"
	"github.com/dalemusser/ecotrack/internal/app/system/reqlog"
	"github.com/dalemusser/ecotrack/internal/app/system/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// userStore is everything the feature handlers need from the user
// collection. *userstore.Store satisfies it.
type userStore interface {
	accountfeature.UserStore
	profilefeature.UserStore
	carbonfeature.EntryStore
	goalsfeature.GoalStore
}

// tokenService issues and verifies bearer tokens. *tokens.Issuer satisfies it.
type tokenService interface {
	accountfeature.TokenIssuer
	auth.TokenVerifier
}

// services are the backends the router is assembled from. BuildHandler
// fills it from MongoDB; tests fill it with in-memory fakes.
type services struct {
	Users   userStore
	Fetcher auth.UserFetcher
	Tips    ecotipsfeature.TipStore
	Pinger  healthfeature.Pinger
	Tokens  tokenService
	Mail    accountfeature.MailSender // nil when SMTP is not configured
	Counts  metrics.CountsFunc
}

// BuildHandler constructs the root HTTP handler after configuration, the
// DB connection, schema setup, and Startup have completed.
func BuildHandler(cfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	issuer, err := tokens.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	svc := services{
		Users:   userstore.New(db),
		Fetcher: userstore.NewFetcher(db),
		Tips:    ecotipstore.New(db),
		Pinger:  deps.MongoClient,
		Tokens:  issuer,
		Counts: func(ctx context.Context) metricsstore.Counts {
			return metricsstore.FetchCounts(ctx, db, logger)
		},
	}

	if cfg.MailSMTPHost != "" {
		svc.Mail = mailer.New(mailer.Config{
			Host:     cfg.MailSMTPHost,
			Port:     cfg.MailSMTPPort,
			User:     cfg.MailSMTPUser,
			Pass:     cfg.MailSMTPPass,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		}, logger)
	} else {
		logger.Warn("mail_smtp_host not set; password reset emails are disabled")
	}

	return newRouter(cfg, svc, logger), nil
}

// newRouter mounts every feature under its path.
//
// Public:    /health, /metrics, /api/v1/auth/*
// Protected: /api/v1/profile, /api/v1/carbon-footprint,
//
//	/api/v1/sustainability-goals, /api/v1/eco-friendly-practices
func newRouter(cfg AppConfig, svc services, logger *zap.Logger) http.Handler {
	errHandler := errorsfeature.NewHandler(logger)
	m := metrics.New(svc.Counts, cfg.TimeoutShort)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(reqlog.Middleware(logger))
	r.Use(m.Middleware) // wraps Recoverer, so recovered panics record as 500
	r.Use(errHandler.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(securityHeaders(cfg).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// Set before mounting so sub-routers inherit them.
	r.NotFound(errHandler.NotFound)
	r.MethodNotAllowed(errHandler.MethodNotAllowed)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(svc.Pinger, logger)))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	accountHandler := accountfeature.NewHandler(svc.Users, svc.Tokens, svc.Mail, cfg.BaseURL, cfg.ResetTokenExpiry, logger)
	authMW := auth.NewMiddleware(svc.Tokens, svc.Fetcher, logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", accountfeature.Routes(accountHandler))

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireBearer)
			pr.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(svc.Users, logger)))
			pr.Mount("/carbon-footprint", carbonfeature.Routes(carbonfeature.NewHandler(svc.Users, logger)))
			pr.Mount("/sustainability-goals", goalsfeature.Routes(goalsfeature.NewHandler(svc.Users, logger)))
			pr.Mount("/eco-friendly-practices", ecotipsfeature.Routes(ecotipsfeature.NewHandler(svc.Tips, logger)))
		})
	})

	return r
}

// securityHeaders sets the response headers a JSON API should always send.
// HSTS is only emitted in prod, and only on TLS requests.
func securityHeaders(cfg AppConfig) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         !cfg.IsProd(),
	})
}
