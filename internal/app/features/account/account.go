// internal/app/features/account/account.go
package account

import (
	"errors"
	"net/http"
	"sync"

	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/credentials"
	"github.com/dalemusser/ecotrack/internal/app/system/httpjson"
	"github.com/dalemusser/ecotrack/internal/app/system/inputval"
	"github.com/dalemusser/ecotrack/internal/app/system/normalize"
	"github.com/dalemusser/ecotrack/internal/app/system/timeouts"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.uber.org/zap"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgInvalidCredentials = "Invalid credentials"
	msgEmailExists        = "Email already exists"
	msgInternal           = "Something went wrong!"
)

type registerRequest struct {
	Email            string          `json:"email"`
	Password         string          `json:"password"`
	UserType         models.UserType `json:"userType"`
	OrganizationName string          `json:"organizationName"`
	OrganizationSize int             `json:"organizationSize"`
	FamilyMembers    []struct {
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"familyMembers"`
}

type registerResponse struct {
	Message  string          `json:"message"`
	Token    string          `json:"token"`
	UserType models.UserType `json:"userType"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token            string                `json:"token"`
	UserType         models.UserType       `json:"userType"`
	Message          string                `json:"message"`
	OrganizationName string                `json:"organizationName,omitempty"`
	OrganizationSize int                   `json:"organizationSize,omitempty"`
	FamilyMembers    []models.FamilyMember `json:"familyMembers,omitempty"`
}

// HandleRegister creates an account and returns a token for it.
// POST /api/v1/auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "account.register")
	defer cancel()

	email := normalize.Email(req.Email)
	if email != "" {
		if _, err := h.Users.GetByEmail(ctx, email); err == nil {
			httpjson.Error(w, http.StatusBadRequest, msgEmailExists)
			return
		} else if !errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("register: email lookup failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, msgInternal)
			return
		}
	}

	// Type-specific fields are kept only for the type that owns them.
	u := models.User{UserType: req.UserType, Email: email}
	switch req.UserType {
	case models.UserBusiness:
		u.OrganizationName = normalize.Name(req.OrganizationName)
		u.OrganizationSize = req.OrganizationSize
	case models.UserFamily:
		for _, m := range req.FamilyMembers {
			u.FamilyMembers = append(u.FamilyMembers, models.FamilyMember{
				Name: normalize.Name(m.Name),
				Role: normalize.Name(m.Role),
			})
		}
	}

	if err := u.SetPassword(req.Password); err != nil {
		h.writeRegisterError(w, err)
		return
	}

	created, err := h.Users.Create(ctx, u)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}

	token, err := h.Tokens.Issue(created.ID.Hex(), string(created.UserType), created.OrganizationName)
	if err != nil {
		h.Log.Error("register: token issue failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.String("user_type", string(created.UserType)))

	httpjson.Write(w, http.StatusCreated, registerResponse{
		Message:  "Registration successful",
		Token:    token,
		UserType: created.UserType,
	})
}

func (h *Handler) writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		httpjson.Error(w, http.StatusBadRequest, msgEmailExists)
	case errors.Is(err, models.ErrOrganizationRequired):
		httpjson.Error(w, http.StatusBadRequest, "Organization name and size required for business registration")
	case errors.Is(err, models.ErrFamilyMemberRequired):
		httpjson.Error(w, http.StatusBadRequest, "At least one family member required for family registration")
	case errors.Is(err, credentials.ErrPasswordTooShort):
		httpjson.Error(w, http.StatusBadRequest, "Password must be at least 6 characters")
	case inputval.IsValidation(err):
		httpjson.Error(w, http.StatusBadRequest, inputval.Message(err))
	default:
		h.Log.Error("register: create user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgInternal)
	}
}

// Indirection over the bcrypt calls the account flows make per request.
var (
	hashSecret   = credentials.Hash
	verifySecret = credentials.Verify
)

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := credentials.Hash("ecotrack-dummy-password")
	return h
})

// HandleLogin exchanges email and password for a token. Unknown email and
// wrong password produce the same response.
// POST /api/v1/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "account.login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.Log.Error("login: user lookup failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, msgInternal)
			return
		}
		verifySecret(req.Password, dummyHash())
		httpjson.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if !verifySecret(req.Password, u.PasswordHash) {
		httpjson.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(u.ID.Hex(), string(u.UserType), u.OrganizationName)
	if err != nil {
		h.Log.Error("login: token issue failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}

	resp := loginResponse{
		Token:    token,
		UserType: u.UserType,
		Message:  "Login successful",
	}
	switch u.UserType {
	case models.UserBusiness:
		resp.OrganizationName = u.OrganizationName
		resp.OrganizationSize = u.OrganizationSize
	case models.UserFamily:
		resp.FamilyMembers = u.FamilyMembers
	}

	h.Log.Debug("login succeeded", zap.String("user_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusOK, resp)
}
