package testutil

import (
	"testing"
	"time"

	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPassword is the plaintext password fixture users are created with.
const DefaultPassword = "secret123"

// NewIndividual returns an unsaved individual user with a hashed
// DefaultPassword.
func NewIndividual(t *testing.T, email string) models.User {
	t.Helper()
	u := models.User{
		UserType: models.UserIndividual,
		Email:    email,
	}
	if err := u.SetPassword(DefaultPassword); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	u.EnsureCollections()
	return u
}

// NewBusiness returns an unsaved business user.
func NewBusiness(t *testing.T, email, org string, size int) models.User {
	t.Helper()
	u := NewIndividual(t, email)
	u.UserType = models.UserBusiness
	u.OrganizationName = org
	u.OrganizationSize = size
	return u
}

// NewFamily returns an unsaved family user with the given members.
func NewFamily(t *testing.T, email string, members ...models.FamilyMember) models.User {
	t.Helper()
	u := NewIndividual(t, email)
	u.UserType = models.UserFamily
	u.FamilyMembers = members
	u.EnsureCollections()
	return u
}

// SavedIndividual returns an individual user with an ID and timestamps, as
// if loaded from the database.
func SavedIndividual(t *testing.T, email string) *models.User {
	t.Helper()
	u := NewIndividual(t, email)
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return &u
}
