// internal/domain/models/user.go
package models

import (
	"errors"
	"math"
	"time"

	"github.com/dalemusser/ecotrack/internal/app/system/credentials"
	"github.com/dalemusser/ecotrack/internal/app/system/inputval"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserType is the kind of account: individual, family or business.
type UserType string

const (
	UserIndividual UserType = "individual"
	UserFamily     UserType = "family"
	UserBusiness   UserType = "business"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	switch t {
	case UserIndividual, UserFamily, UserBusiness:
		return true
	}
	return false
}

var (
	// ErrOrganizationRequired is returned for business users without a name or positive size.
	ErrOrganizationRequired = errors.New("organization name and size required for business registration")
	// ErrFamilyMemberRequired is returned for family users without any members.
	ErrFamilyMemberRequired = errors.New("at least one family member required for family registration")
)

// FamilyMember is a person tracked under a family account.
type FamilyMember struct {
	Name          string        `bson:"name" json:"name" validate:"required"`
	Role          string        `bson:"role" json:"role" validate:"required"`
	CarbonEntries []CarbonEntry `bson:"carbon_entries" json:"carbonEntries" validate:"dive"`
}

// User is the account aggregate. Carbon entries, goals and family members
// are owned values with no identity of their own.
//
// NOTE:
//   - Groups holds opaque references only; nothing in this service
//     resolves them.
//   - PasswordHash and the reset-token fields never leave the server.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserType UserType           `bson:"user_type" json:"userType" validate:"required,oneof=individual family business"`
	Email    string             `bson:"email" json:"email" validate:"required,ecoemail"`

	PasswordHash string `bson:"password_hash" json:"-" validate:"required"`

	OrganizationName string `bson:"organization_name,omitempty" json:"organizationName,omitempty"`
	OrganizationSize int    `bson:"organization_size,omitempty" json:"organizationSize,omitempty" validate:"gte=0"`

	FamilyMembers       []FamilyMember `bson:"family_members" json:"familyMembers" validate:"dive"`
	CarbonEntries       []CarbonEntry  `bson:"carbon_entries" json:"carbonEntries" validate:"dive"`
	SustainabilityGoals []Goal         `bson:"sustainability_goals" json:"sustainabilityGoals" validate:"dive"`

	// Baselines used by UpdateGoalProgress.
	InitialEnergyConsumption float64 `bson:"initial_energy_consumption" json:"initialEnergyConsumption" validate:"gte=0"`
	InitialWasteDisposal     float64 `bson:"initial_waste_disposal" json:"initialWasteDisposal" validate:"gte=0"`
	CurrentEnergyConsumption float64 `bson:"current_energy_consumption" json:"currentEnergyConsumption" validate:"gte=0"`
	CurrentWasteDisposal     float64 `bson:"current_waste_disposal" json:"currentWasteDisposal" validate:"gte=0"`

	Groups []primitive.ObjectID `bson:"groups,omitempty" json:"groups,omitempty"`

	ResetPasswordTokenHash string     `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires   *time.Time `bson:"reset_password_expires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// SetPassword validates plain and replaces the stored hash. The hash is
// computed here, once; saving a user never rehashes.
func (u *User) SetPassword(plain string) error {
	if err := credentials.ValidatePassword(plain); err != nil {
		return err
	}
	h, err := credentials.Hash(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	return nil
}

// CheckPassword reports whether candidate matches the stored hash.
func (u *User) CheckPassword(candidate string) bool {
	return credentials.Verify(candidate, u.PasswordHash)
}

// Validate enforces field rules plus the per-type requirements:
// business users carry organization details and family users at least
// one member.
func (u *User) Validate() error {
	if err := inputval.Struct(u); err != nil {
		return err
	}
	switch u.UserType {
	case UserBusiness:
		if u.OrganizationName == "" || u.OrganizationSize <= 0 {
			return ErrOrganizationRequired
		}
	case UserFamily:
		if len(u.FamilyMembers) == 0 {
			return ErrFamilyMemberRequired
		}
	}
	return nil
}

// TotalFootprint sums the totals of the user's own carbon entries.
func (u *User) TotalFootprint() float64 {
	var total float64
	for _, e := range u.CarbonEntries {
		total += e.TotalFootprint
	}
	return total
}

// UpdateGoalProgress recomputes progress for energy and waste goals from the
// consumption baselines. Transportation goals have no baseline and are left
// as they are.
func (u *User) UpdateGoalProgress() {
	for i := range u.SustainabilityGoals {
		g := &u.SustainabilityGoals[i]
		switch g.Category {
		case CategoryEnergy:
			g.Progress = reductionProgress(u.InitialEnergyConsumption, u.CurrentEnergyConsumption, g.TargetReduction)
		case CategoryWaste:
			g.Progress = reductionProgress(u.InitialWasteDisposal, u.CurrentWasteDisposal, g.TargetReduction)
		}
	}
}

// reductionProgress is the percent reduction from initial to current,
// clamped to [0, target]. A zero baseline counts as no progress.
func reductionProgress(initial, current, target float64) float64 {
	if initial == 0 {
		return 0
	}
	reduction := (initial - current) / initial * 100
	if math.IsNaN(reduction) {
		return 0
	}
	return math.Max(0, math.Min(reduction, target))
}

// EnsureCollections replaces nil slices with empty ones so they encode as
// [] rather than null.
func (u *User) EnsureCollections() {
	if u.FamilyMembers == nil {
		u.FamilyMembers = []FamilyMember{}
	}
	for i := range u.FamilyMembers {
		if u.FamilyMembers[i].CarbonEntries == nil {
			u.FamilyMembers[i].CarbonEntries = []CarbonEntry{}
		}
	}
	if u.CarbonEntries == nil {
		u.CarbonEntries = []CarbonEntry{}
	}
	if u.SustainabilityGoals == nil {
		u.SustainabilityGoals = []Goal{}
	}
}
