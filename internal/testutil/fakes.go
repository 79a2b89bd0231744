package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	userstore "github.com/dalemusser/ecotrack/internal/app/store/users"
	"github.com/dalemusser/ecotrack/internal/app/system/normalize"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FakeUsers is an in-memory stand-in for userstore.Store. It reports the
// same errors the Mongo store does.
type FakeUsers struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.User
	Err   error // when set, every call returns it
	Calls int
}

// NewFakeUsers returns an empty FakeUsers seeded with users.
func NewFakeUsers(users ...*models.User) *FakeUsers {
	f := &FakeUsers{byID: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = *u
	}
	return f
}

func (f *FakeUsers) begin() error {
	f.Calls++
	return f.Err
}

// Get returns a copy of the stored user, for assertions.
func (f *FakeUsers) Get(id primitive.ObjectID) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	return u, ok
}

// Delete removes a user.
func (f *FakeUsers) Delete(id primitive.ObjectID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

func (f *FakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	u.EnsureCollections()
	return &u, nil
}

func (f *FakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return nil, err
	}
	email = normalize.Email(email)
	for _, u := range f.byID {
		if u.Email == email {
			u.EnsureCollections()
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *FakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return models.User{}, err
	}
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.EnsureCollections()
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	for _, other := range f.byID {
		if other.Email == u.Email {
			return models.User{}, userstore.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	f.byID[u.ID] = u
	return u, nil
}

func (f *FakeUsers) EmailExistsForOther(_ context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return false, err
	}
	email = normalize.Email(email)
	for id, u := range f.byID {
		if id != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeUsers) modify(id primitive.ObjectID, fn func(u *models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(); err != nil {
		return err
	}
	u, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	f.byID[id] = u
	return nil
}

func (f *FakeUsers) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	email = normalize.Email(email)
	if taken, err := f.EmailExistsForOther(ctx, email, id); err != nil {
		return err
	} else if taken {
		return userstore.ErrDuplicateEmail
	}
	return f.modify(id, func(u *models.User) { u.Email = email })
}

func (f *FakeUsers) AppendCarbonEntry(_ context.Context, id primitive.ObjectID, e models.CarbonEntry) error {
	return f.modify(id, func(u *models.User) { u.CarbonEntries = append(u.CarbonEntries, e) })
}

func (f *FakeUsers) SetGoals(_ context.Context, id primitive.ObjectID, goals []models.Goal) error {
	if goals == nil {
		goals = []models.Goal{}
	}
	return f.modify(id, func(u *models.User) { u.SustainabilityGoals = goals })
}

func (f *FakeUsers) SetResetToken(_ context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	return f.modify(id, func(u *models.User) {
		u.ResetPasswordTokenHash = tokenHash
		exp := expires.UTC()
		u.ResetPasswordExpires = &exp
	})
}

func (f *FakeUsers) ResetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	return f.modify(id, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.ResetPasswordTokenHash = ""
		u.ResetPasswordExpires = nil
	})
}

// FakeTips is an in-memory stand-in for ecotipstore.Store.
type FakeTips struct {
	mu   sync.Mutex
	tips []models.EcoTip
	Err  error
}

// NewFakeTips returns a FakeTips seeded with tips.
func NewFakeTips(tips ...models.EcoTip) *FakeTips {
	return &FakeTips{tips: append([]models.EcoTip(nil), tips...)}
}

func (f *FakeTips) Create(_ context.Context, tip models.EcoTip) (models.EcoTip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return models.EcoTip{}, f.Err
	}
	tip.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tip.CreatedAt, tip.UpdatedAt = now, now
	f.tips = append(f.tips, tip)
	return tip, nil
}

func (f *FakeTips) ListNewest(_ context.Context) ([]models.EcoTip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	// Reverse insertion order first so equal timestamps still list newest first.
	out := make([]models.EcoTip, 0, len(f.tips))
	for i := len(f.tips) - 1; i >= 0; i-- {
		out = append(out, f.tips[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
