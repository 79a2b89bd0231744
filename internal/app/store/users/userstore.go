package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ecotrack/internal/app/system/normalize"
	"github.com/dalemusser/ecotrack/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when an insert or update would give two users the same email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is mongo.ErrNoDocuments, exported so callers need not import the driver.
	ErrNotFound = mongo.ErrNoDocuments
)

// GetByID loads a user by ObjectID. Returns ErrNotFound if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	u.EnsureCollections()
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns ErrNotFound if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	u.EnsureCollections()
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// The password must already be hashed (see models.User.SetPassword).
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.EnsureCollections()

	if err := u.Validate(); err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email": normalize.Email(email),
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// UpdateEmail changes a user's email. Returns ErrDuplicateEmail if the
// unique index rejects it and ErrNotFound if the user is gone.
func (s *Store) UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error {
	return s.update(ctx, id, bson.M{"$set": bson.M{
		"email":      normalize.Email(email),
		"updated_at": time.Now().UTC(),
	}})
}

// AppendCarbonEntry pushes one entry onto the user's carbon_entries array.
func (s *Store) AppendCarbonEntry(ctx context.Context, id primitive.ObjectID, e models.CarbonEntry) error {
	return s.update(ctx, id, bson.M{
		"$push": bson.M{"carbon_entries": e},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

// SetGoals replaces the user's sustainability goals wholesale.
func (s *Store) SetGoals(ctx context.Context, id primitive.ObjectID, goals []models.Goal) error {
	if goals == nil {
		goals = []models.Goal{}
	}
	return s.update(ctx, id, bson.M{"$set": bson.M{
		"sustainability_goals": goals,
		"updated_at":           time.Now().UTC(),
	}})
}

// SetResetToken stores the hash of a password-reset token and its expiry.
func (s *Store) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	return s.update(ctx, id, bson.M{"$set": bson.M{
		"reset_password_token":   tokenHash,
		"reset_password_expires": expires.UTC(),
		"updated_at":             time.Now().UTC(),
	}})
}

// ResetPassword stores a new password hash and clears any reset token.
func (s *Store) ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return s.update(ctx, id, bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		},
		"$unset": bson.M{
			"reset_password_token":   "",
			"reset_password_expires": "",
		},
	})
}

// ClearExpiredResetTokens removes reset tokens that expired before now and
// returns how many users were touched.
func (s *Store) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"reset_password_expires": bson.M{"$lt": now.UTC()}},
		bson.M{"$unset": bson.M{
			"reset_password_token":   "",
			"reset_password_expires": "",
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, upd bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, upd)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
