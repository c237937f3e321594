package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository backed by MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	IsSuperAdmin bool               `bson:"is_super_admin,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Email:        mu.Email,
		Name:         mu.Name,
		PasswordHash: mu.PasswordHash,
		IsSuperAdmin: mu.IsSuperAdmin,
		CreatedAt:    mu.CreatedAt,
		UpdatedAt:    mu.UpdatedAt,
	}
}

// Create inserts a new user. The unique index on email turns a concurrent
// duplicate insert into domain.ErrEmailExists atomically.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		IsSuperAdmin: user.IsSuperAdmin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return mu.toDomain(), nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
