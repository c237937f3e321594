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

const (
	orgsCollection        = "orgs"
	membershipsCollection = "memberships"
)

// OrgRepository implements ports.OrgRepository backed by MongoDB.
type OrgRepository struct {
	orgs        *mongo.Collection
	memberships *mongo.Collection
}

func NewOrgRepository(db *mongo.Database) *OrgRepository {
	return &OrgRepository{
		orgs:        db.Collection(orgsCollection),
		memberships: db.Collection(membershipsCollection),
	}
}

type mongoOrg struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	OwnerID   primitive.ObjectID `bson:"owner_id"`
	Plan      string             `bson:"plan"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type mongoMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	OrgID     primitive.ObjectID `bson:"org_id"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (mo *mongoOrg) toDomain() *domain.Org {
	return &domain.Org{
		ID:        mo.ID.Hex(),
		Name:      mo.Name,
		OwnerID:   mo.OwnerID.Hex(),
		Plan:      mo.Plan,
		IsActive:  mo.IsActive,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}

func (mm *mongoMembership) toDomain() domain.Membership {
	return domain.Membership{
		ID:        mm.ID.Hex(),
		UserID:    mm.UserID.Hex(),
		OrgID:     mm.OrgID.Hex(),
		Role:      mm.Role,
		CreatedAt: mm.CreatedAt,
	}
}

func (r *OrgRepository) CreateOrg(ctx context.Context, org *domain.Org) (*domain.Org, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ownerID, err := primitive.ObjectIDFromHex(org.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("create org: bad owner id: %w", err)
	}

	doc := mongoOrg{
		Name:      org.Name,
		OwnerID:   ownerID,
		Plan:      org.Plan,
		IsActive:  org.IsActive,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}

	res, err := r.orgs.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert org: %w", err)
	}

	created := *org
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *OrgRepository) FindOrgByID(ctx context.Context, id string) (*domain.Org, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrgNotFound
	}

	var mo mongoOrg
	if err := r.orgs.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrgNotFound
		}
		return nil, fmt.Errorf("find org: %w", err)
	}
	return mo.toDomain(), nil
}

// CreateMembership inserts a membership. The unique (user_id, org_id) index
// rejects concurrent duplicates atomically; there is no check-then-insert.
func (r *OrgRepository) CreateMembership(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("create membership: bad user id: %w", err)
	}
	orgID, err := primitive.ObjectIDFromHex(m.OrgID)
	if err != nil {
		return nil, fmt.Errorf("create membership: bad org id: %w", err)
	}

	doc := mongoMembership{
		UserID:    userID,
		OrgID:     orgID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}

	res, err := r.memberships.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMembershipExists
		}
		return nil, fmt.Errorf("insert membership: %w", err)
	}

	created := *m
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// ListMembershipsByUser returns memberships ordered by creation time,
// earliest first, so "first membership" is deterministic everywhere.
func (r *OrgRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.memberships.Find(ctx, bson.M{"user_id": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Membership
	for cursor.Next(ctx) {
		var mm mongoMembership
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode membership: %w", err)
		}
		out = append(out, mm.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return out, nil
}

func (r *OrgRepository) IsMember(ctx context.Context, userID, orgID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}
	oid, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return false, nil
	}

	n, err := r.memberships.CountDocuments(ctx, bson.M{"user_id": uid, "org_id": oid})
	if err != nil {
		return false, fmt.Errorf("count memberships: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the owner index on orgs and the unique compound
// membership index that backs the one-membership-per-pair invariant.
func (r *OrgRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.orgs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}},
	}); err != nil {
		return err
	}

	_, err := r.memberships.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "org_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "org_id", Value: 1}}},
	})
	return err
}
