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
	"github.com/ericrr237-labz/IVY/internal/core/ports"
)

const recordsCollection = "records"

// RecordRepository implements ports.RecordRepository backed by MongoDB.
// Every query filters by org_id, so a record in another org is
// indistinguishable from a missing one.
type RecordRepository struct {
	coll *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{coll: db.Collection(recordsCollection)}
}

type mongoRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Key            string             `bson:"key"`
	Value          float64            `bson:"value"`
	Date           time.Time          `bson:"date"`
	Category       string             `bson:"category,omitempty"`
	Note           string             `bson:"note,omitempty"`
	Type           string             `bson:"type,omitempty"`
	MarketingSpend float64            `bson:"marketing_spend,omitempty"`
	NewCustomers   int                `bson:"new_customers,omitempty"`
	OrgID          primitive.ObjectID `bson:"org_id"`
	CreatedBy      primitive.ObjectID `bson:"created_by"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (mr *mongoRecord) toDomain() *domain.Record {
	return &domain.Record{
		ID:             mr.ID.Hex(),
		Key:            mr.Key,
		Value:          mr.Value,
		Date:           mr.Date,
		Category:       mr.Category,
		Note:           mr.Note,
		Type:           mr.Type,
		MarketingSpend: mr.MarketingSpend,
		NewCustomers:   mr.NewCustomers,
		OrgID:          mr.OrgID.Hex(),
		CreatedBy:      mr.CreatedBy.Hex(),
		CreatedAt:      mr.CreatedAt,
		UpdatedAt:      mr.UpdatedAt,
	}
}

func (r *RecordRepository) Insert(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	orgID, err := primitive.ObjectIDFromHex(rec.OrgID)
	if err != nil {
		return nil, fmt.Errorf("insert record: bad org id: %w", err)
	}
	createdBy, err := primitive.ObjectIDFromHex(rec.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("insert record: bad creator id: %w", err)
	}

	doc := mongoRecord{
		Key:            rec.Key,
		Value:          rec.Value,
		Date:           rec.Date,
		Category:       rec.Category,
		Note:           rec.Note,
		Type:           rec.Type,
		MarketingSpend: rec.MarketingSpend,
		NewCustomers:   rec.NewCustomers,
		OrgID:          orgID,
		CreatedBy:      createdBy,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	created := *rec
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *RecordRepository) FindByID(ctx context.Context, orgID, id string) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := scopedFilter(orgID, id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	var mr mongoRecord
	if err := r.coll.FindOne(ctx, filter).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RecordRepository) List(ctx context.Context, filter ports.ListRecordsFilter) ([]domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	orgID, err := primitive.ObjectIDFromHex(filter.OrgID)
	if err != nil {
		return nil, nil
	}

	q := bson.M{"org_id": orgID}
	if filter.Key != "" {
		q["key"] = filter.Key
	}
	if !filter.DateFrom.IsZero() || !filter.DateTo.IsZero() {
		dateRange := bson.M{}
		if !filter.DateFrom.IsZero() {
			dateRange["$gte"] = filter.DateFrom
		}
		if !filter.DateTo.IsZero() {
			dateRange["$lte"] = filter.DateTo
		}
		q["date"] = dateRange
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Record
	for cursor.Next(ctx) {
		var mr mongoRecord
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, *mr.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}

// Update applies the patch as a single $set. The patch type has no org or
// creator fields, so the stamps cannot be rewritten.
func (r *RecordRepository) Update(ctx context.Context, orgID, id string, patch ports.RecordPatch) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := scopedFilter(orgID, id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Key != nil {
		set["key"] = *patch.Key
	}
	if patch.Value != nil {
		set["value"] = *patch.Value
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Note != nil {
		set["note"] = *patch.Note
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.MarketingSpend != nil {
		set["marketing_spend"] = *patch.MarketingSpend
	}
	if patch.NewCustomers != nil {
		set["new_customers"] = *patch.NewCustomers
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mr mongoRecord
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&mr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("update record: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RecordRepository) Delete(ctx context.Context, orgID, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := scopedFilter(orgID, id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return res.DeletedCount == 1, nil
}

// SumValuesByKey totals record values for an (org, key) pair with a single
// aggregation round trip.
func (r *RecordRepository) SumValuesByKey(ctx context.Context, orgID, key string, from, to time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	org, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return 0, nil
	}

	match := bson.M{"org_id": org, "key": key}
	if !from.IsZero() || !to.IsZero() {
		dateRange := bson.M{}
		if !from.IsZero() {
			dateRange["$gte"] = from
		}
		if !to.IsZero() {
			dateRange["$lte"] = to
		}
		match["date"] = dateRange
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$value"}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum records: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("decode sum: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("sum records: %w", err)
	}
	return result.Total, nil
}

// EnsureIndexes creates the compound indexes that back org-scoped listings.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "key", Value: 1}, {Key: "date", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// scopedFilter builds the org+id filter used by single-record operations.
// A malformed id is treated the same as a missing record.
func scopedFilter(orgID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	org, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "org_id": org}, nil
}
