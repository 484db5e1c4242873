package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"contentproof/internal/model"
	"contentproof/internal/repository"
)

// VerificationMongo stores audit records in MongoDB.
type VerificationMongo struct {
	coll *mongo.Collection
}

func NewVerificationMongo(db *mongo.Database) *VerificationMongo {
	return &VerificationMongo{coll: db.Collection(verificationsCollection)}
}

var _ repository.VerificationRepository = (*VerificationMongo)(nil)

func (r *VerificationMongo) Create(ctx context.Context, rec *model.VerificationRecord) (*model.VerificationRecord, error) {
	doc := *rec
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}
	return &doc, nil
}

func (r *VerificationMongo) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.VerificationRecord], error) {
	filter := bson.M{"user_id": userID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count verifications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(pq.Offset)).
		SetLimit(int64(pq.Limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]model.VerificationRecord, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode verifications: %w", err)
	}

	return &repository.PageResult[model.VerificationRecord]{Items: items, Total: int(total)}, nil
}
