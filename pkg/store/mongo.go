package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rackworks/rackviz/pkg/rack"
)

const racksCollection = "racks"

// MongoStore persists racks in MongoDB for shared deployments.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(racksCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*RackRecord, error) {
	var rec RackRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*RackRecord, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "rack.name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []*RackRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Create(ctx context.Context, r *rack.Rack) (*RackRecord, error) {
	now := time.Now().UTC()
	rec := &RackRecord{
		ID:        uuid.NewString(),
		Rack:      *r,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.Rack.ID = rec.ID

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, r *rack.Rack) (*RackRecord, error) {
	now := time.Now().UTC()
	payload := *r
	payload.ID = id

	res := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"rack": payload, "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var rec RackRecord
	err := res.Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements RackStore.
var _ RackStore = (*MongoStore)(nil)
