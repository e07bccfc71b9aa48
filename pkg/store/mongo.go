package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/sketchgraph/pkg/diagram"
	"github.com/matzehuels/sketchgraph/pkg/errors"
)

const (
	mongoConnectTimeout = 10 * time.Second
	mongoDatabase       = "sketchgraph"
	mongoCollection     = "diagrams"
)

// mongoDocument wraps a diagram document with its storage id.
type mongoDocument struct {
	ID        string            `bson:"_id"`
	Document  *diagram.Document `bson:"document"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

// MongoStore persists documents in a MongoDB collection, one record per
// document id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a document store.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, id string, doc *diagram.Document) error {
	record := mongoDocument{
		ID:        id,
		Document:  doc,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": id},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "upsert document %q", id)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (*diagram.Document, error) {
	var record mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "load document %q", id)
	}
	return record.Document, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "disconnect mongodb")
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
