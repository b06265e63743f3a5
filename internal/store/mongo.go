package store

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoManager is the production Manager backed by MongoDB. Collections are
// auto-created by mongo on first insert.
type MongoManager struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoManager(ctx context.Context, uri, dbName string) (*MongoManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	return &MongoManager{client: client, db: client.Database(dbName)}, nil
}

func (m *MongoManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoManager) Insert(ctx context.Context, doc any, collection string) error {
	return withRetry(ctx, func() error {
		_, err := m.db.Collection(collection).InsertOne(ctx, doc)
		return classifyMongo(err)
	})
}

func (m *MongoManager) Find(ctx context.Context, f Filter, limit int64, collection string, out any) error {
	q := bson.M{}
	for k, v := range f.Eq {
		q[k] = v
	}
	if f.PathPrefix != "" {
		q["selection_path"] = bson.M{"$regex": "^" + regexp.QuoteMeta(f.PathPrefix)}
	}
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return withRetry(ctx, func() error {
		cur, err := m.db.Collection(collection).Find(ctx, q, opts)
		if err != nil {
			return classifyMongo(err)
		}
		defer cur.Close(ctx)
		if err := cur.All(ctx, out); err != nil {
			return classifyMongo(err)
		}
		return nil
	})
}

func (m *MongoManager) SyncIndices(ctx context.Context, collection string, fields []string) error {
	keys := bson.D{}
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	_, err := m.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys})
	if err != nil {
		return fmt.Errorf("sync indices on %s: %w", collection, err)
	}
	return nil
}

func classifyMongo(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return &TransientError{Err: err}
	}
	return &FatalError{Err: err}
}
