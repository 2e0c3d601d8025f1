package storage

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDocument struct {
	Key       string    `bson:"_id"`
	Body      []byte    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStorage implements the Storage interface on a mongo collection named after the
// bucket.
type MongoStorage struct {
	Config     Config
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStorage connects to config.DSN and selects config.Database.
func NewMongoStorage(ctx context.Context, config Config) (*MongoStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.DSN))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}

	return &MongoStorage{
		Config:     config,
		client:     client,
		collection: client.Database(config.Database).Collection(config.Bucket),
	}, nil
}

func (m *MongoStorage) Write(ctx context.Context, key string, body []byte,
	opts *Options) error {

	doc := mongoDocument{
		Key:       key,
		Body:      body,
		UpdatedAt: time.Now(),
	}

	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "write %s", key)
	}

	return nil
}

func (m *MongoStorage) Read(ctx context.Context, key string) ([]byte, error) {
	var doc mongoDocument
	if err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %s", key)
	}

	return doc.Body, nil
}

func (m *MongoStorage) Remove(ctx context.Context, key string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return errors.Wrapf(err, "delete %s", key)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (m *MongoStorage) Search(ctx context.Context, query map[string]string) ([][]byte, error) {
	docs, err := m.find(ctx, query["path"])
	if err != nil {
		return nil, err
	}

	result := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.Body)
	}
	return result, nil
}

func (m *MongoStorage) List(ctx context.Context, path string) ([]string, error) {
	docs, err := m.find(ctx, path)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		keys = append(keys, doc.Key)
	}
	return keys, nil
}

func (m *MongoStorage) Clear(ctx context.Context, query map[string]string) error {
	if _, err := m.collection.DeleteMany(ctx, childFilter(query["path"])); err != nil {
		return errors.Wrap(err, "clear")
	}

	return nil
}

// Close disconnects the client.
func (m *MongoStorage) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoStorage) find(ctx context.Context, path string) ([]mongoDocument, error) {
	cursor, err := m.collection.Find(ctx, childFilter(path),
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find")
	}
	defer cursor.Close(ctx)

	var docs []mongoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode")
	}

	return docs, nil
}

// childFilter matches ids directly under path.
func childFilter(path string) bson.M {
	pattern := "^" + regexp.QuoteMeta(childPrefix(path)) + "[^/]+$"
	return bson.M{"_id": bson.M{"$regex": pattern}}
}
