package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/goatledger/internal/domain/models"
	"github.com/mamadbah2/goatledger/internal/repository/kv"
)

const (
	blobCollection     = "ledger_blobs"
	snapshotCollection = "summary_snapshots"
)

// SnapshotRepository defines the interface for summary snapshot storage.
type SnapshotRepository interface {
	SaveSummarySnapshot(ctx context.Context, snapshot models.SummarySnapshot) error
}

// MongoDBRepository stores the ledger blob and the archived summary snapshots.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

type blobDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// Get reads the blob stored under key.
func (r *MongoDBRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var doc blobDocument
	err := r.collection(blobCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read ledger blob %s: %w", key, err)
	}
	return doc.Value, true, nil
}

// Set replaces the blob stored under key, inserting it when missing.
func (r *MongoDBRepository) Set(ctx context.Context, key, value string) error {
	doc := blobDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection(blobCollection).ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("failed to write ledger blob %s: %w", key, err)
	}
	return nil
}

// SaveSummarySnapshot archives a summary snapshot.
func (r *MongoDBRepository) SaveSummarySnapshot(ctx context.Context, snapshot models.SummarySnapshot) error {
	_, err := r.collection(snapshotCollection).InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert summary snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

var (
	_ kv.Backend         = (*MongoDBRepository)(nil)
	_ SnapshotRepository = (*MongoDBRepository)(nil)
)
