package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements ProductStore using a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a new instance of ProductStore backed by the given collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the secondary indexes used by the aggregations.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: FieldCategory, Value: 1}},
		Options: options.Index().SetName("product_category"),
	})
	if err != nil {
		return unavailable("failed to create product indexes", err)
	}
	return nil
}

// Insert stores a new product and returns its ObjectID in hex form.
func (m *MongoStore) Insert(ctx context.Context, p Product) (string, error) {
	p.ID = primitive.NilObjectID
	res, err := m.coll.InsertOne(ctx, p)
	if err != nil {
		return "", unavailable("failed to insert product", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindAll retrieves all products in natural order.
func (m *MongoStore) FindAll(ctx context.Context) ([]Product, error) {
	cursor, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, unavailable("failed to find all products", err)
	}
	products := make([]Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, unavailable("failed to decode products", err)
	}
	return products, nil
}

// FindByID retrieves a product by its ID.
// An ID that is not a valid ObjectID cannot exist and is reported as not found.
func (m *MongoStore) FindByID(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var p Product
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, unavailable("failed to find product by ID", err)
	}
	return &p, nil
}

// UpdateByID sets all product fields of the document with the given ID.
func (m *MongoStore) UpdateByID(ctx context.Context, id string, p Product) (UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return UpdateResult{}, nil
	}
	p.ID = primitive.NilObjectID
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": p})
	if err != nil {
		return UpdateResult{}, unavailable("failed to update product", err)
	}
	return UpdateResult{Matched: res.MatchedCount > 0, Modified: res.ModifiedCount > 0}, nil
}

// DeleteByID removes the document with the given ID.
func (m *MongoStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, unavailable("failed to delete product", err)
	}
	return res.DeletedCount > 0, nil
}

// CountAll returns the number of documents in the collection.
func (m *MongoStore) CountAll(ctx context.Context) (int64, error) {
	count, err := m.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, unavailable("failed to count products", err)
	}
	return count, nil
}

// MostFrequent groups documents by field and returns the value with the highest count.
func (m *MongoStore) MostFrequent(ctx context.Context, field string) (string, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: 1}},
	}
	var groups []struct {
		Value any   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := m.aggregate(ctx, pipeline, &groups); err != nil {
		return "", false, err
	}
	if len(groups) == 0 {
		return "", false, nil
	}
	if s, ok := groups[0].Value.(string); ok {
		return s, true, nil
	}
	return fmt.Sprint(groups[0].Value), true, nil
}

// Average returns the average value of a numeric field over all documents.
func (m *MongoStore) Average(ctx context.Context, field string) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$" + field}}},
		}}},
	}
	var groups []struct {
		Average *float64 `bson:"average"`
	}
	if err := m.aggregate(ctx, pipeline, &groups); err != nil {
		return 0, false, err
	}
	if len(groups) == 0 || groups[0].Average == nil {
		return 0, false, nil
	}
	return *groups[0].Average, true, nil
}

func (m *MongoStore) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return unavailable("failed to run aggregation", err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return unavailable("failed to decode aggregation result", err)
	}
	return nil
}

// unavailable wraps a driver error so callers can match ErrStoreUnavailable.
func unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, perrors.ErrStoreUnavailable, err)
}
