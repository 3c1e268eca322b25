package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/record"
	"github.com/fulldump/gridadmin/source"
)

const DefaultMongoDatabase = "clothing_store_db"

// Mongo serves collections and aggregation reports from a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

func OpenMongo(ctx context.Context, uri, database string, logger *zap.Logger) (*Mongo, error) {

	if uri == "" {
		return nil, fmt.Errorf("mongo backend needs an uri")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %s", source.ErrUnavailable, err.Error())
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %s", source.ErrUnavailable, err.Error())
	}

	logger.Info("connected to mongo", zap.String("database", database))

	return &Mongo{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) List(ctx context.Context, endpoint string) ([]record.Record, error) {

	var cursor *mongo.Cursor
	var err error
	if strings.HasPrefix(endpoint, reportsPrefix) {
		name := strings.TrimPrefix(endpoint, reportsPrefix)
		report, ok := pipelines[name]
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", source.ErrNotFound, endpoint)
		}
		cursor, err = m.db.Collection(report.collection).Aggregate(ctx, report.pipeline)
	} else {
		cursor, err = m.db.Collection(endpoint).Find(ctx, bson.D{})
	}
	if err != nil {
		return nil, fmt.Errorf("query '%s': %w", endpoint, err)
	}

	documents := []bson.M{}
	err = cursor.All(ctx, &documents)
	if err != nil {
		return nil, fmt.Errorf("read '%s': %w", endpoint, err)
	}

	batch := make([]record.Record, len(documents))
	for i, doc := range documents {
		batch[i] = record.Normalize(doc)
	}
	return batch, nil
}

func (m *Mongo) Get(ctx context.Context, endpoint, id string) (record.Record, error) {
	doc := bson.M{}
	err := m.db.Collection(endpoint).FindOne(ctx, byID(id)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: '%s' in '%s'", source.ErrNotFound, id, endpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("find '%s': %w", id, err)
	}
	return record.Normalize(doc), nil
}

func (m *Mongo) Create(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	result, err := m.db.Collection(endpoint).InsertOne(ctx, document(payload))
	if err != nil {
		return "", fmt.Errorf("insert into '%s': %w", endpoint, err)
	}
	return record.NormalizeValue(result.InsertedID).Text(), nil
}

func (m *Mongo) Update(ctx context.Context, endpoint, id string, payload map[string]any) error {
	doc := document(payload)
	delete(doc, "_id")
	result, err := m.db.Collection(endpoint).UpdateOne(ctx, byID(id), bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("update '%s': %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: '%s' in '%s'", source.ErrNotFound, id, endpoint)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, endpoint, id string) error {
	result, err := m.db.Collection(endpoint).DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete '%s': %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: '%s' in '%s'", source.ErrNotFound, id, endpoint)
	}
	return nil
}

// objectID returns the ObjectID of a 24 hex string, the string otherwise.
func objectID(id string) any {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return id
	}
	return oid
}

func byID(id string) bson.M {
	return bson.M{"_id": objectID(id)}
}

// document turns an API payload into a bson document. Identity and foreign
// key strings become ObjectIDs so $lookup stages can join them.
func document(payload map[string]any) bson.M {
	doc := bson.M{}
	for k, v := range payload {
		if s, ok := v.(string); ok && (k == "_id" || strings.HasSuffix(k, "_id")) {
			doc[k] = objectID(s)
			continue
		}
		doc[k] = v
	}
	return doc
}

type pipeline struct {
	collection string
	pipeline   mongo.Pipeline
}

func lookup(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func unwind(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: path}}
}

var pipelines = map[string]pipeline{
	"brands-with-sales": {
		collection: "sales",
		pipeline: mongo.Pipeline{
			lookup("products", "product_id", "product"),
			unwind("$product"),
			{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$product.brand_id"}}}},
			lookup("brands", "_id", "brand"),
			unwind("$brand"),
			{{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "brand_id", Value: bson.D{{Key: "$toString", Value: "$_id"}}},
				{Key: "name", Value: "$brand.name"},
				{Key: "country", Value: "$brand.country"},
			}}},
		},
	},
	"products-stock": {
		collection: "sales",
		pipeline: mongo.Pipeline{
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$product_id"},
				{Key: "sold", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			}}},
			lookup("products", "_id", "product"),
			unwind("$product"),
			{{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "product_id", Value: bson.D{{Key: "$toString", Value: "$_id"}}},
				{Key: "name", Value: "$product.name"},
				{Key: "sold", Value: 1},
				{Key: "stock", Value: "$product.stock"},
			}}},
		},
	},
	"top-brands": {
		collection: "sales",
		pipeline: mongo.Pipeline{
			lookup("products", "product_id", "product"),
			unwind("$product"),
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$product.brand_id"},
				{Key: "total_sales", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "total_sales", Value: -1}}}},
			{{Key: "$limit", Value: 5}},
			lookup("brands", "_id", "brand"),
			unwind("$brand"),
			{{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "brand_id", Value: bson.D{{Key: "$toString", Value: "$_id"}}},
				{Key: "name", Value: "$brand.name"},
				{Key: "total_sales", Value: 1},
			}}},
		},
	},
	"top-users": {
		collection: "sales",
		pipeline: mongo.Pipeline{
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$user_id"},
				{Key: "purchases", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "units", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "purchases", Value: -1}, {Key: "units", Value: -1}}}},
			lookup("users", "_id", "user"),
			unwind("$user"),
			{{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "user_id", Value: bson.D{{Key: "$toString", Value: "$_id"}}},
				{Key: "username", Value: "$user.username"},
				{Key: "purchases", Value: 1},
				{Key: "units", Value: 1},
			}}},
		},
	},
	"product-ratings": {
		collection: "reviews",
		pipeline: mongo.Pipeline{
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$product_id"},
				{Key: "average_rating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
				{Key: "reviews", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "average_rating", Value: -1}}}},
			lookup("products", "_id", "product"),
			unwind("$product"),
			{{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "product_id", Value: bson.D{{Key: "$toString", Value: "$_id"}}},
				{Key: "name", Value: "$product.name"},
				{Key: "average_rating", Value: 1},
				{Key: "reviews", Value: 1},
			}}},
		},
	},
}
