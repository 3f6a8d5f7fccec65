package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoProvider keeps each key in a document of the configured collection,
// with the key as _id and the snapshot bytes as a binary value field.
type MongoProvider struct {
	Log *zap.Logger

	mongoClient      *mongo.Client
	collection       *mongo.Collection
	connectionString string
	databaseName     string
	collectionName   string
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (p *MongoProvider) Connect(connectionString, databaseName, collectionName string) error {
	var err error
	p.connectionString = connectionString
	p.databaseName = databaseName
	p.collectionName = collectionName
	if p.Log == nil {
		p.Log = zap.NewNop()
	}

	p.mongoClient, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	err = p.mongoClient.Ping(context.TODO(), nil)
	if err != nil {
		return err
	}

	p.collection = p.mongoClient.Database(p.databaseName).Collection(p.collectionName)

	p.Log.Info("connected to mongodb", zap.String("database", databaseName))
	return nil
}

func (p *MongoProvider) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument

	filter := bson.D{{Key: "_id", Value: key}}
	err := p.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return doc.Value, nil
}

func (p *MongoProvider) Set(ctx context.Context, key string, value []byte) error {
	filter := bson.D{{Key: "_id", Value: key}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "value", Value: value},
		{Key: "updated_at", Value: time.Now()},
	}}}

	_, err := p.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (p *MongoProvider) Close() error {
	if p.mongoClient != nil {
		err := p.mongoClient.Disconnect(context.TODO())
		if err != nil {
			return err
		}
		p.Log.Info("disconnected from mongodb")
	}
	return nil
}
