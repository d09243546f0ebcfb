package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists users and responses in MongoDB.
type MongoStore struct {
	client    *mongo.Client
	users     *mongo.Collection
	responses *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	db := client.Database(database)
	return &MongoStore{
		client:    client,
		users:     db.Collection("users"),
		responses: db.Collection("final_responses"),
	}, nil
}

func (ms *MongoStore) SaveUser(ctx context.Context, user User) error {
	if ms == nil || ms.client == nil {
		return nil
	}
	filter := bson.M{"user_id": user.ID}
	update := bson.M{"$set": bson.M{
		"user_id":         user.ID,
		"name":            user.Name,
		"email":           user.Email,
		"profile_picture": user.ProfilePicture,
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := ms.users.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (ms *MongoStore) SaveResponse(ctx context.Context, record ResponseRecord) error {
	if ms == nil || ms.client == nil {
		return nil
	}
	doc := bson.M{
		"user_id":        record.UserID,
		"query":          record.Query,
		"model_response": record.Response,
		"latitude":       record.Latitude,
		"longitude":      record.Longitude,
	}
	if _, err := ms.responses.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (ms *MongoStore) Close(ctx context.Context) error {
	if ms == nil || ms.client == nil {
		return nil
	}
	return ms.client.Disconnect(ctx)
}
