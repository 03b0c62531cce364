package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	userCollection  = "user_settings"
	guildCollection = "guild_settings"
)

type userSettings struct {
	ID       string `bson:"_id"`
	Timezone string `bson:"timezone"`
}

type guildSettings struct {
	ID              string `bson:"_id"`
	DefaultTimezone string `bson:"default_timezone"`
}

// Mongo is the MongoDB-backed settings store.
type Mongo struct {
	client *mongo.Client
	users  *mongo.Collection
	guilds *mongo.Collection
	logger *zap.Logger
}

var _ Store = (*Mongo)(nil)

// Connect dials MongoDB, verifies the connection with a ping, and returns a
// store over the given database. The caller's ctx bounds the whole handshake.
func Connect(ctx context.Context, uri, database string, logger *zap.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	logger.Info("mongodb connection established", zap.String("database", database))

	return &Mongo{
		client: client,
		users:  db.Collection(userCollection),
		guilds: db.Collection(guildCollection),
		logger: logger,
	}, nil
}

// UserTimezone returns the user's saved timezone.
func (m *Mongo) UserTimezone(ctx context.Context, userID string) (string, error) {
	var doc userSettings
	err := m.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find user settings: %w", err)
	}
	if doc.Timezone == "" {
		return "", ErrNotFound
	}
	return doc.Timezone, nil
}

// SetUserTimezone upserts the user's timezone.
func (m *Mongo) SetUserTimezone(ctx context.Context, userID, timezone string) error {
	_, err := m.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"timezone": timezone}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert user settings: %w", err)
	}
	return nil
}

// GuildTimezone returns the guild's default timezone.
func (m *Mongo) GuildTimezone(ctx context.Context, guildID string) (string, error) {
	var doc guildSettings
	err := m.guilds.FindOne(ctx, bson.M{"_id": guildID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find guild settings: %w", err)
	}
	if doc.DefaultTimezone == "" {
		return "", ErrNotFound
	}
	return doc.DefaultTimezone, nil
}

// SetGuildTimezone upserts the guild's default timezone.
func (m *Mongo) SetGuildTimezone(ctx context.Context, guildID, timezone string) error {
	_, err := m.guilds.UpdateOne(ctx,
		bson.M{"_id": guildID},
		bson.M{"$set": bson.M{"default_timezone": timezone}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert guild settings: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
