package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const defaultMongoDatabase = "petverse"

// Connect opens a Mongo client, pings it and returns the database named in
// the URI path (or "petverse" when the URI names none).
func Connect(ctx context.Context, mongoURI string, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	// Longer timeout for Atlas connections
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	logger.Info("connecting to MongoDB", zap.String("uri", MaskURI(mongoURI)))
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	db := client.Database(databaseName(mongoURI))
	logger.Info("connected to MongoDB", zap.String("database", db.Name()))
	return client, db, nil
}

// Disconnect closes the Mongo client.
func Disconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// databaseName extracts the database from mongodb://host/name?opts.
func databaseName(mongoURI string) string {
	rest := mongoURI
	if idx := strings.Index(rest, "://"); idx != -1 {
		rest = rest[idx+3:]
	}
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return defaultMongoDatabase
	}
	name := strings.Split(rest[idx+1:], "?")[0]
	if name == "" {
		return defaultMongoDatabase
	}
	return name
}

// MaskURI hides the password part of a connection string for logging.
func MaskURI(uri string) string {
	scheme := ""
	rest := uri
	if idx := strings.Index(rest, "://"); idx != -1 {
		scheme, rest = rest[:idx+3], rest[idx+3:]
	}
	at := strings.LastIndex(rest, "@")
	if at == -1 {
		return uri
	}
	userInfo := rest[:at]
	if colon := strings.Index(userInfo, ":"); colon != -1 {
		userInfo = userInfo[:colon] + ":***"
	}
	return scheme + userInfo + rest[at:]
}
