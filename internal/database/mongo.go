package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Options tunes the client pool. Zero values fall back to DefaultOptions.
type Options struct {
	Timeout time.Duration
	MaxPool uint64
	MinPool uint64
}

func DefaultOptions() Options {
	return Options{
		Timeout: 10 * time.Second,
		MaxPool: 100,
		MinPool: 5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.MaxPool == 0 {
		o.MaxPool = d.MaxPool
	}
	if o.MinPool == 0 {
		o.MinPool = d.MinPool
	}
	return o
}

func clientOptions(uri string, opts Options) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(opts.MaxPool).
		SetMinPoolSize(opts.MinPool).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(opts.Timeout)
}

// Connect dials MongoDB and pings the primary before returning.
func Connect(uri, dbName string, opts Options) (*MongoDB, error) {
	opts = opts.withDefaults()

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(uri, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

// Ping checks the primary is reachable.
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
