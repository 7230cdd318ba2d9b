package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sicko7947/restddb"
	"github.com/sicko7947/restddb/store"
	"golang.org/x/sync/singleflight"
)

// Client dispatches REST verbs against one table
type Client struct {
	table  string
	store  restddb.Store
	logger zerolog.Logger
	config restddb.ClientConfig

	// key schema, set once and read-only afterwards
	group  singleflight.Group
	mu     sync.RWMutex
	schema restddb.KeySchema
}

// Option configures the client
type Option func(*Client)

// WithStore sets a pre-built store. Without it the client talks to
// DynamoDB using the default AWS configuration.
func WithStore(s restddb.Store) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithLogger sets a custom logger for the client
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithConfig sets a custom configuration for the client
func WithConfig(config restddb.ClientConfig) Option {
	return func(c *Client) {
		c.config = config
	}
}

// New creates a client for table with optional configuration.
// If no logger is provided, a default stdout logger with Info level is used.
// If no store is provided, a DynamoDB store is built from the default AWS
// configuration chain.
func New(table string, opts ...Option) (*Client, error) {
	if table == "" {
		return nil, errors.New("table name is required")
	}

	// Default logger: pretty console output, Info level
	defaultLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)

	c := &Client{
		table:  table,
		logger: defaultLogger,
		config: restddb.DefaultClientConfig,
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		ddb, err := store.NewDynamoDBClient(context.Background(), store.DynamoDBConfig{})
		if err != nil {
			return nil, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		c.store = store.NewDynamoDBStore(ddb)
	}

	return c, nil
}

// Table returns the table name
func (c *Client) Table() string {
	return c.table
}

// KeySchema resolves the key schema of the table, querying the store only
// on first use. Concurrent first callers share a single lookup.
func (c *Client) KeySchema(ctx context.Context) (restddb.KeySchema, error) {
	return c.ensureSchema(ctx)
}

func (c *Client) cachedSchema() restddb.KeySchema {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.schema
}

func (c *Client) ensureSchema(ctx context.Context) (restddb.KeySchema, error) {
	if schema := c.cachedSchema(); schema != nil {
		return schema, nil
	}

	val, err, _ := c.group.Do(c.table, func() (any, error) {
		if schema := c.cachedSchema(); schema != nil {
			return schema, nil
		}

		schema, err := c.store.DescribeKeySchema(ctx, c.table)
		if err != nil {
			restddb.LogSchemaResolutionFailed(c.logger, c.table, err)
			return nil, err
		}

		if len(schema) == 0 {
			err := fmt.Errorf("table %s has an empty key schema", c.table)
			restddb.LogSchemaResolutionFailed(c.logger, c.table, err)
			return nil, err
		}

		c.mu.Lock()
		c.schema = schema
		c.mu.Unlock()

		restddb.LogSchemaResolved(c.logger, c.table, schema)
		return schema, nil
	})
	if err != nil {
		return nil, err
	}

	return val.(restddb.KeySchema), nil
}

// withTimeout bounds a store call by the configured timeout
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.StoreTimeout > 0 {
		return context.WithTimeout(ctx, c.config.StoreTimeout)
	}
	return ctx, func() {}
}

// operation is the store stage of a verb, run after the key schema is
// resolved and the id validated
type operation func(ctx context.Context, schema restddb.KeySchema) (*restddb.Ok[restddb.Item], *restddb.Err)

// dispatch runs every verb through the same pipeline:
// resolve key schema → validate id → store operation → envelope.
// The store call is detached from ctx cancellation; abandoning the returned
// future does not cancel it.
func (c *Client) dispatch(ctx context.Context, verb restddb.Verb, id restddb.Id, op operation, opts []restddb.CallOption) *restddb.Result[restddb.Item] {
	options := restddb.ApplyCallOptions(opts...)
	callID := uuid.New().String()
	logger := restddb.CallLogger(c.logger, callID, verb, c.table)
	storeCtx := context.WithoutCancel(ctx)

	return restddb.Go(func() (*restddb.Ok[restddb.Item], *restddb.Err) {
		start := time.Now()
		restddb.LogCallStarted(logger, callID, verb, c.table)

		ok, e := c.execute(storeCtx, logger, callID, id, op)
		if e != nil {
			restddb.LogCallFailed(logger, callID, e, time.Since(start))
		} else {
			restddb.LogCallSucceeded(logger, callID, ok.DefaultStatusCode(), time.Since(start))
		}

		return ok, e
	}, options.Callbacks...)
}

func (c *Client) execute(ctx context.Context, logger zerolog.Logger, callID string, id restddb.Id, op operation) (*restddb.Ok[restddb.Item], *restddb.Err) {
	schemaCtx, cancel := c.withTimeout(ctx)
	schema, err := c.ensureSchema(schemaCtx)
	cancel()
	if err != nil {
		return nil, backendErr(err, nil)
	}

	if err := restddb.ValidateId(schema, id); err != nil {
		restddb.LogKeySchemaViolation(logger, callID, schema, err)
		return nil, badRequest(msgKeySchemaViolation)
	}

	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	return op(opCtx, schema)
}
