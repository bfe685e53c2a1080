// Package googlecloud stores accounts and task lists in Google Cloud
// Datastore. Each list is one entity with its tasks embedded.
package googlecloud

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tasklists/internal/domain"
	"tasklists/internal/logger"

	"cloud.google.com/go/datastore"
)

const (
	KindAccount  = "Account"
	KindEmail    = "AccountEmail"
	KindTaskList = "TaskList"
)

// Client wraps the Datastore client.
type Client struct {
	ds *datastore.Client
}

// NewClient connects to Datastore. The official client picks up
// DATASTORE_EMULATOR_HOST by itself; it is only logged here.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	if emulatorHost := os.Getenv("DATASTORE_EMULATOR_HOST"); emulatorHost != "" {
		logger.Info("using datastore emulator", "host", emulatorHost)
	}

	ds, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return &Client{ds: ds}, nil
}

func (c *Client) Close() error {
	return c.ds.Close()
}

// wrapErr maps missing entities to domain.ErrNotFound and everything else
// to a backend error.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return domain.ErrNotFound
	}
	return domain.Backend(op, err)
}
