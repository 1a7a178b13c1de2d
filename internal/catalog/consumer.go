package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/aquadex/aquadex/pkg/kafka"
)

// ChangeEvent is published when the catalog is modified. Any change triggers
// a full reload and index rebuild; there is no incremental update path.
type ChangeEvent struct {
	Action    string    `json:"action"` // created, updated, deleted, bulk
	RecordKey string    `json:"record_key,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RebuiltEvent is published after a successful reload and index swap.
type RebuiltEvent struct {
	Documents int       `json:"documents"`
	Terms     int       `json:"terms"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleChange returns a Kafka MessageHandler that decodes catalog change
// events and invokes the rebuild callback. Decode failures are logged and
// skipped so a malformed event cannot wedge the consumer group.
func HandleChange(rebuild func(ctx context.Context) error) kafka.MessageHandler {
	logger := slog.Default().With("component", "catalog-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ChangeEvent](value)
		if err != nil {
			logger.Error("failed to decode catalog change event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		logger.Info("catalog change received",
			"action", event.Action,
			"record_key", event.RecordKey,
		)
		if err := rebuild(ctx); err != nil {
			logger.Error("rebuild after catalog change failed", "error", err)
			return err
		}
		return nil
	}
}
