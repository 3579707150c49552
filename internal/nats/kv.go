package nats

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

// Bucket is the key-value bucket holding the wizard snapshot and API key.
const Bucket = "scriptmatch"

// SetupBucket creates or updates the key-value bucket. Only the latest
// value of each key is kept.
func SetupBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	return js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "scriptmatch wizard state and credential",
		History:     1,
		Storage:     jetstream.FileStorage,
	})
}
