package requests

import (
	"context"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// RequestGW publishes request lifecycle events and bridges live
// subscriptions. Events are a projection for observers; the store stays
// authoritative, so publish failures never fail a transition.
type RequestGW interface {
	// PublishRequestCreated broadcasts a new pending request to the helper
	// board, both on the firehose subject and the area-sharded subject.
	PublishRequestCreated(ctx context.Context, req *models.HelpRequest) error

	// PublishRequestUpdated pushes the full record after a state transition
	PublishRequestUpdated(ctx context.Context, req *models.HelpRequest) error

	// SubscribeRequestUpdates delivers every update of a single request to
	// the handler until the returned unsubscribe function is called.
	SubscribeRequestUpdates(requestID string, handler func(models.HelpRequest)) (func(), error)

	// SubscribePending delivers newly created pending requests for an area
	// geohash; an empty area subscribes to the firehose.
	SubscribePending(area string, handler func(models.HelpRequest)) (func(), error)
}
