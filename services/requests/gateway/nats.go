package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	"github.com/roadhelper/roadhelper/internal/pkg/constants"
	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/internal/pkg/nats"
	"github.com/roadhelper/roadhelper/internal/pkg/retry"
	"github.com/roadhelper/roadhelper/internal/utils"
)

// RequestGW publishes request lifecycle events over NATS and bridges live
// subscriptions back to callers
type RequestGW struct {
	cfg     *models.Config
	client  *nats.Client
	retrier *retry.Retrier
}

// NewRequestGW creates a new request gateway
func NewRequestGW(cfg *models.Config, client *nats.Client) *RequestGW {
	return &RequestGW{
		cfg:     cfg,
		client:  client,
		retrier: retry.NewWithDefaults(),
	}
}

// PublishRequestCreated broadcasts a new pending request on the firehose
// subject and on the area shard derived from the request location
func (g *RequestGW) PublishRequestCreated(ctx context.Context, req *models.HelpRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := g.publish(ctx, constants.SubjectPendingRequests, data); err != nil {
		return err
	}

	area := utils.EncodeLocation(req.Location, g.geohashPrecision())
	subject := fmt.Sprintf(constants.SubjectPendingRequestsArea, area)
	if err := g.publish(ctx, subject, data); err != nil {
		return err
	}

	logger.Debug("Published request created event",
		logger.String("request_id", req.ID.String()),
		logger.String("area", area))

	return nil
}

// PublishRequestUpdated pushes the full record on the request's own subject
func (g *RequestGW) PublishRequestUpdated(ctx context.Context, req *models.HelpRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	subject := fmt.Sprintf(constants.SubjectRequestUpdated, req.ID.String())
	return g.publish(ctx, subject, data)
}

// publish retries transient broker failures with backoff
func (g *RequestGW) publish(ctx context.Context, subject string, data []byte) error {
	return g.retrier.Execute(ctx, func(_ context.Context) error {
		return g.client.Publish(subject, data)
	})
}

// SubscribeRequestUpdates delivers every update of a single request to the
// handler until the returned unsubscribe function is called
func (g *RequestGW) SubscribeRequestUpdates(requestID string, handler func(models.HelpRequest)) (func(), error) {
	subject := fmt.Sprintf(constants.SubjectRequestUpdated, requestID)
	return g.subscribe(subject, handler)
}

// SubscribePending delivers newly created pending requests for an area
// geohash. The area's neighboring shards are included so helpers sitting
// near a shard boundary still see requests just across it. An empty area
// subscribes to the firehose.
func (g *RequestGW) SubscribePending(area string, handler func(models.HelpRequest)) (func(), error) {
	subjects := pendingSubjects(area)

	unsubscribes := make([]func(), 0, len(subjects))
	unsubscribeAll := func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}

	for _, subject := range subjects {
		unsubscribe, err := g.subscribe(subject, handler)
		if err != nil {
			unsubscribeAll()
			return nil, err
		}
		unsubscribes = append(unsubscribes, unsubscribe)
	}

	return unsubscribeAll, nil
}

// pendingSubjects expands an area geohash into its shard subject plus the
// subjects of the eight surrounding shards
func pendingSubjects(area string) []string {
	if area == "" {
		return []string{constants.SubjectPendingRequests}
	}

	subjects := make([]string, 0, 9)
	subjects = append(subjects, fmt.Sprintf(constants.SubjectPendingRequestsArea, area))
	for _, neighbor := range utils.GetNeighbors(area) {
		subjects = append(subjects, fmt.Sprintf(constants.SubjectPendingRequestsArea, neighbor))
	}
	return subjects
}

func (g *RequestGW) subscribe(subject string, handler func(models.HelpRequest)) (func(), error) {
	sub, err := g.client.Subscribe(subject, func(msg *natsgo.Msg) {
		var req models.HelpRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			logger.Warn("Discarded malformed request event",
				logger.String("subject", subject),
				logger.ErrorField(err))
			return
		}
		handler(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	unsubscribe := func() {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe",
				logger.String("subject", subject),
				logger.ErrorField(err))
		}
	}
	return unsubscribe, nil
}

func (g *RequestGW) geohashPrecision() uint {
	if g.cfg.Requests.GeohashPrecision > 0 {
		return g.cfg.Requests.GeohashPrecision
	}
	return 5
}
