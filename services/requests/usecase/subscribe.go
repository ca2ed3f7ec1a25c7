package usecase

import (
	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// SubscribeToRequest streams every update of a single request. The returned
// cancel function releases the subscription; the channel is never closed
// because a broker callback can still be in flight, so consumers stop on
// their own context instead.
func (uc *RequestUC) SubscribeToRequest(requestID string) (<-chan models.HelpRequest, func(), error) {
	ch := make(chan models.HelpRequest, uc.subscribeBuffer())

	unsubscribe, err := uc.gateway.SubscribeRequestUpdates(requestID, func(req models.HelpRequest) {
		select {
		case ch <- req:
		default:
			// A stalled consumer drops intermediate updates; every event
			// carries the full record, so the next one catches it up.
			logger.Debug("Dropped request update for slow subscriber",
				logger.String("request_id", requestID))
		}
	})
	if err != nil {
		return nil, nil, err
	}

	return ch, unsubscribe, nil
}

// SubscribeToPendingRequests streams newly created pending requests for an
// area geohash. An empty area subscribes to all new requests.
func (uc *RequestUC) SubscribeToPendingRequests(area string) (<-chan models.HelpRequest, func(), error) {
	ch := make(chan models.HelpRequest, uc.subscribeBuffer())

	unsubscribe, err := uc.gateway.SubscribePending(area, func(req models.HelpRequest) {
		select {
		case ch <- req:
		default:
			logger.Debug("Dropped pending broadcast for slow subscriber",
				logger.String("area", area))
		}
	})
	if err != nil {
		return nil, nil, err
	}

	return ch, unsubscribe, nil
}

func (uc *RequestUC) subscribeBuffer() int {
	if uc.cfg.Requests.SubscribeBuffer > 0 {
		return uc.cfg.Requests.SubscribeBuffer
	}
	return 16
}
