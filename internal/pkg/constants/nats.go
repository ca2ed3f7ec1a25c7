package constants

// NATS subject formats
const (
	// SubjectRequestUpdated carries the full request record after every
	// state transition. Format: requests.updated.{request_id}
	SubjectRequestUpdated = "requests.updated.%s"

	// SubjectPendingRequests is the firehose of newly created pending requests
	SubjectPendingRequests = "requests.pending"

	// SubjectPendingRequestsArea shards the pending broadcast by the
	// geohash of the request location. Format: requests.pending.{geohash}
	SubjectPendingRequestsArea = "requests.pending.%s"
)
