package constants

// Redis key formats
const (
	// KeyHelperGeo is the geo set of current helper locations
	KeyHelperGeo = "helpers:geo"

	// KeyAvailableHelpers is the set of helper IDs currently accepting jobs
	KeyAvailableHelpers = "helpers:available"
)
