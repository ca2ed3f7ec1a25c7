package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	Requests RequestsConfig
	Helpers  HelpersConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// RequestsConfig contains help-request specific configuration
type RequestsConfig struct {
	PendingLimit     int  `json:"pending_limit"`     // Max pending requests returned to the helper board
	GeohashPrecision uint `json:"geohash_precision"` // Precision used to shard pending broadcasts by area
	SubscribeBuffer  int  `json:"subscribe_buffer"`  // Channel buffer for request subscriptions
}

// HelpersConfig contains helper discovery configuration
type HelpersConfig struct {
	NearbyRadiusKm float64 `json:"nearby_radius_km"` // Radius in kilometers for nearby helper lookup
	NearbyLimit    int     `json:"nearby_limit"`     // Max helpers returned by a nearby lookup
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
