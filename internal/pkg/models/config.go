package models

import "time"

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Redis     RedisConfig
	NATS      NATSConfig
	NewRelic  NewRelicConfig
	Logger    LoggerConfig
	Broker    BrokerConfig
	Navigator NavigatorConfig
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

// RedisConfig contains Redis connection configuration. An empty host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration. An empty URL disables NATS.
type NATSConfig struct {
	URL string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	Enabled     bool
	LicenseKey  string
	AppName     string
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// BrokerConfig contains connection broker tuning
type BrokerConfig struct {
	PingInterval       time.Duration
	SearchRadiusMeters float64
	SendBufferSize     int
	SinkQueueSize      int
	PresenceTTL        time.Duration
	ControlRateLimit   int // requests per minute per client on /api, 0 disables
}

// NavigatorConfig contains driver device configuration
type NavigatorConfig struct {
	BrokerURL            string
	DriverID             string
	DisplayName          string
	VehicleType          string
	DirectionsBaseURL    string
	DirectionsAPIKey     string
	DirectionsTimeout    time.Duration
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	SendThresholdMeters  float64
	DeviationThreshold   float64
	ArrivalThreshold     float64
	RouteCacheTTL        time.Duration
	Origin               string // "lat,lng" of a simulated trip
	Destination          string
	ReplayInterval       time.Duration
	ReplaySpeed          float64 // meters per second reported with replayed fixes
}
