package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/piresc/nebengjek/internal/pkg/models"
)

// InitConfig loads configPath into the environment when running locally, then reads the environment
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" && configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "")
	configs.App.Environment = GetEnv("APP_ENV", "local")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", false)
	configs.App.Version = GetEnv("APP_VERSION", "development")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 8080)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	// Broker config
	configs.Broker.PingInterval = GetEnvAsDuration("BROKER_PING_INTERVAL", 30*time.Second)
	configs.Broker.SearchRadiusMeters = GetEnvAsFloat("BROKER_SEARCH_RADIUS_METERS", 5000)
	configs.Broker.SendBufferSize = GetEnvAsInt("BROKER_SEND_BUFFER", 64)
	configs.Broker.SinkQueueSize = GetEnvAsInt("BROKER_SINK_QUEUE", 1024)
	configs.Broker.PresenceTTL = GetEnvAsDuration("BROKER_PRESENCE_TTL", 2*time.Minute)
	configs.Broker.ControlRateLimit = GetEnvAsInt("BROKER_CONTROL_RATE_LIMIT", 120)

	// Navigator config
	configs.Navigator.BrokerURL = GetEnv("NAVIGATOR_BROKER_URL", "ws://localhost:8080/ws")
	configs.Navigator.DriverID = GetEnv("NAVIGATOR_DRIVER_ID", "")
	configs.Navigator.DisplayName = GetEnv("NAVIGATOR_DISPLAY_NAME", "")
	configs.Navigator.VehicleType = GetEnv("NAVIGATOR_VEHICLE_TYPE", "car")
	configs.Navigator.DirectionsBaseURL = GetEnv("DIRECTIONS_BASE_URL", "https://maps.googleapis.com")
	configs.Navigator.DirectionsAPIKey = GetEnv("DIRECTIONS_API_KEY", "")
	configs.Navigator.DirectionsTimeout = GetEnvAsDuration("DIRECTIONS_TIMEOUT", 10*time.Second)
	configs.Navigator.ReconnectDelay = GetEnvAsDuration("NAVIGATOR_RECONNECT_DELAY", 3*time.Second)
	configs.Navigator.MaxReconnectAttempts = GetEnvAsInt("NAVIGATOR_MAX_RECONNECT_ATTEMPTS", 10)
	configs.Navigator.SendThresholdMeters = GetEnvAsFloat("NAVIGATOR_SEND_THRESHOLD_METERS", 200)
	configs.Navigator.DeviationThreshold = GetEnvAsFloat("NAVIGATOR_DEVIATION_THRESHOLD_METERS", 50)
	configs.Navigator.ArrivalThreshold = GetEnvAsFloat("NAVIGATOR_ARRIVAL_THRESHOLD_METERS", 50)
	configs.Navigator.RouteCacheTTL = GetEnvAsDuration("NAVIGATOR_ROUTE_CACHE_TTL", 5*time.Minute)
	configs.Navigator.Origin = GetEnv("NAVIGATOR_ORIGIN", "")
	configs.Navigator.Destination = GetEnv("NAVIGATOR_DESTINATION", "")
	configs.Navigator.ReplayInterval = GetEnvAsDuration("NAVIGATOR_REPLAY_INTERVAL", 2*time.Second)
	configs.Navigator.ReplaySpeed = GetEnvAsFloat("NAVIGATOR_REPLAY_SPEED", 8)

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsDuration accepts Go duration strings ("30s") or a bare number of seconds
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	log.Printf("Warning: Invalid duration value for %s, using default: %v", key, defaultValue)
	return defaultValue
}
