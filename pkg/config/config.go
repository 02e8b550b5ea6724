package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Geofencing GeofencingConfig
	Schedule   ScheduleConfig
	Tasks      TaskConfig
	ZoneCache  ZoneCacheConfig
	Notifier   NotifierConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GeofencingConfig carries the spatial validation knobs. DisableGeofencing
// skips zone containment for development deployments; main refuses to start
// with it set when ENV=production.
type GeofencingConfig struct {
	DisableGeofencing bool
	MaxAccuracyMeters float64
	RegionMinLat      float64
	RegionMaxLat      float64
	RegionMinLon      float64
	RegionMaxLon      float64
}

// ScheduleConfig is the fallback work schedule used when neither the worker
// nor the municipality defines one.
type ScheduleConfig struct {
	DefaultStart        string
	DefaultEnd          string
	DefaultGraceMinutes int
}

type TaskConfig struct {
	DefaultMaxDistanceMeters float64
	StrikeLimit              int
}

type ZoneCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type NotifierConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("JWT_SECRET"),
			Issuer:   v.GetString("JWT_ISSUER"),
			Audience: splitAndTrim(v.GetString("JWT_AUDIENCE")),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Geofencing: GeofencingConfig{
			DisableGeofencing: v.GetBool("DISABLE_GEOFENCING"),
			MaxAccuracyMeters: v.GetFloat64("GPS_MAX_ACCURACY_METERS"),
			RegionMinLat:      v.GetFloat64("REGION_MIN_LAT"),
			RegionMaxLat:      v.GetFloat64("REGION_MAX_LAT"),
			RegionMinLon:      v.GetFloat64("REGION_MIN_LON"),
			RegionMaxLon:      v.GetFloat64("REGION_MAX_LON"),
		},
		Schedule: ScheduleConfig{
			DefaultStart:        v.GetString("SCHEDULE_DEFAULT_START"),
			DefaultEnd:          v.GetString("SCHEDULE_DEFAULT_END"),
			DefaultGraceMinutes: v.GetInt("SCHEDULE_DEFAULT_GRACE_MINUTES"),
		},
		Tasks: TaskConfig{
			DefaultMaxDistanceMeters: v.GetFloat64("TASK_DEFAULT_MAX_DISTANCE_METERS"),
			StrikeLimit:              v.GetInt("TASK_STRIKE_LIMIT"),
		},
		ZoneCache: ZoneCacheConfig{
			Enabled: v.GetBool("ZONE_CACHE_ENABLED"),
			TTL:     parseDuration(v.GetString("ZONE_CACHE_TTL"), 10*time.Minute),
		},
		Notifier: NotifierConfig{
			Workers:    v.GetInt("NOTIFIER_WORKERS"),
			BufferSize: v.GetInt("NOTIFIER_BUFFER_SIZE"),
			MaxRetries: v.GetInt("NOTIFIER_MAX_RETRIES"),
			RetryDelay: parseDuration(v.GetString("NOTIFIER_RETRY_DELAY"), time.Second),
		},
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fieldops")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "fieldops-api")
	v.SetDefault("JWT_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DISABLE_GEOFENCING", false)
	v.SetDefault("GPS_MAX_ACCURACY_METERS", 150.0)
	// Regional sanity box used when a request resolves no municipality.
	v.SetDefault("REGION_MIN_LAT", 29.5)
	v.SetDefault("REGION_MAX_LAT", 33.5)
	v.SetDefault("REGION_MIN_LON", 34.0)
	v.SetDefault("REGION_MAX_LON", 36.0)

	v.SetDefault("SCHEDULE_DEFAULT_START", "08:00")
	v.SetDefault("SCHEDULE_DEFAULT_END", "16:00")
	v.SetDefault("SCHEDULE_DEFAULT_GRACE_MINUTES", 15)

	v.SetDefault("TASK_DEFAULT_MAX_DISTANCE_METERS", 100.0)
	v.SetDefault("TASK_STRIKE_LIMIT", 2)

	v.SetDefault("ZONE_CACHE_ENABLED", true)
	v.SetDefault("ZONE_CACHE_TTL", "10m")

	v.SetDefault("NOTIFIER_WORKERS", 2)
	v.SetDefault("NOTIFIER_BUFFER_SIZE", 64)
	v.SetDefault("NOTIFIER_MAX_RETRIES", 3)
	v.SetDefault("NOTIFIER_RETRY_DELAY", "1s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
