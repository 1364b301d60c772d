package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the API reads from the environment.
type Config struct {
	Port           string        `env:"PORT"            envDefault:"5000"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	Mongo MongoConfig
	JWT   JWTConfig
	Kafka KafkaConfig
	Redis RedisConfig
	Minio MinioConfig
}

// MongoConfig describes the document database. URI wins over the Atlas credentials when set.
type MongoConfig struct {
	URI       string        `env:"MONGO_URI"`
	User      string        `env:"DB_USER"`
	Pass      string        `env:"DB_PASS"`
	Host      string        `env:"DB_HOST"          envDefault:"cluster0.buwy59t.mongodb.net"`
	AppName   string        `env:"DB_APP_NAME"      envDefault:"Cluster0"`
	Database  string        `env:"DB_NAME"          envDefault:"productsDB"`
	StrictAPI bool          `env:"MONGO_STRICT_API" envDefault:"false"`
	Timeout   time.Duration `env:"MONGO_TIMEOUT"    envDefault:"10s"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC"   envDefault:"storefront.events"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB"       envDefault:"0"`
	TTL      time.Duration `env:"CACHE_TTL"      envDefault:"5m"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Bucket    string `env:"MINIO_BUCKET"  envDefault:"payment-receipts"`
	Region    string `env:"MINIO_REGION"  envDefault:"us-east-1"`
}

// Load parses the process environment. Call godotenv beforehand to pick up a .env file.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Mongo.URI == "" && (c.Mongo.User == "" || c.Mongo.Pass == "") {
		return errors.New("missing MongoDB configuration: set MONGO_URI or DB_USER and DB_PASS")
	}
	if c.Mongo.Database == "" {
		return errors.New("missing DB_NAME environment variable")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// ConnectionURI returns MONGO_URI as is, or builds the Atlas SRV URI with the
// credentials escaped as URL userinfo.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}

	q := url.Values{}
	q.Set("retryWrites", "true")
	q.Set("w", "majority")
	q.Set("appName", m.AppName)

	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(m.User, m.Pass),
		Host:     m.Host,
		Path:     "/",
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

func (m MinioConfig) Enabled() bool { return m.Endpoint != "" }
