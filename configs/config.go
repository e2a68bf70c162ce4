package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	AppEnv          string
	DatabaseURL     string
	ReadDatabaseURL string
	RedisURL        string
	CacheTTL        time.Duration
	ShutdownTimeout time.Duration

	RateLimitPerHour int
	EnableWebSocket  bool

	GeoAPIURL  string
	GeoTimeout time.Duration

	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPassword       string
	EmailFrom          string
	EmailFromName      string
	WhatsAppContactURL string

	// Calendar dates of reservations are judged in this zone; visit dedup always uses UTC.
	BusinessTimezone string

	StorageType     string
	StorageBasePath string
	StorageBaseURL  string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	UploadMaxSize   int64
	UploadBuckets   []string
}

var AppConfig *Config

func LoadConfig() error {

	godotenv.Load()

	AppConfig = &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", "root:password@tcp(localhost:3306)/paradise_vista?charset=utf8mb4&parseTime=True&loc=UTC"),
		ReadDatabaseURL: getEnv("READ_DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		CacheTTL:        parseDuration(getEnv("CACHE_TTL", "5m")),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s")),

		RateLimitPerHour: parseInt(getEnv("RATE_LIMIT_PER_HOUR", "120")),
		EnableWebSocket:  parseBool(getEnv("ENABLE_WEBSOCKET", "true")),

		GeoAPIURL:  getEnv("GEO_API_URL", "https://ipapi.co"),
		GeoTimeout: parseDuration(getEnv("GEO_TIMEOUT", "3s")),

		SMTPHost:           getEnv("SMTP_HOST", "localhost"),
		SMTPPort:           parseInt(getEnv("SMTP_PORT", "587")),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "reservas@paradisevista.com.br"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Paradise Vista do Atlântico"),
		WhatsAppContactURL: getEnv("WHATSAPP_CONTACT_URL", "https://wa.me/5582999990000"),

		BusinessTimezone: getEnv("BUSINESS_TIMEZONE", "America/Maceio"),

		StorageType:     getEnv("STORAGE_TYPE", "local"),
		StorageBasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		StorageBaseURL:  getEnv("STORAGE_BASE_URL", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		UploadMaxSize:   int64(parseInt(getEnv("UPLOAD_MAX_SIZE", "10485760"))),
		UploadBuckets:   parseList(getEnv("UPLOAD_BUCKETS", "gallery,rooms,products")),
	}

	return nil
}

// Location returns the business timezone, or UTC when the zone database lacks it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Hour
	}
	return d
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	if err := LoadConfig(); err != nil {
		log.Fatal("Failed to load config:", err)
	}
}
