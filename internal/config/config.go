package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL         string
	ServerAddr          string
	Location            *time.Location
	MaxUploadAttempts   int
	MaxDailySubmissions int

	TwilioAccountSID          string
	TwilioAuthToken           string
	TwilioMessagingServiceSID string
	TwilioBaseURL             string

	MediaBucketURL string

	PrizeScheduleFile string
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "campaign")
		pass := getenv("POSTGRES_PASSWORD", "campaign_pass")
		db := getenv("POSTGRES_DB", "campaign")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	tz := getenv("CAMPAIGN_TIMEZONE", "America/Mexico_City")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid CAMPAIGN_TIMEZONE %q: %w", tz, err)
	}

	return &Config{
		DatabaseURL:         dsn,
		ServerAddr:          getenv("SERVER_ADDR", "0.0.0.0:8080"),
		Location:            loc,
		MaxUploadAttempts:   parseInt(getenv("MAX_UPLOAD_ATTEMPTS", "3"), 3),
		MaxDailySubmissions: parseInt(getenv("MAX_DAILY_SUBMISSIONS", "0"), 0),

		TwilioAccountSID:          os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:           os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioMessagingServiceSID: os.Getenv("TWILIO_MESSAGING_SERVICE_SID"),
		TwilioBaseURL:             os.Getenv("TWILIO_BASE_URL"),

		MediaBucketURL: os.Getenv("MEDIA_BUCKET_URL"),

		PrizeScheduleFile: getenv("PRIZE_SCHEDULE_FILE", "prizes.yaml"),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}
