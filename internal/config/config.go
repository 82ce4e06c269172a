package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/leiter/marketday/internal/schedule"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress   string
	DatabaseURI  string
	RedisAddress string
	KafkaBrokers []string
	KafkaGroup   string
	TopicPrefix  string

	SellerID string
	BuyerID  string
	MarketID string

	PickupWeekday   time.Weekday
	DeadlineWeekday time.Weekday
	DeadlineHour    int
	DeadlineMinute  int
	Location        *time.Location

	DraftTTL          time.Duration
	FeedRetryInterval time.Duration
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultKafkaGroup      = "marketday-sync"
	defaultTopicPrefix     = "marketday"
	defaultPickupWeekday   = time.Thursday
	defaultDeadlineWeekday = time.Tuesday
	defaultDeadlineHour    = 23
	defaultDeadlineMinute  = 59
	defaultDraftTTL        = 14 * 24 * time.Hour
	defaultFeedRetry       = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from an optional .env file, environment variables
// and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		RedisAddress:      getString(lookup, "REDIS_ADDRESS", ""),
		KafkaBrokers:      splitCSV(getString(lookup, "KAFKA_BROKERS", "")),
		KafkaGroup:        getString(lookup, "KAFKA_GROUP", defaultKafkaGroup),
		TopicPrefix:       getString(lookup, "TOPIC_PREFIX", defaultTopicPrefix),
		SellerID:          getString(lookup, "SELLER_ID", ""),
		BuyerID:           getString(lookup, "BUYER_ID", ""),
		MarketID:          getString(lookup, "MARKET_ID", ""),
		DeadlineHour:      getInt(lookup, "DEADLINE_HOUR", defaultDeadlineHour),
		DeadlineMinute:    getInt(lookup, "DEADLINE_MINUTE", defaultDeadlineMinute),
		DraftTTL:          getDuration(lookup, "DRAFT_TTL", defaultDraftTTL),
		FeedRetryInterval: getDuration(lookup, "FEED_RETRY_INTERVAL", defaultFeedRetry),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	var (
		pickupDayStr       = getString(lookup, "PICKUP_WEEKDAY", defaultPickupWeekday.String())
		deadlineDayStr     = getString(lookup, "DEADLINE_WEEKDAY", defaultDeadlineWeekday.String())
		timeZone           = getString(lookup, "TIME_ZONE", "UTC")
		brokersStr         = strings.Join(cfg.KafkaBrokers, ",")
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		draftTTLStr        = cfg.DraftTTL.String()
	)

	fs := flag.NewFlagSet("marketday", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "r", cfg.RedisAddress, "Redis address for the draft mirror")
	fs.StringVar(&brokersStr, "brokers", brokersStr, "Kafka bootstrap brokers, comma separated")
	fs.StringVar(&cfg.KafkaGroup, "group", cfg.KafkaGroup, "Kafka consumer group")
	fs.StringVar(&cfg.TopicPrefix, "topic-prefix", cfg.TopicPrefix, "Change feed topic prefix")
	fs.StringVar(&cfg.SellerID, "seller", cfg.SellerID, "Seller whose catalog and orders are synchronized")
	fs.StringVar(&cfg.BuyerID, "buyer", cfg.BuyerID, "Buyer whose basket is synchronized")
	fs.StringVar(&cfg.MarketID, "market", cfg.MarketID, "Market identifier")
	fs.StringVar(&pickupDayStr, "pickup-day", pickupDayStr, "Weekly pickup weekday")
	fs.StringVar(&deadlineDayStr, "deadline-day", deadlineDayStr, "Weekly order deadline weekday")
	fs.IntVar(&cfg.DeadlineHour, "deadline-hour", cfg.DeadlineHour, "Order deadline hour")
	fs.IntVar(&cfg.DeadlineMinute, "deadline-minute", cfg.DeadlineMinute, "Order deadline minute")
	fs.StringVar(&timeZone, "tz", timeZone, "IANA time zone for schedule calculations")
	fs.StringVar(&draftTTLStr, "draft-ttl", draftTTLStr, "TTL of the mirrored draft basket")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg.KafkaBrokers = splitCSV(brokersStr)

	var err error

	if cfg.PickupWeekday, err = parseWeekday(pickupDayStr); err != nil {
		return nil, fmt.Errorf("invalid pickup weekday: %w", err)
	}
	if cfg.DeadlineWeekday, err = parseWeekday(deadlineDayStr); err != nil {
		return nil, fmt.Errorf("invalid deadline weekday: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(timeZone); err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	if cfg.DraftTTL, err = time.ParseDuration(draftTTLStr); err != nil {
		return nil, fmt.Errorf("invalid draft ttl: %w", err)
	}

	if cfg.DeadlineHour < 0 || cfg.DeadlineHour > 23 {
		return nil, fmt.Errorf("deadline hour out of range: %d", cfg.DeadlineHour)
	}
	if cfg.DeadlineMinute < 0 || cfg.DeadlineMinute > 59 {
		return nil, fmt.Errorf("deadline minute out of range: %d", cfg.DeadlineMinute)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = defaultDraftTTL
	}
	if cfg.FeedRetryInterval <= 0 {
		cfg.FeedRetryInterval = defaultFeedRetry
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("kafka brokers must be provided")
	}
	if cfg.SellerID == "" {
		return nil, fmt.Errorf("seller id must be provided")
	}
	if cfg.BuyerID == "" {
		return nil, fmt.Errorf("buyer id must be provided")
	}

	return cfg, nil
}

// Schedule assembles the weekly ordering schedule from the loaded settings.
func (c *Config) Schedule() schedule.Schedule {
	return schedule.Schedule{
		PickupWeekday:   c.PickupWeekday,
		DeadlineWeekday: c.DeadlineWeekday,
		DeadlineHour:    c.DeadlineHour,
		DeadlineMinute:  c.DeadlineMinute,
		Location:        c.Location,
	}
}

func parseWeekday(value string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), value) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", value)
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
