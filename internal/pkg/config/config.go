package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   secrets), security settings
// - default: Venue policy values with sensible defaults (slot step, lead
//   time, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Venue    VenueConfig
	Telegram TelegramConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// VenueConfig is the booking policy surface consumed by the core. All
// durations are venue-wide constants, never chosen by the guest.
type VenueConfig struct {
	ReservationDuration time.Duration `envconfig:"RESERVATION_DURATION" default:"2h"`
	SlotStep            time.Duration `envconfig:"SLOT_STEP" default:"30m"`
	MinAdvance          time.Duration `envconfig:"MIN_ADVANCE" default:"24h"`
	SameDayAllowed      bool          `envconfig:"SAME_DAY_ALLOWED" default:"false"`
	ReminderLead        time.Duration `envconfig:"REMINDER_LEAD" default:"2h"`
	// immediate: fire right away when confirmation lands inside the lead
	// window; skip: log and drop instead.
	ReminderPastDuePolicy string `envconfig:"REMINDER_PAST_DUE_POLICY" default:"immediate"`
	DailyReservationLimit int    `envconfig:"DAILY_RESERVATION_LIMIT" default:"2"`
	ReservationLimitScope string `envconfig:"RESERVATION_LIMIT_SCOPE" default:"global"` // global | per_user
	AutoConfirmMaxParty   int    `envconfig:"AUTO_CONFIRM_MAX_PARTY" default:"4"`
}

type TelegramConfig struct {
	BotToken     string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	AdminChatIDs []int64 `envconfig:"TELEGRAM_ADMIN_CHAT_IDS"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// AdminConfig carries the venue admin login. Password is stored as a bcrypt
// hash; there is no admin table, admins are venue staff configured per
// deployment.
type AdminConfig struct {
	Email        string `envconfig:"ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Venue.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (v *VenueConfig) validate() error {
	if v.ReservationDuration <= 0 {
		return fmt.Errorf("RESERVATION_DURATION must be positive")
	}
	if v.SlotStep <= 0 {
		return fmt.Errorf("SLOT_STEP must be positive")
	}
	switch v.ReminderPastDuePolicy {
	case "immediate", "skip":
	default:
		return fmt.Errorf("REMINDER_PAST_DUE_POLICY must be immediate or skip, got %q", v.ReminderPastDuePolicy)
	}
	switch v.ReservationLimitScope {
	case "global", "per_user":
	default:
		return fmt.Errorf("RESERVATION_LIMIT_SCOPE must be global or per_user, got %q", v.ReservationLimitScope)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Venue: VenueConfig{
			ReservationDuration:   2 * time.Hour,
			SlotStep:              30 * time.Minute,
			MinAdvance:            24 * time.Hour,
			ReminderLead:          2 * time.Hour,
			ReminderPastDuePolicy: "immediate",
			DailyReservationLimit: 2,
			ReservationLimitScope: "global",
			AutoConfirmMaxParty:   4,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
