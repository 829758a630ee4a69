package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SchedulingConfig holds the tunables of the appointment core: slot
// granularity, how long a notified waitlist patient has to respond,
// and how often the expiry sweep runs.
type SchedulingConfig struct {
	SlotDurationMinutes int
	ResponseWindow      time.Duration
	SweepInterval       time.Duration
	NotificationQueue   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	responseWindow, err := time.ParseDuration(viper.GetString("WAITLIST_RESPONSE_WINDOW"))
	if err != nil {
		responseWindow = 24 * time.Hour
	}

	sweepInterval, err := time.ParseDuration(viper.GetString("WAITLIST_SWEEP_INTERVAL"))
	if err != nil {
		sweepInterval = 5 * time.Minute
	}

	slotDuration := viper.GetInt("SLOT_DURATION_MINUTES")
	if slotDuration <= 0 {
		slotDuration = 30
	}

	notificationQueue := viper.GetString("NOTIFICATION_QUEUE")
	if notificationQueue == "" {
		notificationQueue = "notifications:waitlist"
	}

	migrationsDir := viper.GetString("DB_MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:          viper.GetString("DB_HOST"),
			Port:          viper.GetString("DB_PORT"),
			User:          viper.GetString("DB_USER"),
			Password:      viper.GetString("DB_PASSWORD"),
			Name:          viper.GetString("DB_NAME"),
			MigrationsDir: migrationsDir,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			SlotDurationMinutes: slotDuration,
			ResponseWindow:      responseWindow,
			SweepInterval:       sweepInterval,
			NotificationQueue:   notificationQueue,
		},
	}

	return config, nil
}
