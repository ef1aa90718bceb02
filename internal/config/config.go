package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/openpark/service-booking/internal/domain/pricing"
	"github.com/openpark/service-booking/internal/platform/database"
)

// StripeConfig holds Stripe checkout configuration.
type StripeConfig struct {
	Enabled    string
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

// WhatsAppConfig holds WhatsApp Cloud API configuration.
type WhatsAppConfig struct {
	Token       string
	PhoneID     string
	AdminNumber string
}

// SMTPConfig holds outbound email configuration.
type SMTPConfig struct {
	Host       string
	Port       string
	From       string
	Username   string
	Password   string
	AdminEmail string
}

// JWTConfig holds token signing configuration for the admin API.
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// PricingConfig holds the rate card and discount knobs.
type PricingConfig struct {
	DayRateInternal       float64
	DayRateExternal       float64
	MonthlyRateInternal   float64
	MonthlyRateExternal   float64
	EventRateInternal     float64
	EventRateExternal     float64
	MonthlyThresholdDays  int
	EventDatesRaw         string
	OnlineDiscountEnabled bool
	OnlineDiscountPct     float64
	Currency              string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    database.PostgresConfig
	RedisAddr   string
	KafkaBroker string
	JWTConfig   JWTConfig
	Stripe      StripeConfig
	WhatsApp    WhatsAppConfig
	SMTP        SMTPConfig
	Pricing     PricingConfig
	PendingTTL  time.Duration
}

// Load reads configuration from the environment, with a .env file as a
// development convenience.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:   v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RedisAddr:   v.GetString("REDIS_ADDR"),
		KafkaBroker: v.GetString("KAFKA_BROKER"),
		JWTConfig: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  v.GetDuration("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetDuration("JWT_REFRESH_EXPIRY"),
		},
		Stripe: StripeConfig{
			Enabled:    v.GetString("STRIPE_ENABLED"),
			SecretKey:  v.GetString("STRIPE_SECRET_KEY"),
			SuccessURL: v.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:  v.GetString("STRIPE_CANCEL_URL"),
		},
		WhatsApp: WhatsAppConfig{
			Token:       v.GetString("WHATSAPP_TOKEN"),
			PhoneID:     v.GetString("WHATSAPP_PHONE_ID"),
			AdminNumber: v.GetString("WHATSAPP_ADMIN_NUMBER"),
		},
		SMTP: SMTPConfig{
			Host:       v.GetString("SMTP_HOST"),
			Port:       v.GetString("SMTP_PORT"),
			From:       v.GetString("SMTP_FROM"),
			Username:   v.GetString("SMTP_USERNAME"),
			Password:   v.GetString("SMTP_PASSWORD"),
			AdminEmail: v.GetString("ADMIN_EMAIL"),
		},
		Pricing: PricingConfig{
			DayRateInternal:       v.GetFloat64("RATE_DAY_INTERNAL"),
			DayRateExternal:       v.GetFloat64("RATE_DAY_EXTERNAL"),
			MonthlyRateInternal:   v.GetFloat64("RATE_MONTHLY_INTERNAL"),
			MonthlyRateExternal:   v.GetFloat64("RATE_MONTHLY_EXTERNAL"),
			EventRateInternal:     v.GetFloat64("RATE_EVENT_INTERNAL"),
			EventRateExternal:     v.GetFloat64("RATE_EVENT_EXTERNAL"),
			MonthlyThresholdDays:  v.GetInt("MONTHLY_THRESHOLD_DAYS"),
			EventDatesRaw:         v.GetString("EVENT_DATES"),
			OnlineDiscountEnabled: v.GetBool("ONLINE_DISCOUNT_ENABLED"),
			OnlineDiscountPct:     v.GetFloat64("ONLINE_DISCOUNT_PCT"),
			Currency:              v.GetString("CURRENCY"),
		},
		PendingTTL: v.GetDuration("PENDING_BOOKING_TTL"),
	}

	return cfg, nil
}

// StripeEnabled reports whether online checkout should use the live Stripe
// gateway instead of the mock.
func (c *ServiceConfig) StripeEnabled() bool {
	return strings.EqualFold(c.Stripe.Enabled, "true") && c.Stripe.SecretKey != ""
}

// BuildPricingConfig assembles the domain pricing configuration from the
// loaded rate card.
func (c *ServiceConfig) BuildPricingConfig() pricing.Config {
	return pricing.Config{
		DayRate: pricing.RateTable{
			Internal: c.Pricing.DayRateInternal,
			External: c.Pricing.DayRateExternal,
		},
		MonthlyRate: pricing.RateTable{
			Internal: c.Pricing.MonthlyRateInternal,
			External: c.Pricing.MonthlyRateExternal,
		},
		EventRate: pricing.RateTable{
			Internal: c.Pricing.EventRateInternal,
			External: c.Pricing.EventRateExternal,
		},
		MonthlyThresholdDays: c.Pricing.MonthlyThresholdDays,
		EventDates:           pricing.ParseDateList(c.Pricing.EventDatesRaw),
		OnlineDiscountOn:     c.Pricing.OnlineDiscountEnabled,
		OnlineDiscountPct:    c.Pricing.OnlineDiscountPct,
		Currency:             c.Pricing.Currency,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "openpark_bookings")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKER", "localhost:9092")

	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")

	v.SetDefault("STRIPE_ENABLED", "false")
	v.SetDefault("STRIPE_SUCCESS_URL", "http://localhost:8080/payment/success")
	v.SetDefault("STRIPE_CANCEL_URL", "http://localhost:8080/payment/cancel")

	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", "25")
	v.SetDefault("SMTP_FROM", "bookings@openpark.example")

	v.SetDefault("RATE_DAY_INTERNAL", 10.0)
	v.SetDefault("RATE_DAY_EXTERNAL", 7.0)
	v.SetDefault("RATE_MONTHLY_INTERNAL", 90.0)
	v.SetDefault("RATE_MONTHLY_EXTERNAL", 70.0)
	v.SetDefault("RATE_EVENT_INTERNAL", 20.0)
	v.SetDefault("RATE_EVENT_EXTERNAL", 12.0)
	v.SetDefault("MONTHLY_THRESHOLD_DAYS", 28)
	v.SetDefault("EVENT_DATES", "")
	v.SetDefault("ONLINE_DISCOUNT_ENABLED", true)
	v.SetDefault("ONLINE_DISCOUNT_PCT", 10.0)
	v.SetDefault("CURRENCY", "USD")

	v.SetDefault("PENDING_BOOKING_TTL", "24h")
}
