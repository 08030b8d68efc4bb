package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config хранит все параметры приложения
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Theme    ThemeConfig    `yaml:"theme"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Kitchen  KitchenConfig  `yaml:"kitchen"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	MaxConcurrent  int           `yaml:"max_concurrent"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	SessionCookie  string        `yaml:"session_cookie"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

// Enabled - без host работаем на in-memory репозитории.
func (d DatabaseConfig) Enabled() bool { return d.Host != "" }

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	UseTLS   bool   `yaml:"use_tls"`
}

func (r RabbitMQConfig) Enabled() bool { return r.Host != "" }

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
	Currency  string `yaml:"currency"`
}

type ThemeConfig struct {
	// StrictCustomCSS экранирует выход из <style> при рендере custom_css.
	StrictCustomCSS bool `yaml:"strict_custom_css"`
}

type CheckoutConfig struct {
	DeliveryFee string `yaml:"delivery_fee"`
	TaxRate     string `yaml:"tax_rate"`
}

// KitchenConfig - воркер, который ведёт заказ по статусам.
type KitchenConfig struct {
	WorkerName   string        `yaml:"worker_name"`
	Prefetch     int           `yaml:"prefetch"`
	Heartbeat    time.Duration `yaml:"heartbeat"`
	ConfirmAfter time.Duration `yaml:"confirm_after"`
	CookTime     time.Duration `yaml:"cook_time"`
	DeliveryTime time.Duration `yaml:"delivery_time"`
	AutoDeliver  bool          `yaml:"auto_deliver"`
}

func Defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:          3000,
			MaxConcurrent: 50,
			ReadTimeout:   5 * time.Second,
			WriteTimeout:  30 * time.Second,
			SessionCookie: "cart_session",
		},
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/"},
		Stripe:   StripeConfig{Currency: "usd"},
		Theme:    ThemeConfig{StrictCustomCSS: true},
		Checkout: CheckoutConfig{DeliveryFee: "2.99", TaxRate: "0.08"},
		Kitchen: KitchenConfig{
			Prefetch:     1,
			Heartbeat:    30 * time.Second,
			ConfirmAfter: 2 * time.Second,
			CookTime:     10 * time.Second,
			DeliveryTime: 15 * time.Second,
			AutoDeliver:  true,
		},
	}
}

// LoadConfig читает .env (если есть), YAML-файл (если есть) и переменные окружения.
// Отсутствующий файл - не ошибка: остаются значения по умолчанию.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("couldn't open the configuration file: %w", err)
		default:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("error reading %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Enabled() && (c.Database.User == "" || c.Database.Database == "") {
		return errors.New("database config incomplete")
	}
	if c.RabbitMQ.Enabled() && c.RabbitMQ.User == "" {
		return errors.New("rabbitmq config incomplete")
	}
	if c.HTTP.Port <= 0 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	return nil
}

func applyEnv(c *Config) {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Database, "DB_NAME")
	setString(&c.RabbitMQ.Host, "RABBITMQ_HOST")
	setInt(&c.RabbitMQ.Port, "RABBITMQ_PORT")
	setString(&c.RabbitMQ.User, "RABBITMQ_USER")
	setString(&c.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	setString(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	setInt(&c.HTTP.Port, "PORT")
	setString(&c.Kitchen.WorkerName, "WORKER_NAME")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
