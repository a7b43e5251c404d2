package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/biosecret/go-todo/cognito"
	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

// Config là toàn bộ cấu hình đọc từ biến môi trường.
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	CognitoRegion string `env:"COGNITO_REGION,required,notEmpty"`
	UserPoolID    string `env:"USER_POOL_ID,required,notEmpty"`
	ClientID      string `env:"CLIENT_ID,required,notEmpty"`
	ClientSecret  string `env:"CLIENT_SECRET"`
	CognitoDomain string `env:"COGNITO_DOMAIN,required,notEmpty"`

	RedirectURI  string `env:"REDIRECT_URI" envDefault:"http://localhost:3000/auth/callback"`
	LogoutURI    string `env:"LOGOUT_URI" envDefault:"http://localhost:3000/login"`
	FrontendURL  string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	// 0 tắt việc refresh JWKS định kỳ; refresh khi gặp kid lạ vẫn chạy.
	JWKSRefreshInterval    time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"0s"`
	JWKSRefreshMinInterval time.Duration `env:"JWKS_REFRESH_MIN_INTERVAL" envDefault:"1m"`
	ProviderTimeout        time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`

	MQTTURL   string `env:"MQTT_URL"`
	MQTTTopic string `env:"MQTT_TOPIC" envDefault:"todo/tasks"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// LoadENV nạp file .env vào môi trường. Không có file thì bỏ qua.
func LoadENV() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("No .env file found, using process environment")
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load đọc Config từ biến môi trường.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSOrigins = trimCSV(cfg.CORSOrigins)
	return &cfg, nil
}

// AllowOrigins trả về giá trị cho cors.Config. Rỗng nghĩa là cho phép mọi nguồn.
func (c *Config) AllowOrigins() string {
	if len(c.CORSOrigins) == 0 {
		return "*"
	}
	return strings.Join(c.CORSOrigins, ",")
}

func (c *Config) Cognito() cognito.Config {
	return cognito.Config{
		Region:       c.CognitoRegion,
		UserPoolID:   c.UserPoolID,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Domain:       c.CognitoDomain,
		RedirectURI:  c.RedirectURI,
		LogoutURI:    c.LogoutURI,
		Timeout:      c.ProviderTimeout,
	}
}

func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
