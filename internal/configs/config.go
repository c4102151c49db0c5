package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env struct {
		CurrentEnv string `yaml:"current_env"`
		BaseAPIUrl string `yaml:"base_api_url"`
	} `yaml:"env"`

	DB struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
		Migrate  bool   `yaml:"migrate"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"redis_addr"`
		Password string `yaml:"redis_password"`
		DB       int    `yaml:"redis_db"`
	} `yaml:"redis"`

	Providers struct {
		GoogleClientID     string `yaml:"google_client_id"`
		GoogleClientSecret string `yaml:"google_client_secret"`
		FBClientID         string `yaml:"fb_client_id"`
		FBClientSecret     string `yaml:"fb_client_secret"`
	} `yaml:"providers"`

	Mail struct {
		EmailAPIKey  string `yaml:"email_api_key"`
		SenderEmail  string `yaml:"sender_email"`
		SupportEmail string `yaml:"support_email"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     string `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_username"`
		SMTPPassword string `yaml:"smtp_password"`
	} `yaml:"mail"`

	SMS struct {
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		FromNumber string `yaml:"from_number"`
	} `yaml:"sms"`

	Razorpay struct {
		KeyID     string `yaml:"key_id"`
		KeySecret string `yaml:"key_secret"`
	} `yaml:"razorpay"`
}

func Load(env string) (*Config, error) {
	var cfg Config
	configFile := "dev.yml"
	if env == "production" {
		configFile = "prod.yml"
	}

	configPath := filepath.Join("internal", "configs", configFile)
	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	log.Printf("Loading config from: %s", configPath)

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.DB.Password = getPassword(env)
	expandConfig(&cfg)

	if cfg.Env.CurrentEnv == "" {
		cfg.Env.CurrentEnv = env
	}

	return &cfg, nil
}

// MySQLDSN builds the GORM connection string.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name,
	)
}

// getPassword resolves the database password: environment variable first,
// then .env, then the environment-specific secrets file.
func getPassword(env string) string {
	var (
		envVarName string
		secretFile string
	)

	switch env {
	case "production":
		envVarName = "PROD_DB_PASSWORD"
		secretFile = ".prod_db_password"
	default:
		envVarName = "DEV_DB_PASSWORD"
		secretFile = ".dev_db_password"
	}

	password := ""

	if pass := os.Getenv(envVarName); pass != "" {
		password = pass
	}

	if password == "" {
		if err := godotenv.Load(); err == nil {
			if pass := os.Getenv(envVarName); pass != "" {
				password = pass
			}
		}
	}

	if password == "" {
		secretPath := filepath.Join("..", "secrets", secretFile)
		if data, err := os.ReadFile(secretPath); err == nil {
			password = strings.TrimSpace(string(data))
		}
	}

	return password
}

// expandConfig resolves ${VAR} references so secrets never live in the YAML.
func expandConfig(cfg *Config) {
	cfg.Redis.Password = os.ExpandEnv(cfg.Redis.Password)

	cfg.Providers.GoogleClientID = os.ExpandEnv(cfg.Providers.GoogleClientID)
	cfg.Providers.GoogleClientSecret = os.ExpandEnv(cfg.Providers.GoogleClientSecret)
	cfg.Providers.FBClientID = os.ExpandEnv(cfg.Providers.FBClientID)
	cfg.Providers.FBClientSecret = os.ExpandEnv(cfg.Providers.FBClientSecret)

	cfg.Mail.EmailAPIKey = os.ExpandEnv(cfg.Mail.EmailAPIKey)
	cfg.Mail.SMTPPassword = os.ExpandEnv(cfg.Mail.SMTPPassword)

	cfg.SMS.AccountSID = os.ExpandEnv(cfg.SMS.AccountSID)
	cfg.SMS.AuthToken = os.ExpandEnv(cfg.SMS.AuthToken)
	cfg.SMS.FromNumber = os.ExpandEnv(cfg.SMS.FromNumber)

	cfg.Razorpay.KeyID = os.ExpandEnv(cfg.Razorpay.KeyID)
	cfg.Razorpay.KeySecret = os.ExpandEnv(cfg.Razorpay.KeySecret)
}
