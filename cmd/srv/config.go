package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mantra-lab/backend/config"
)

func (s *srv) loadConfig() {
	// Env files are optional; real deployments inject the environment.
	_ = godotenv.Load()

	s.configs = config.Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "mantra"),
			User:     getEnv("MYSQL_USER", "mantra"),
			Password: getEnv("MYSQL_PASSWORD", "mantra"),
		},
		ApiServer: config.ServerConfigs{
			Host:           getEnv("HOST", "0.0.0.0"),
			Port:           getEnv("PORT", "8080"),
			Cert:           getEnv("SERVER_CERT", ""),
			Key:            getEnv("SERVER_KEY", ""),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       getEnv("ACCESS_TOKEN_NAME", "access_token"),
				Expiration: getDuration("ACCESS_TOKEN_DURATION", "24h"),
			},
			CompletedRedirectURL: getEnv("AUTH_COMPLETED_REDIRECT_URL", "/?connected=true"),
			FailedRedirectURL:    getEnv("AUTH_FAILED_REDIRECT_URL", "/login"),
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session-secret"),
			Name:   getEnv("SESSION_NAME", "mantra_session"),
		},
		Google: config.OAuth2Configs{
			Name:         "google",
			Issuer:       getEnv("GOOGLE_ISSUER", ""),
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/callback"),
			Scopes:       getList("GOOGLE_SCOPES"),
			RefreshSkew:  getDuration("GOOGLE_REFRESH_SKEW", "60s"),
			Timeout:      getDuration("GOOGLE_TIMEOUT", "30s"),
		},
		Engine: config.EngineConfigs{
			BaseURL:        getEnv("N8N_BASE_URL", "http://localhost:5678"),
			APIKey:         getEnv("N8N_API_KEY", ""),
			Timeout:        getDuration("N8N_TIMEOUT", "30s"),
			RetryMax:       getInt("N8N_RETRY_MAX", "3"),
			RetryBaseDelay: getDuration("N8N_RETRY_BASE_DELAY", "500ms"),
			SettleDelay:    getDuration("N8N_SETTLE_DELAY", "2s"),
		},
		Adapter: config.AdapterConfigs{
			TestMode: getBool("ADAPTER_TEST_MODE", false),
			Timeout:  getDuration("ADAPTER_TIMEOUT", "30s"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

// getList splits a comma or space separated variable; an unset variable
// yields nil so callers can fall back to their defaults.
func getList(key string) []string {
	return strings.FieldsFunc(getEnv(key, ""), func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func getInt(key, fallback string) int {
	value, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		panic(fmt.Sprintf("invalid integer for %s: %v", key, err))
	}

	return value
}

func getBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		panic(fmt.Sprintf("invalid boolean for %s: %v", key, err))
	}

	return value
}

func getDuration(key, fallback string) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		panic(fmt.Sprintf("invalid duration for %s: %v", key, err))
	}

	return value
}
