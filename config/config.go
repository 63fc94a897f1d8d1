package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Session   SessionConfigs
	Google    OAuth2Configs
	Engine    EngineConfigs
	Adapter   AdapterConfigs
	LogLevel  string
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	AllowedOrigins []string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs

	// Browser destinations after the OAuth2 callback. When empty the callback
	// answers with the JSON envelope instead of redirecting.
	CompletedRedirectURL string
	FailedRedirectURL    string
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

// OAuth2Configs describes one external identity provider. The endpoint URLs
// default to Google's and are overridable so tests can point them at a local
// server.
type OAuth2Configs struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	AuthURL     string
	TokenURL    string
	RevokeURL   string
	UserinfoURL string

	// RefreshSkew is subtracted from the stored expiry when deciding whether
	// a token still counts as live.
	RefreshSkew time.Duration
	Timeout     time.Duration
}

// EngineConfigs configures the workflow automation engine client.
type EngineConfigs struct {
	BaseURL string
	APIKey  string

	Timeout        time.Duration
	RetryMax       int
	RetryBaseDelay time.Duration

	// SettleDelay is waited after a workflow activation before the activation
	// is reported as done. Webhook registrations on the engine are not
	// immediately reachable.
	SettleDelay time.Duration
}

type AdapterConfigs struct {
	// TestMode makes the Gmail/Calendar adapters return canned data instead
	// of calling the vendor. It is threaded through constructors explicitly.
	TestMode bool
	Timeout  time.Duration
}
