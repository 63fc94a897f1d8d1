package main

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/mantra-lab/backend/config"
	"github.com/mantra-lab/backend/internal/domain"
	"github.com/mantra-lab/backend/internal/entity"
	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/api/n8n"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/logger"
	"github.com/mantra-lab/backend/pkg/router"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx     context.Context
	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	google *authenticator.GoogleOAuth
	engine n8n.Engine

	userRepo         repository.UserRepository
	credentialRepo   repository.CredentialRepository
	mantraRepo       repository.MantraRepository
	installationRepo repository.InstallationRepository

	authDomain   domain.AuthDomain
	mantraDomain domain.MantraDomain
	tileDomain   domain.TileDomain
	engineDomain domain.EngineDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.Level(s.configs.LogLevel))
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadAuth() {
	s.ctx = xcontext.WithSessionStore(s.ctx,
		sessions.NewCookieStore([]byte(s.configs.Session.Secret)))
	s.ctx = xcontext.WithTokenEngine(s.ctx,
		authenticator.NewTokenEngine[model.AccessToken](
			s.configs.Auth.TokenSecret, s.configs.Auth.AccessToken))
}

func (s *srv) loadEndpoint() {
	// Engine calls resolve their client through the context; without this
	// a stalled engine would hold a request open forever.
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: s.configs.Engine.Timeout})

	google, err := authenticator.NewGoogleOAuth(s.ctx, s.configs.Google)
	if err != nil {
		panic(err)
	}

	s.google = google
	s.engine = n8n.New(s.configs.Engine)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.credentialRepo = repository.NewCredentialRepository()
	s.mantraRepo = repository.NewMantraRepository()
	s.installationRepo = repository.NewInstallationRepository()
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.credentialRepo, s.google)
	s.mantraDomain = domain.NewMantraDomain(
		s.mantraRepo, s.installationRepo, s.userRepo, s.credentialRepo, s.google, s.engine)
	s.tileDomain = domain.NewTileDomain(s.credentialRepo, s.google)
	s.engineDomain = domain.NewEngineDomain(s.engine)
}

func (s *srv) migrate(*cli.Context) error {
	s.ctx = context.Background()
	s.loadConfig()
	s.ctx = xcontext.WithConfigs(s.ctx, s.configs)
	s.loadLogger()
	s.loadDatabase()

	return entity.MigrateTable(s.ctx)
}
