package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/mantra-lab/backend/internal/middleware"
	"github.com/mantra-lab/backend/pkg/router"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = context.Background()
	s.loadConfig()
	s.ctx = xcontext.WithConfigs(s.ctx, s.configs)
	s.loadLogger()
	s.loadDatabase()
	s.loadAuth()
	s.loadEndpoint()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.configs.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: c.Handler(s.router.Handler()),
	}

	s.logger.Infof("Starting the API server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)

	router.GET(s.router, "/auth/url", s.authDomain.OAuth2URL)
	router.GET(s.router, "/auth/callback", s.authDomain.OAuth2Callback)
	router.GET(s.router, "/engine/health", s.engineDomain.GetHealth)

	needAuth := s.router.Branch()
	needAuth.Before(middleware.NewAuthVerifier().WithAccessToken().Middleware())

	router.GET(needAuth, "/auth/status", s.authDomain.GetConnectionStatus)
	router.POST(needAuth, "/auth/disconnect", s.authDomain.Disconnect)

	router.GET(needAuth, "/templates", s.mantraDomain.GetList)
	router.POST(needAuth, "/templates", s.mantraDomain.Create)
	router.GET(needAuth, "/templates/get", s.mantraDomain.Get)
	router.POST(needAuth, "/templates/install", s.mantraDomain.Install)

	router.GET(needAuth, "/installations", s.mantraDomain.GetInstalled)
	router.POST(needAuth, "/installations/uninstall", s.mantraDomain.Uninstall)
	router.POST(needAuth, "/installations/execute", s.mantraDomain.Execute)

	router.GET(needAuth, "/tiles", s.tileDomain.GetTiles)
}
