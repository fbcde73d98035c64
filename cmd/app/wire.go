//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-dashboard/internal/bootstrap"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	httpiface "github.com/yanqian/weather-dashboard/internal/interface/http"
	"github.com/yanqian/weather-dashboard/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		bootstrap.DashboardSet,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
