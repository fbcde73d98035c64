//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-dashboard/internal/bootstrap"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
)

func initializeTerminal() (*bootstrap.Terminal, func(), error) {
	wire.Build(
		config.Load,
		bootstrap.ProvideTerminalLogger,
		bootstrap.DashboardSet,
		bootstrap.NewTerminal,
	)
	return nil, nil, nil
}
