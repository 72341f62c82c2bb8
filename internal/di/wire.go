//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Akash-repo/service-p/pkg/config"
	"github.com/Akash-repo/service-p/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The returned cleanup releases cache, Postgres and ClickHouse.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		InfraSet,
		RepositorySet,
		UsecaseSet,
	)
	return nil, nil, nil
}
