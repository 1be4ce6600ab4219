//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"repohub/internal/app"
	"repohub/internal/config"
	"repohub/internal/http"
	"repohub/internal/http/controller"
	"repohub/internal/idgen"
	"repohub/internal/logging"
	"repohub/internal/metrics"
	"repohub/internal/queue"
	"repohub/internal/queue/rabbitmq"
	"repohub/internal/repository"
	"repohub/internal/service/repos"
	"repohub/internal/sse"
	"repohub/internal/store/memory"
)

func InitializeApp() (*app.App, error) {
	wire.Build(
		config.New,
		logging.New,
		memory.New,
		wire.Bind(new(repository.RepositoryStore), new(*memory.Store)),
		idgen.NewV4,
		sse.NewHub,
		metrics.New,
		rabbitmq.NewEventDispatcher,
		wire.Bind(new(queue.Publisher), new(*queue.Dispatcher)),
		repos.NewService,
		controller.NewHandler,
		http.NewRouter,
		rabbitmq.NewConsumer,
		app.NewApp,
	)
	return &app.App{}, nil
}
