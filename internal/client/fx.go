package client

import (
	"github.com/smallbiznis/gescom/internal/client/repository"
	"github.com/smallbiznis/gescom/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
