package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gescom/internal/clock"
	"github.com/smallbiznis/gescom/internal/config"
	"github.com/smallbiznis/gescom/internal/logger"
	"github.com/smallbiznis/gescom/internal/migration"
	"github.com/smallbiznis/gescom/internal/observability"
	"github.com/smallbiznis/gescom/internal/server"
	"github.com/smallbiznis/gescom/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
