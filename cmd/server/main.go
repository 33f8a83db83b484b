package main

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nandanugg/geopresence/config"
	"github.com/nandanugg/geopresence/module/presence"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	nodes, err := config.LoadNodes(cfg.NodesFile)
	if err != nil {
		logger.Fatal("load nodes", zap.Error(err))
	}

	var db *sql.DB
	if cfg.StoreDriver == config.StoreDriverPostgres {
		db, err = config.NewPostgres(cfg)
		if err != nil {
			logger.Fatal("postgres", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
	}

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		logger.Fatal("rabbitmq", zap.Error(err))
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		logger.Fatal("mqtt", zap.Error(err))
	}
	defer mqttClient.Disconnect(250)

	presenceModule, err := presence.Build(context.Background(), db, amqpConn, mqttClient, nodes, cfg.StatusTopicPrefix)
	if err != nil {
		logger.Fatal("presence module", zap.Error(err))
	}

	if err := presenceModule.StartSubscribers(); err != nil {
		logger.Fatal("start subscribers", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), config.RequestLogger())

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	presenceModule.RegisterRoutes(&r.RouterGroup)

	logger.Info("listening",
		zap.String("port", cfg.HTTPPort),
		zap.String("store", cfg.StoreDriver),
		zap.Int("nodes", len(nodes)),
	)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
