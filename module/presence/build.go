package presence

import (
	"context"
	"database/sql"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"

	"github.com/nandanugg/geopresence/module/presence/domain"
	handler "github.com/nandanugg/geopresence/module/presence/internal/handler/http"
	"github.com/nandanugg/geopresence/module/presence/internal/handler/subscriber"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database/memory"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/database/postgres"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/geopresence/module/presence/internal/repository/status"
	"github.com/nandanugg/geopresence/module/presence/service"
)

type Module struct {
	Registry    *service.NodeRegistry
	VariableSvc *service.VariableService
	Status      *status.Board
	nodeHandler *handler.NodeHandler
	varHandler  *handler.VariableHandler
	subscriber  *subscriber.MessageSubscriber
}

// Build wires the presence module. Node context and variables live in
// postgres when db is non-nil and in memory otherwise.
func Build(ctx context.Context, db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, nodes []domain.NodeConfig, statusTopicPrefix string) (*Module, error) {
	var (
		contextStore database.ContextStore
		variableRepo database.VariableRepository
	)
	if db != nil {
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return nil, err
		}
		contextStore = postgres.NewContextRepo(db)
		variableRepo = postgres.NewVariableRepo(db)
	} else {
		contextStore = memory.NewContextStore()
		variableRepo = memory.NewVariableRepo()
	}

	presencePub, err := rabbitmq.NewPresencePublisher(amqpConn)
	if err != nil {
		return nil, eris.Wrap(err, "presence publisher")
	}

	board := status.NewBoard(status.NewMQTTReporter(mqttClient, statusTopicPrefix))
	registry := service.NewNodeRegistry(nodes, contextStore, variableRepo, presencePub, board)
	variableSvc := service.NewVariableService(variableRepo)

	return &Module{
		Registry:    registry,
		VariableSvc: variableSvc,
		Status:      board,
		nodeHandler: handler.NewNodeHandler(registry, board),
		varHandler:  handler.NewVariableHandler(variableSvc),
		subscriber:  subscriber.NewMessageSubscriber(mqttClient, registry),
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.nodeHandler.Register(r)
	m.varHandler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}
