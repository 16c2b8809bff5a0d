package main

import (
	"context"
	"fmt"
	"log"

	"animal-safety-hub/pkg/database"
	"animal-safety-hub/pkg/queue"
	"animal-safety-hub/pkg/storage"
	"animal-safety-hub/services/report-service/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg         Config
	reports     *mongo.Collection
	transitions models.TransitionTable

	// amqpChannel is nil when event publishing is not configured.
	amqpChannel *amqp.Channel
	amqpConn    *amqp.Connection

	// evidence is nil when MinIO is not configured.
	evidence *storage.EvidenceStore
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	db, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}

	transitions, err := models.LoadTransitions(cfg.Transitions)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:         cfg,
		reports:     db.Collection("reports"),
		transitions: transitions,
	}

	if err := app.createIndexes(ctx); err != nil {
		log.Printf("[WARN] Index creation: %v", err)
	}

	if cfg.AMQPURI != "" {
		conn, ch, err := queue.ConnectRabbitMQ(cfg.AMQPURI)
		if err != nil {
			return nil, err
		}
		app.amqpConn = conn
		app.amqpChannel = ch
		log.Println("[OK] Connected to RabbitMQ")
	} else {
		log.Println("[INFO] AMQP_URI not set, event publishing disabled")
	}

	if cfg.MinioEndpoint != "" {
		store, err := storage.NewEvidenceStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		app.evidence = store
		log.Println("[OK] Evidence storage ready")
	} else {
		log.Println("[INFO] MINIO_ENDPOINT not set, evidence presigning disabled")
	}

	return app, nil
}

func (a *App) createIndexes(ctx context.Context) error {
	_, err := a.reports.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "incident.urgency", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create report indexes: %w", err)
	}
	return nil
}

func (a *App) close() {
	if a.amqpChannel != nil {
		a.amqpChannel.Close()
	}
	if a.amqpConn != nil {
		a.amqpConn.Close()
	}
	if a.reports != nil {
		_ = a.reports.Database().Client().Disconnect(context.Background())
	}
}

// publishEvent sends a report lifecycle event. Publish failures are logged
// and never fail the request that triggered them.
func (a *App) publishEvent(routingKey string, event models.ReportEvent) {
	if a.amqpChannel == nil {
		return
	}
	if err := queue.PublishEvent(a.amqpChannel, routingKey, event); err != nil {
		log.Printf("[WARN] Report saved but failed to publish event: %v", err)
		return
	}
	log.Printf("[INFO] Event %s published for report %s", event.Type, event.ReportID)
}
