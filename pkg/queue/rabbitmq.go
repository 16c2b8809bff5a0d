package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReportsExchange carries report lifecycle events. Routing keys:
// report.created for new submissions, report.updated for status changes.
const (
	ReportsExchange   = "reports"
	KeyReportCreated  = "report.created"
	KeyReportUpdated  = "report.updated"
	NotificationQueue = "notifications"
)

func ConnectRabbitMQ(uri string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ReportsExchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return conn, ch, nil
}
