package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BindNotificationQueue declares the notifications queue and binds it to both
// report routing keys. Returns the declared queue name.
func BindNotificationQueue(ch *amqp.Channel) (string, error) {
	q, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range []string{KeyReportCreated, KeyReportUpdated} {
		if err := ch.QueueBind(q.Name, key, ReportsExchange, false, nil); err != nil {
			return "", fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}

	return q.Name, nil
}

// ConsumeMessages starts an auto-ack consumer on the given queue.
func ConsumeMessages(ch *amqp.Channel, queueName string) (<-chan amqp.Delivery, error) {
	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}
