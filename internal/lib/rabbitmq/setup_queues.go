// Package rabbitmq содержит подключение к RabbitMQ, объявление очередей
// уведомлений, публикацию и потребление JSON-сообщений.
package rabbitmq

// NotificationsExchange — direct-exchange для всех уведомлений платформы.
const NotificationsExchange = "notifications"

// Очередь и ключ маршрутизации решений по заявкам организаторов.
const (
	OrganizerDecisionQueue      = "notifications.organizer_decision"
	OrganizerDecisionRoutingKey = "organizer.decision"
)

// QueueConfig описывает очередь и ключ, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляются при настройке канала.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: OrganizerDecisionQueue, RoutingKey: OrganizerDecisionRoutingKey},
	}
}
