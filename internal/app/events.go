package app

import (
	"io"
	"log"

	"tourbook/internal/config"
	"tourbook/internal/rabbitmq"
	"tourbook/internal/service"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewEventSink returns the sink notifications are delivered to. When RabbitMQ
// is disabled or unreachable at startup, notifications are only logged.
func NewEventSink(cfg config.RabbitMQConfig) (service.EventSink, io.Closer) {
	if !cfg.Enabled {
		log.Println("RabbitMQ disabled, notifications will be logged only")
		return service.LogSink{}, nopCloser{}
	}

	publisher, err := rabbitmq.Dial(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, notifications will be logged only: %v", err)
		return service.LogSink{}, nopCloser{}
	}

	log.Printf("Publishing notifications to RabbitMQ exchange %q", cfg.Exchange)
	return publisher, publisher
}
