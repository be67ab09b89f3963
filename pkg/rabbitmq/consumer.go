package rabbitmq

import (
	"context"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one delivery. topic is the subscription filter.
type Handler func(topic string, message mqtt.Message) error

// IConsumer subscribes and dispatches to a handler until ctx is done.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

// Consumer subscribes to a single topic filter.
type Consumer struct {
	client  mqtt.Client
	handler Handler
	topic   string
}

// NewConsumer creates a Consumer on the shared client.
func NewConsumer(client mqtt.Client, topic string, handler Handler) *Consumer {
	return &Consumer{
		client:  client,
		topic:   topic,
		handler: handler,
	}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// Station data and everything the model emits must not be lost; raw
// readings are resent every few seconds anyway.
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "station/aggregated") ||
		strings.HasPrefix(t, "labmet/result") ||
		strings.HasPrefix(t, "labmet/alert") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes and blocks until ctx is cancelled.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	subscribe(ctx, c.client, []string{c.topic}, func() Handler { return c.handler })
}

// MultiConsumer subscribes to several topic filters with one handler.
type MultiConsumer struct {
	client  mqtt.Client
	topics  []string
	handler Handler
}

func NewMultiConsumer(client mqtt.Client, topics []string, handler Handler) *MultiConsumer {
	return &MultiConsumer{
		client:  client,
		topics:  topics,
		handler: handler,
	}
}

func (m *MultiConsumer) SetHandler(handler Handler) {
	m.handler = handler
}

func (m *MultiConsumer) ConsumeMessage(ctx context.Context) {
	subscribe(ctx, m.client, m.topics, func() Handler { return m.handler })
}

func subscribe(ctx context.Context, client mqtt.Client, topics []string, handler func() Handler) {
	subscribed := make([]string, 0, len(topics))
	for _, topic := range topics {
		topic := topic
		token := client.Subscribe(topic, qosFor(topic), func(_ mqtt.Client, msg mqtt.Message) {
			h := handler()
			if h == nil {
				log.Printf("mqtt: no handler set for topic %s", topic)
				return
			}
			if err := h(topic, msg); err != nil {
				log.Printf("mqtt: handling message on %s: %v", msg.Topic(), err)
			}
		})
		if token.Wait() && token.Error() != nil {
			log.Printf("mqtt: subscribe to %s: %v", topic, token.Error())
			continue
		}
		subscribed = append(subscribed, topic)
		log.Printf("mqtt: subscribed to %s", topic)
	}

	<-ctx.Done()

	if len(subscribed) > 0 {
		client.Unsubscribe(subscribed...).Wait()
	}
}
