package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes to a fixed topic.
type IPublisher interface {
	PublishMessage(message interface{}) error
	Close()
}

// TopicPublisher publishes to a topic chosen per message.
type TopicPublisher interface {
	PublishTo(topic string, message interface{}) error
}

// Publisher holds the client and the default topic.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher creates a Publisher on the shared client. topic is the
// default used by PublishMessage.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// PublishMessage publishes to the default topic.
func (p *Publisher) PublishMessage(message interface{}) error {
	return p.PublishTo(p.topic, message)
}

// PublishTo publishes message on topic. Strings and byte slices are sent as
// they are, anything else is JSON encoded. QoS follows the topic.
func (p *Publisher) PublishTo(topic string, message interface{}) error {
	payload, err := encode(message)
	if err != nil {
		return err
	}
	token := p.client.Publish(topic, qosFor(topic), false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish on %s: %w", topic, token.Error())
	}
	log.Printf("mqtt: published %d bytes on %s", len(payload), topic)
	return nil
}

// Close disconnects the shared client.
func (p *Publisher) Close() {
	CloseRabbitMQConn(p.client)
}

func encode(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case string:
		return []byte(m), nil
	case []byte:
		return m, nil
	case nil:
		return nil, fmt.Errorf("invalid message: nil")
	}
	b, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("invalid message format: %w", err)
	}
	return b, nil
}
