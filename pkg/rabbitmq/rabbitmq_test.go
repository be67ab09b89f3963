package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/labmet/pkg/rabbitmq/mqtttest"
)

func TestQosFor(t *testing.T) {
	tests := map[string]byte{
		"station/aggregated/st-1": 1,
		"labmet/result/p1":        1,
		" labmet/alert/p1":        1,
		"station/data/st-1":       0,
		"other":                   0,
	}
	for topic, want := range tests {
		if got := qosFor(topic); got != want {
			t.Errorf("qosFor(%q) = %d, want %d", topic, got, want)
		}
	}
}

func TestPublishEncodes(t *testing.T) {
	c := mqtttest.NewClient()
	p := NewPublisher(c, "labmet/result/p1")

	if err := p.PublishMessage(map[string]float64{"eto": 3.5}); err != nil {
		t.Fatal(err)
	}
	if err := p.PublishTo("station/data/st-1", "raw"); err != nil {
		t.Fatal(err)
	}
	if err := p.PublishMessage(nil); err == nil {
		t.Fatal("nil message accepted")
	}

	got := c.Published()
	if len(got) != 2 {
		t.Fatalf("published %d messages", len(got))
	}
	var m map[string]float64
	if err := json.Unmarshal(got[0].Payload, &m); err != nil || m["eto"] != 3.5 {
		t.Fatalf("payload %s: %v", got[0].Payload, err)
	}
	if got[0].QoS != 1 || got[1].QoS != 0 || string(got[1].Payload) != "raw" {
		t.Fatalf("unexpected deliveries %+v", got)
	}
}

func TestPublishError(t *testing.T) {
	c := mqtttest.NewClient()
	c.PublishErr = errors.New("broker down")
	if err := NewPublisher(c, "x").PublishMessage("a"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMultiConsumerDispatchesUntilCancelled(t *testing.T) {
	c := mqtttest.NewClient()
	var mu sync.Mutex
	var seen []string
	mc := NewMultiConsumer(c, []string{"labmet/alert/#", "labmet/result/+"}, func(topic string, msg mqtt.Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, topic+"|"+msg.Topic())
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		mc.ConsumeMessage(ctx)
		close(finished)
	}()
	if !c.WaitSubscribed("labmet/result/+", time.Second) || !c.WaitSubscribed("labmet/alert/#", time.Second) {
		t.Fatal("not subscribed")
	}

	pub := NewPublisher(c, "")
	_ = pub.PublishTo("labmet/alert/p1", "a")
	_ = pub.PublishTo("labmet/result/p2", "r")
	_ = pub.PublishTo("station/data/s", "ignored")

	cancel()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
	if c.Subscribed("labmet/alert/#") {
		t.Fatal("still subscribed after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "labmet/alert/#|labmet/alert/p1" || seen[1] != "labmet/result/+|labmet/result/p2" {
		t.Fatalf("seen = %v", seen)
	}
}
