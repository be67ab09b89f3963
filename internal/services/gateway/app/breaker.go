package app

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// newBreaker trips after fails consecutive failures and stays open for openFor.
// isSuccessful may be nil; otherwise errors it accepts do not count as failures.
func newBreaker(name string, fails int, openFor time.Duration, logger *log.Logger, isSuccessful func(error) bool) *gobreaker.CircuitBreaker {
	if fails < 1 {
		fails = 1
	}
	if openFor <= 0 {
		openFor = 10 * time.Second
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("gateway: breaker %s %s -> %s", name, from, to)
		},
		IsSuccessful: isSuccessful,
	})
}
