package source

import (
	"fmt"

	"steadyview/steady"
)

// Adapter is the driver-level contract: a configurable steady.EventSource
// with an explicit Close. Configure takes the driver's own config struct.
type Adapter interface {
	steady.EventSource
	Configure(raw any) error
	Close() error
}

// Factory builds an Adapter (e.g. the sarama driver, the memory source).
type Factory func() Adapter

var registry = map[string]Factory{}

// Register is called from each driver's factory map, usually in main.
func Register(name string, f Factory) {
	registry[name] = f
}

// NewAdapter returns a driver by name ("sarama", "memory", …).
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("source: unsupported driver %q", name)
}
