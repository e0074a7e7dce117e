package consumer

import (
	"fmt"

	"steadyview/steady"
)

// Driver is a configurable steady.Consumer. Drivers that also implement
// steady.RawSampleObserver or steady.MetaInfoObserver receive those
// deliveries automatically; the core wires the capability if present.
type Driver interface {
	steady.Consumer
	Configure(raw any) error
}

/*──────── registry ───────*/

type factory = func() Driver

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewDriver(name string) (Driver, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown consumer %q", name)
}
