package engine

import (
	"context"

	"steadyview/internal/transport"
	"steadyview/source"
	"steadyview/steady"
)

type Engine struct {
	transport *transport.Server
	stab      *steady.Stabilizer
	src       source.Adapter
}

func (e *Engine) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		e.transport.Stop()
		if e.stab != nil {
			e.stab.Destroy()
		}
		if e.src != nil {
			_ = e.src.Close()
		}
	}()

	return e.transport.Serve()
}
