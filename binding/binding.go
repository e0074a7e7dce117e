// Package binding implements steady.Connection over gRPC: the bound link
// to the stabilization service. Acquire dials the endpoint and proves it
// alive with a grpc.health.v1 check; Release closes the connection.
package binding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"steadyview/internal/logging"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Config struct {
	Target  string
	Timeout time.Duration // per-Acquire bound (default 3s)

	// DialOptions override the defaults, e.g. to inject a bufconn dialer
	// in tests or real transport credentials in production.
	DialOptions []grpc.DialOption
}

type ServiceBinding struct {
	cfg Config

	mu   sync.Mutex
	conn *grpc.ClientConn
}

func New(cfg Config) *ServiceBinding {
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Second
	}
	if len(cfg.DialOptions) == 0 {
		cfg.DialOptions = []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		}
	}
	return &ServiceBinding{cfg: cfg}
}

// Acquire is bounded by cfg.Timeout and idempotent: a held connection is
// kept. Failure leaves the binding released so a later attempt can retry.
func (b *ServiceBinding) Acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		return nil
	}

	cc, err := grpc.NewClient(b.cfg.Target, b.cfg.DialOptions...)
	if err != nil {
		return fmt.Errorf("binding: dial %s: %w", b.cfg.Target, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.Timeout)
	defer cancel()
	resp, err := healthpb.NewHealthClient(cc).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		_ = cc.Close()
		return fmt.Errorf("binding: health check %s: %w", b.cfg.Target, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		_ = cc.Close()
		return fmt.Errorf("binding: service %s not serving (%s)", b.cfg.Target, resp.GetStatus())
	}

	b.conn = cc
	logging.L().Info("binding: service bound", "target", b.cfg.Target)
	return nil
}

func (b *ServiceBinding) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return
	}
	_ = b.conn.Close()
	b.conn = nil
	logging.L().Info("binding: service released", "target", b.cfg.Target)
}
