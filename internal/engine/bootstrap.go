package engine

import (
	"fmt"
	"time"

	"steadyview/binding"
	"steadyview/consumer"
	"steadyview/consumer/stdout"
	"steadyview/internal/config"
	"steadyview/internal/logging"
	"steadyview/internal/telemetry"
	"steadyview/internal/transport"
	"steadyview/source"
	"steadyview/source/memory"
	"steadyview/steady"
)

type Config struct {
	HealthPort  int
	MetricsPort int
	ProfileYml  string
}

func Bootstrap(cfg Config) (*Engine, error) {
	// 1. liveness server
	srv, err := transport.StartServer(cfg.HealthPort)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}

	// 2. steady core wired from the profile
	var (
		stab *steady.Stabilizer
		src  source.Adapter
	)
	if cfg.ProfileYml != "" {
		stab, src, err = compile(cfg.ProfileYml)
		if err != nil {
			srv.Stop()
			return nil, fmt.Errorf("profile: %w", err)
		}
	}

	// 3. metrics
	telemetry.Expose(cfg.MetricsPort)

	return &Engine{
		transport: srv,
		stab:      stab,
		src:       src,
	}, nil
}

// compile turns a profile into an attached, running Stabilizer.
func compile(path string) (*steady.Stabilizer, source.Adapter, error) {
	prof, confPath, err := config.LoadProfile(path)
	if err != nil {
		return nil, nil, err
	}

	var src source.Adapter
	switch prof.Source.Kind {
	case "kafka":
		kc, err := config.LoadKafkaConfig(confPath)
		if err != nil {
			return nil, nil, err
		}
		src, err = source.NewAdapter(prof.Source.Driver)
		if err != nil {
			return nil, nil, err
		}
		if err = src.Configure(kc); err != nil {
			return nil, nil, err
		}
	case "memory":
		src = memory.New()
	default:
		return nil, nil, fmt.Errorf("unsupported source %q", prof.Source.Kind)
	}

	conn := binding.New(binding.Config{
		Target:  prof.Service.Target,
		Timeout: time.Duration(prof.Service.TimeoutMS) * time.Millisecond,
	})

	stab, err := steady.New(steady.Config{Connection: conn, Source: src})
	if err != nil {
		return nil, nil, err
	}

	for _, name := range prof.Consumers {
		cDrv, err := consumer.NewDriver(name)
		if err != nil {
			return nil, nil, err
		}

		switch name {
		case "stdout":
			err = cDrv.Configure(stdout.Config{
				PrintRaw:  prof.Debug.PrintRaw,
				PrintMeta: prof.Debug.PrintMeta,
			})
		default:
			err = fmt.Errorf("no config block for consumer %q", name)
		}
		if err != nil {
			return nil, nil, err
		}

		if !stab.Attach(cDrv) {
			logging.L().Warn("engine: service not bound yet, feature inactive until retry",
				"consumer", name, "target", prof.Service.Target)
		}
	}
	return stab, src, nil
}
