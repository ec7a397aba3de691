package pipeline

import (
	"fmt"
	"time"

	"chartbridge/internal/config"
	"chartbridge/internal/spec"
	"chartbridge/sink"
	sinkkafka "chartbridge/sink/kafka"
	"chartbridge/sink/stdout"
	"chartbridge/source/kafka"
)

// Compile builds a Runner from a pipeline file. conv performs the
// conversions; the runner does not own it.
func Compile(path string, conv Converter) (*Runner, error) {
	cfg, confPath, err := config.LoadPipelineSpec(path)
	if err != nil {
		return nil, err
	}

	if cfg.Source.Kind != "kafka" {
		return nil, fmt.Errorf("unsupported source %q", cfg.Source.Kind)
	}
	kc, err := config.LoadKafkaConfig(confPath)
	if err != nil {
		return nil, err
	}
	src, err := kafka.NewAdapter(cfg.Source.Driver)
	if err != nil {
		return nil, err
	}
	if err = src.Configure(kc); err != nil {
		return nil, err
	}

	r := NewRunner(conv)
	r.SetSource(src)
	r.SetTimeout(time.Duration(cfg.Worker.TimeoutMS) * time.Millisecond)

	for _, name := range cfg.Sinks {
		s, err := sink.NewAdapter(name)
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		sc, err := sinkConfig(cfg, name)
		if err == nil {
			err = s.Configure(sc)
		}
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("sink %s: %w", name, err)
		}
		r.AddSink(s)
	}
	return r, nil
}

func sinkConfig(cfg spec.File, name string) (any, error) {
	switch name {
	case "stdout":
		c := cfg.SinkConfigs.Stdout
		return stdout.Config{Pretty: c.Pretty, ValueMaxBytes: c.ValueMaxBytes}, nil
	case "kafka":
		c := cfg.SinkConfigs.Kafka
		return sinkkafka.Config{Brokers: c.Brokers, Topic: c.Topic, Acks: c.RequiredAcks}, nil
	default:
		return nil, fmt.Errorf("no config block for sink %q", name)
	}
}
