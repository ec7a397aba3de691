package kafka

import (
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"chartbridge/frame"
	"chartbridge/internal/logging"
	"chartbridge/sink"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
}

// driver produces synchronously; Push returns once the broker has acked.
type driver struct {
	cfg Config
	p   sarama.SyncProducer
}

// NewWithProducer wires an existing producer, skipping Configure's dial.
func NewWithProducer(cfg Config, p sarama.SyncProducer) sink.Adapter {
	return &driver{cfg: cfg, p: p}
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return errors.New("kafka-sink: brokers and topic are required")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return err
	}
	d.p = p
	return nil
}

func (d *driver) Push(f *frame.Frame) error {
	if d.p == nil {
		return errors.New("kafka-sink: not configured")
	}
	partition, offset, err := d.p.SendMessage(&sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.ByteEncoder(f.Key),
		Value: sarama.ByteEncoder(f.Value),
	})
	if err != nil {
		logging.L().Error("kafka-sink: produce failed", "topic", d.cfg.Topic, "err", err)
		return fmt.Errorf("kafka-sink: produce to %s: %w", d.cfg.Topic, err)
	}
	logging.L().Debug("kafka-sink: produced", "topic", d.cfg.Topic, "partition", partition, "offset", offset)
	return nil
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	err := d.p.Close()
	d.p = nil
	return err
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
