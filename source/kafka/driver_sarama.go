package kafka

import (
	"context"
	"errors"

	"github.com/IBM/sarama"

	"chartbridge/frame"
	"chartbridge/internal/logging"
)

// SaramaDriver consumes conversion requests with a sarama consumer group.
// Offsets are marked only after the pipeline accepted a frame, so a crash
// replays unanswered requests.
type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup
}

func (d *SaramaDriver) Configure(config Config) error {
	d.cfg = config
	sc, err := saramaConfig(config)
	if err != nil {
		return err
	}
	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

func saramaConfig(config Config) (*sarama.Config, error) {
	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return nil, err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = true
	sc.Consumer.Offsets.AutoCommit.Interval = config.Checkpoint.CommitInt
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	if config.StartFrom == StartOldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	return sc, nil
}

// Run consumes until ctx is done, returning nil, or until emit fails,
// returning that error. Sarama would otherwise only log a failed claim and
// rebalance, so the failure is carried out through the run context.
func (d *SaramaDriver) Run(ctx context.Context, emit EmitFunc) error {
	if d.group == nil {
		return errors.New("sarama-driver: not configured")
	}
	go func() {
		for err := range d.group.Errors() {
			logging.L().Warn("sarama-driver: consumer error", "err", err)
		}
	}()

	runCtx, stop := context.WithCancelCause(ctx)
	defer stop(nil)
	handler := &groupHandler{emit: emit, fail: stop}

	for {
		err := d.group.Consume(runCtx, d.cfg.Topics, handler)
		switch {
		case ctx.Err() != nil:
			return nil
		case runCtx.Err() != nil:
			return context.Cause(runCtx)
		case err != nil:
			return err
		}
	}
}

func (d *SaramaDriver) Close() error {
	var err error
	if d.group != nil {
		err = d.group.Close()
	}
	if d.cl != nil && !d.cl.Closed() {
		if cerr := d.cl.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type groupHandler struct {
	emit EmitFunc
	fail context.CancelCauseFunc
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

func (*groupHandler) Cleanup(sess sarama.ConsumerGroupSession) error {
	logging.L().Info("sarama-driver: session ended", "generation", sess.GenerationID())
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-sess.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.emit(sess.Context(), toFrame(msg)); err != nil {
				if h.fail != nil {
					h.fail(err)
				}
				return err
			}
			sess.MarkMessage(msg, "")
		}
	}
}

func toFrame(msg *sarama.ConsumerMessage) *frame.Frame {
	return &frame.Frame{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   toHeaderMap(msg.Headers),
		Ts:        msg.Timestamp,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	}
}

func toHeaderMap(src []*sarama.RecordHeader) map[string][]byte {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]byte, len(src))
	for _, h := range src {
		out[string(h.Key)] = h.Value
	}
	return out
}
