package kafka

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"chartbridge/frame"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	ch chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.ch }

func msg(off int64) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{
		Topic: "chart-requests", Partition: 3, Offset: off,
		Key: []byte("k"), Value: []byte(`{"op":"dsl_to_workflow"}`),
		Headers: []*sarama.RecordHeader{{Key: []byte("trace"), Value: []byte("abc")}},
	}
}

func TestConsumeClaim_MarksAfterEmit(t *testing.T) {
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 2)}
	claim.ch <- msg(10)
	claim.ch <- msg(11)
	close(claim.ch)
	sess := &fakeSession{ctx: context.Background()}

	var got []*frame.Frame
	h := &groupHandler{emit: func(_ context.Context, f *frame.Frame) error {
		got = append(got, f)
		return nil
	}}
	require.NoError(t, h.ConsumeClaim(sess, claim))

	require.Len(t, got, 2)
	require.Equal(t, []int64{10, 11}, sess.marked)
	require.Equal(t, "chart-requests", got[0].Topic)
	require.EqualValues(t, 3, got[0].Partition)
	require.Equal(t, []byte("abc"), got[0].Headers["trace"])
}

func TestConsumeClaim_EmitErrorStopsWithoutMark(t *testing.T) {
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 1)}
	claim.ch <- msg(7)
	sess := &fakeSession{ctx: context.Background()}

	boom := errors.New("runtime unavailable")
	h := &groupHandler{emit: func(context.Context, *frame.Frame) error { return boom }}
	require.ErrorIs(t, h.ConsumeClaim(sess, claim), boom)
	require.Empty(t, sess.marked)
}

func TestConsumeClaim_StopsOnSessionDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage)}
	h := &groupHandler{emit: func(context.Context, *frame.Frame) error { return nil }}
	require.NoError(t, h.ConsumeClaim(&fakeSession{ctx: ctx}, claim))
}

func TestToHeaderMap_Empty(t *testing.T) {
	require.Nil(t, toHeaderMap(nil))
}

func TestSaramaConfig(t *testing.T) {
	sc, err := saramaConfig(Config{Version: "2.1.0", StartFrom: "oldest", SASLUser: "u", SASLPass: "p",
		Checkpoint: CheckpointCfg{CommitInt: time.Second}})
	require.NoError(t, err)
	require.Equal(t, sarama.OffsetOldest, sc.Consumer.Offsets.Initial)
	require.True(t, sc.Net.SASL.Enable)
	require.Equal(t, time.Second, sc.Consumer.Offsets.AutoCommit.Interval)

	_, err = saramaConfig(Config{Version: "not-a-version"})
	require.Error(t, err)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kafka_source.yml")
	require.NoError(t, os.WriteFile(path, []byte(`schema_version: v1
brokers: [localhost:9092]
topics: [chart-requests]
group_id: chartbridge
`), 0o644))
	t.Setenv("CHARTBRIDGE_KAFKA__START_FROM", "oldest")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	require.Equal(t, "oldest", cfg.StartFrom)
	require.Equal(t, 5*time.Second, cfg.Checkpoint.CommitInt)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kafka_source.yml")
	require.NoError(t, os.WriteFile(path, []byte("schema_version: v9\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("schema_version: v1\n"), 0o644))
	_, err = LoadConfig(path)
	require.ErrorContains(t, err, "brokers is required")
	require.ErrorContains(t, err, "group_id is required")

	require.NoError(t, os.WriteFile(path, []byte("brokers: [b:9092]\ntopics: [t]\ngroup_id: g\nstart_from: latest\n"), 0o644))
	_, err = LoadConfig(path)
	require.ErrorContains(t, err, "start_from")
}

func TestRegistry(t *testing.T) {
	Register("fake", func() Adapter { return &SaramaDriver{} })
	a, err := NewAdapter("fake")
	require.NoError(t, err)
	require.IsType(t, &SaramaDriver{}, a)

	_, err = NewAdapter("kgo")
	require.Error(t, err)
}

// fakeGroup runs one session over a fixed claim per Consume call.
type fakeGroup struct {
	sarama.ConsumerGroup
	claim  *fakeClaim
	errs   chan error
	rounds int
}

func (g *fakeGroup) Errors() <-chan error { return g.errs }
func (g *fakeGroup) Consume(ctx context.Context, _ []string, h sarama.ConsumerGroupHandler) error {
	g.rounds++
	if g.rounds > 1 {
		<-ctx.Done()
		return nil
	}
	return h.ConsumeClaim(&fakeSession{ctx: ctx}, g.claim)
}

func TestRun_ReturnsEmitError(t *testing.T) {
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 1)}
	claim.ch <- msg(1)
	d := &SaramaDriver{group: &fakeGroup{claim: claim, errs: make(chan error)}}

	boom := errors.New("program files missing")
	err := d.Run(context.Background(), func(context.Context, *frame.Frame) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestRun_StopsCleanlyOnCancel(t *testing.T) {
	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage)}
	close(claim.ch)
	d := &SaramaDriver{group: &fakeGroup{claim: claim, errs: make(chan error)}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, d.Run(ctx, func(context.Context, *frame.Frame) error { return nil }))
}

func TestRun_Unconfigured(t *testing.T) {
	require.Error(t, (&SaramaDriver{}).Run(context.Background(), nil))
}
