package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chartbridge/convert"
	"chartbridge/frame"
	"chartbridge/internal/logging"
	"chartbridge/internal/telemetry"
	"chartbridge/jsrt"
	"chartbridge/sink"
	"chartbridge/source/kafka"
)

type Converter interface {
	DSLToWorkflow(ctx context.Context, dsl convert.Document) (convert.Document, error)
	Convert(ctx context.Context, req convert.VegaRequest) (convert.Document, error)
}

// Runner reads conversion requests from a source, runs them and pushes one
// reply per request to every sink.
type Runner struct {
	source  kafka.Adapter
	conv    Converter
	sinks   []sink.Adapter
	timeout time.Duration
}

func NewRunner(conv Converter) *Runner { return &Runner{conv: conv} }

func (r *Runner) AddSink(s sink.Adapter)     { r.sinks = append(r.sinks, s) }
func (r *Runner) SetSource(s kafka.Adapter)  { r.source = s }
func (r *Runner) SetTimeout(d time.Duration) { r.timeout = d }
func (r *Runner) Sinks() []sink.Adapter      { return r.sinks }

// Run blocks until ctx is done or a frame fails in a way that retrying the
// next frame cannot fix (runtime missing, program files unreadable, sink
// failure). The failing frame is not committed.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	if len(r.sinks) == 0 {
		return errors.New("runner: no sinks configured")
	}
	return r.source.Run(ctx, r.handle)
}

func (r *Runner) Close() error {
	var errs []error
	if r.source != nil {
		errs = append(errs, r.source.Close())
	}
	for _, s := range r.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

func (r *Runner) handle(ctx context.Context, f *frame.Frame) error {
	reply, err := r.process(ctx, f)
	if err != nil {
		telemetry.WorkerFrames.WithLabelValues("fatal").Inc()
		return err
	}
	body, err := json.Marshal(reply)
	if err != nil {
		telemetry.WorkerFrames.WithLabelValues("fatal").Inc()
		return fmt.Errorf("runner: encode reply: %w", err)
	}
	out := f.Reply(body)
	for _, s := range r.sinks {
		if err := s.Push(out); err != nil {
			telemetry.WorkerFrames.WithLabelValues("fatal").Inc()
			return err
		}
	}
	switch {
	case reply.Error == nil:
		telemetry.WorkerFrames.WithLabelValues("ok").Inc()
	case reply.Error.Kind == KindRequest:
		telemetry.WorkerFrames.WithLabelValues("invalid").Inc()
	default:
		telemetry.WorkerFrames.WithLabelValues("error").Inc()
	}
	return nil
}

// process returns a reply for every per-request failure and an error only
// for failures that would repeat on every later frame.
func (r *Runner) process(ctx context.Context, f *frame.Frame) (Reply, error) {
	req, err := DecodeRequest(f.Value)
	if err != nil {
		logging.L().Warn("runner: bad request", "topic", f.Topic, "partition", f.Partition, "offset", f.Offset, "err", err)
		return Reply{Op: req.Op, Error: &ReplyError{Kind: KindRequest, Message: err.Error()}}, nil
	}

	cctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var out convert.Document
	switch req.Op {
	case convert.OpDSLToWorkflow:
		out, err = r.conv.DSLToWorkflow(cctx, req.DSL)
	case convert.OpVegaToDSL:
		out, err = r.conv.Convert(cctx, convert.VegaRequest{VL: req.VL, AllFields: req.Fields, VisID: req.VisID, Name: req.Name})
	}
	if err == nil {
		return Reply{Op: req.Op, Result: out}, nil
	}

	// The worker is stopping: leave the frame unanswered so its offset is
	// not committed and it is redelivered.
	if ctx.Err() != nil {
		return Reply{}, fmt.Errorf("runner: %s interrupted: %w", req.Op, context.Cause(ctx))
	}
	if errors.Is(err, jsrt.ErrRuntimeUnavailable) || errors.Is(err, jsrt.ErrFileAccess) {
		return Reply{}, fmt.Errorf("runner: %s: %w", req.Op, err)
	}
	logging.L().Info("runner: conversion failed", "op", req.Op, "offset", f.Offset, "kind", jsrt.Kind(err), "err", err)
	return errorReply(req.Op, err), nil
}
