package transform

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	conversionv1 "chartbridge/api/conversion/v1"
	"chartbridge/convert"
	"chartbridge/internal/transport"
	"chartbridge/jsrt"
)

// GRPCClient is a convert.Engine backed by a remote Conversion service.
type GRPCClient struct {
	conn   *grpc.ClientConn
	svc    conversionv1.ConversionClient
	health healthpb.HealthClient
}

var _ convert.Engine = (*GRPCClient)(nil)

// NewGRPCClient does not block; connection problems surface on the first
// call as transport.ErrUnreachable.
func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	conn, err := transport.Dial(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("transform: grpc target %q: %w", target, err)
	}
	return &GRPCClient{
		conn:   conn,
		svc:    conversionv1.NewConversionClient(conn),
		health: healthpb.NewHealthClient(conn),
	}, nil
}

func (c *GRPCClient) DSLToWorkflow(ctx context.Context, dsl convert.Document) (convert.Document, error) {
	if dsl == nil {
		dsl = convert.Document{}
	}
	in, err := conversionv1.EncodeDocument(dsl)
	if err != nil {
		return nil, &jsrt.MarshalError{Op: "encode", Err: err}
	}
	out, err := c.svc.DslToWorkflow(ctx, in)
	if err != nil {
		return nil, transport.FromStatus(err)
	}
	return conversionv1.DecodeDocument(out), nil
}

func (c *GRPCClient) VegaToDSL(ctx context.Context, req convert.VegaRequest) (convert.Document, error) {
	if req.AllFields == nil {
		req.AllFields = []convert.Document{}
	}
	in, err := conversionv1.EncodeDocument(req)
	if err != nil {
		return nil, &jsrt.MarshalError{Op: "encode", Err: err}
	}
	out, err := c.svc.VegaToDsl(ctx, in)
	if err != nil {
		return nil, transport.FromStatus(err)
	}
	return conversionv1.DecodeDocument(out), nil
}

// Health reports whether the remote runtime has loaded its programs.
func (c *GRPCClient) Health(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: conversionv1.Conversion_ServiceName})
	if err != nil {
		return transport.FromStatus(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return &transport.RemoteError{Kind: "runtime_unavailable", Msg: fmt.Sprintf("transform: remote conversion service is %s", resp.GetStatus())}
	}
	return nil
}

func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
