package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	conversionv1 "chartbridge/api/conversion/v1"
	"chartbridge/convert"
	"chartbridge/internal/logging"
)

// Converter is the part of convert.Converter the service needs.
type Converter interface {
	DSLToWorkflow(ctx context.Context, dsl convert.Document) (convert.Document, error)
	Convert(ctx context.Context, req convert.VegaRequest) (convert.Document, error)
}

type Server struct {
	grpc   *grpc.Server
	lis    net.Listener
	health *health.Server
}

func StartServer(port int, conv Converter) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return NewServer(lis, conv), nil
}

// NewServer registers the conversion and health services on lis. The
// conversion service reports NOT_SERVING until SetServing(true).
func NewServer(lis net.Listener, conv Converter) *Server {
	s := &Server{
		grpc:   grpc.NewServer(grpc.UnaryInterceptor(logCalls)),
		lis:    lis,
		health: health.NewServer(),
	}
	conversionv1.RegisterConversionServer(s.grpc, &conversionService{conv: conv})
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.SetServing(false)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(conversionv1.Conversion_ServiceName, st)
}

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func logCalls(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	logging.L().Debug("grpc call", "method", info.FullMethod, "code", status.Code(err).String(), "elapsed", time.Since(start))
	return resp, err
}

// ----- conversion service --------------------------------------------------

type conversionService struct {
	conversionv1.UnimplementedConversionServer
	conv Converter
}

func (c *conversionService) DslToWorkflow(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	out, err := c.conv.DSLToWorkflow(ctx, conversionv1.DecodeDocument(in))
	if err != nil {
		return nil, ToStatus(err)
	}
	return encodeReply(out)
}

func (c *conversionService) VegaToDsl(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req convert.VegaRequest
	buf, err := json.Marshal(conversionv1.DecodeDocument(in))
	if err == nil {
		err = json.Unmarshal(buf, &req)
	}
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "vega request: %v", err)
	}
	out, err := c.conv.Convert(ctx, req)
	if err != nil {
		return nil, ToStatus(err)
	}
	return encodeReply(out)
}

func encodeReply(doc convert.Document) (*structpb.Struct, error) {
	s, err := conversionv1.EncodeDocument(doc)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return s, nil
}
