// Package grpc implements the gRPC transport for teacherbot.
//
// The service is teacherbot.v1.TeacherBot with a single unary Answer method.
// Messages are the JSON forms of message.Query and message.Response carried
// by a JSON codec, so clients dial with grpc.CallContentSubtype("json") and
// no generated stubs are needed.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/teacherbot/internal/message"
	"github.com/nadzzz/teacherbot/internal/transport"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "teacherbot.v1.TeacherBot"

	answerMethod = "/" + ServiceName + "/Answer"
)

// TeacherBotServer is the server API for the TeacherBot service.
type TeacherBotServer interface {
	Answer(ctx context.Context, req *message.Query) (*message.Response, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TeacherBotServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Answer", Handler: answerHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "teacherbot/v1/teacherbot.proto",
}

func answerHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.Query)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TeacherBotServer).Answer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: answerMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TeacherBotServer).Answer(ctx, req.(*message.Query))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterTeacherBotServer registers srv on s.
func RegisterTeacherBotServer(s grpc.ServiceRegistrar, srv TeacherBotServer) {
	s.RegisterService(&serviceDesc, srv)
}

// service adapts an Answerer to TeacherBotServer.
type service struct {
	answerer transport.Answerer
}

func (s *service) Answer(ctx context.Context, req *message.Query) (*message.Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, status.Error(codes.InvalidArgument, "text must not be empty")
	}
	resp := s.answerer.Ask(ctx, *req)
	return &resp, nil
}

// Client calls the TeacherBot service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Answer asks one question.
func (c *Client) Answer(ctx context.Context, req *message.Query, opts ...grpc.CallOption) (*message.Response, error) {
	out := new(message.Response)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, answerMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port int

	mu     sync.Mutex // guards server and closed
	server *grpc.Server
	closed bool
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the answerer.
func (t *Transport) Listen(ctx context.Context, answerer transport.Answerer) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return nil
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, answerer)
}

// Serve serves on an existing listener until ctx is cancelled. If the
// transport was already closed, lis is closed and Serve returns nil.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, answerer transport.Answerer) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return lis.Close()
	}
	server := grpc.NewServer()
	RegisterTeacherBotServer(server, &service{answerer: answerer})
	t.server = server
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		server.GracefulStop()
	}()

	if err := server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Close gracefully stops the gRPC server. It is safe to call from any
// goroutine, before or after Listen.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	server := t.server
	t.mu.Unlock()

	if server != nil {
		server.GracefulStop()
	}
	return nil
}
