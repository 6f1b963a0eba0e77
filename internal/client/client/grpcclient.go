package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/talentscout/internal/common"
	pb "github.com/dmitrijs2005/talentscout/internal/proto"
)

// DefaultCallTimeout bounds one call; a turn includes completion and
// verifier round trips on the server.
const DefaultCallTimeout = 2 * time.Minute

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.InterviewClient
	timeout     time.Duration

	mu           sync.RWMutex
	sessionID    string
	sessionToken string
}

func withSessionToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.SessionTokenHeaderName)
	md.Set(common.SessionTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sessionTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	s.mu.RLock()
	token := s.sessionToken
	s.mu.RUnlock()

	if token != "" {
		ctx = withSessionToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewInterviewClient prepares a connection to endpointURL. Extra dial
// options are appended to the defaults.
func NewInterviewClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: DefaultCallTimeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.sessionTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewInterviewClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Start opens a new session and returns the greeting.
func (s *GRPCClient) Start(ctx context.Context) (*pb.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	in, err := pb.Encode(pb.StartSessionRequest{})
	if err != nil {
		return nil, err
	}

	raw, err := s.client.StartSession(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp pb.StartSessionResponse
	if err := pb.Decode(raw, &resp); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessionID = resp.SessionID
	s.sessionToken = resp.SessionToken
	s.mu.Unlock()

	return &resp.Reply, nil
}

// Send delivers one utterance and returns the assistant's reply.
func (s *GRPCClient) Send(ctx context.Context, text string) (*pb.Reply, error) {
	if s.SessionID() == "" {
		return nil, ErrNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	in, err := pb.Encode(pb.SendMessageRequest{Text: text})
	if err != nil {
		return nil, err
	}

	raw, err := s.client.SendMessage(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp pb.SendMessageResponse
	if err := pb.Decode(raw, &resp); err != nil {
		return nil, err
	}
	return &resp.Reply, nil
}

func (s *GRPCClient) Transcript(ctx context.Context) (*pb.GetTranscriptResponse, error) {
	if s.SessionID() == "" {
		return nil, ErrNoSession
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	in, err := pb.Encode(pb.GetTranscriptRequest{})
	if err != nil {
		return nil, err
	}

	raw, err := s.client.GetTranscript(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var resp pb.GetTranscriptResponse
	if err := pb.Decode(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return ErrNoSession
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
