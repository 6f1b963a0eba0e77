// Package proto describes the talentscout.interview.v1.Interview gRPC
// service. Messages travel as google.protobuf.Struct values whose fields
// follow the JSON shape of the message types below.
package proto

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "talentscout.interview.v1.Interview"

const (
	Interview_StartSession_FullMethodName  = "/" + ServiceName + "/StartSession"
	Interview_SendMessage_FullMethodName   = "/" + ServiceName + "/SendMessage"
	Interview_GetTranscript_FullMethodName = "/" + ServiceName + "/GetTranscript"
)

// Reply is one assistant turn.
type Reply struct {
	Text     string `json:"text"`
	State    string `json:"state"`
	Finished bool   `json:"finished"`
}

type StartSessionRequest struct{}

type StartSessionResponse struct {
	SessionID    string `json:"session_id"`
	SessionToken string `json:"session_token"`
	Reply        Reply  `json:"reply"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type SendMessageResponse struct {
	Reply Reply `json:"reply"`
}

type GetTranscriptRequest struct{}

type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type GetTranscriptResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Finished  bool   `json:"finished"`
	Turns     []Turn `json:"turns"`
}

// Encode converts a message to its wire form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

// Decode fills v from its wire form. A nil struct leaves v untouched.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

// InterviewServer is the server API for the Interview service.
type InterviewServer interface {
	StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTranscript(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterInterviewServer(s grpc.ServiceRegistrar, srv InterviewServer) {
	s.RegisterService(&Interview_ServiceDesc, srv)
}

func unaryHandler(fullMethod string, call func(InterviewServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InterviewServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(InterviewServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var Interview_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InterviewServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartSession",
			Handler:    unaryHandler(Interview_StartSession_FullMethodName, InterviewServer.StartSession),
		},
		{
			MethodName: "SendMessage",
			Handler:    unaryHandler(Interview_SendMessage_FullMethodName, InterviewServer.SendMessage),
		},
		{
			MethodName: "GetTranscript",
			Handler:    unaryHandler(Interview_GetTranscript_FullMethodName, InterviewServer.GetTranscript),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "talentscout/interview/v1/interview.proto",
}

// InterviewClient is the client API for the Interview service.
type InterviewClient interface {
	StartSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SendMessage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTranscript(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type interviewClient struct {
	cc grpc.ClientConnInterface
}

func NewInterviewClient(cc grpc.ClientConnInterface) InterviewClient {
	return &interviewClient{cc}
}

func (c *interviewClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *interviewClient) StartSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, Interview_StartSession_FullMethodName, in, opts...)
}

func (c *interviewClient) SendMessage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, Interview_SendMessage_FullMethodName, in, opts...)
}

func (c *interviewClient) GetTranscript(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, Interview_GetTranscript_FullMethodName, in, opts...)
}
