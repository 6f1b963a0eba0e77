package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/engine"
	pb "github.com/dmitrijs2005/talentscout/internal/proto"
	"github.com/dmitrijs2005/talentscout/internal/server/auth"
)

func (s *GRPCServer) StartSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	e, err := s.sessions.Create(ctx)
	if err != nil {
		s.logger.Error(ctx, "session create failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	token, err := auth.GenerateToken(e.ID(), s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	r, err := e.Start(ctx)
	if err != nil {
		s.logger.Error(ctx, "session start failed", "session_id", e.ID(), "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return s.encode(ctx, pb.StartSessionResponse{
		SessionID:    e.ID(),
		SessionToken: token,
		Reply:        toReply(r),
	})
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	e, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var in pb.SendMessageRequest
	if err := pb.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed request")
	}

	r := e.Process(ctx, in.Text)
	return s.encode(ctx, pb.SendMessageResponse{Reply: toReply(r)})
}

func (s *GRPCServer) GetTranscript(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	e, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	turns := e.Transcript()
	out := pb.GetTranscriptResponse{
		SessionID: e.ID(),
		State:     string(e.State()),
		Finished:  e.Finished(),
		Turns:     make([]pb.Turn, 0, len(turns)),
	}
	for _, t := range turns {
		out.Turns = append(out.Turns, pb.Turn{Role: t.Role, Text: t.Text})
	}

	return s.encode(ctx, out)
}

// session resolves the engine for the id the interceptor put in ctx.
func (s *GRPCServer) session(ctx context.Context) (*engine.Engine, error) {
	id, ok := ctx.Value(SessionIDKey).(string)
	if !ok || id == "" {
		return nil, status.Error(codes.Internal, "session id missing in context")
	}

	e, err := s.sessions.Get(id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.NotFound, "session not found")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}
	return e, nil
}

func (s *GRPCServer) encode(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		s.logger.Error(ctx, "response encoding failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func toReply(r engine.Reply) pb.Reply {
	return pb.Reply{Text: r.Text, State: string(r.State), Finished: r.Finished}
}
