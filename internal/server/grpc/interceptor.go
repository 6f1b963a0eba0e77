package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/talentscout/internal/common"
	pb "github.com/dmitrijs2005/talentscout/internal/proto"
	"github.com/dmitrijs2005/talentscout/internal/server/auth"
)

type ctxKey string

const SessionIDKey ctxKey = "sessionID"

// methods that act on an existing session
var sessionMethods = map[string]bool{
	pb.Interview_SendMessage_FullMethodName:   true,
	pb.Interview_GetTranscript_FullMethodName: true,
}

func (s *GRPCServer) sessionTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if sessionMethods[info.FullMethod] {

		var token string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.SessionTokenHeaderName)
			if len(values) > 0 {
				token = values[0]
			}
		}
		if len(token) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		sessionID, err := auth.GetSessionIDFromToken(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
			}
			return nil, status.Error(codes.Unauthenticated, common.ErrorInvalidToken.Error())
		}

		ctx = context.WithValue(ctx, SessionIDKey, sessionID)

	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}
