package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/google/uuid"

	"github.com/pulseops/eventpulse/internal/auth/application"
	"github.com/pulseops/eventpulse/internal/auth/domain"
)

const serviceName = "eventpulse.auth.v1.ActivityInternal"

// ActivityInternalService is the internal contract consumed by the event
// service (metric lookups) and the gateway (token validation).
type ActivityInternalService interface {
	GetPoints(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetConsecutiveLogins(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInvitedFriendsCount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValidateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type ActivityInternalServer struct {
	service *application.Service
}

func NewActivityInternalServer(service *application.Service) *ActivityInternalServer {
	return &ActivityInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc ActivityInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*ActivityInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "GetPoints", Handler: structHandler("GetPoints", ActivityInternalService.GetPoints)},
			{MethodName: "GetConsecutiveLogins", Handler: structHandler("GetConsecutiveLogins", ActivityInternalService.GetConsecutiveLogins)},
			{MethodName: "GetInvitedFriendsCount", Handler: structHandler("GetInvitedFriendsCount", ActivityInternalService.GetInvitedFriendsCount)},
			{MethodName: "ValidateToken", Handler: structHandler("ValidateToken", ActivityInternalService.ValidateToken)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "eventpulse/auth/v1/activity_internal.proto",
	}, svc)
}

func (s *ActivityInternalServer) GetPoints(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.metric(ctx, req, s.service.GetPoints)
}

func (s *ActivityInternalServer) GetConsecutiveLogins(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.metric(ctx, req, s.service.GetConsecutiveLogins)
}

func (s *ActivityInternalServer) GetInvitedFriendsCount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.metric(ctx, req, s.service.GetInvitedFriendsCount)
}

func (s *ActivityInternalServer) ValidateToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	claims, err := s.service.ValidateToken(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":      true,
		"user_id":    claims.UserID.String(),
		"username":   claims.Username,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func (s *ActivityInternalServer) metric(ctx context.Context, req *structpb.Struct, fn func(context.Context, uuid.UUID) (int64, error)) (*structpb.Struct, error) {
	raw := req.GetFields()["user_id"].GetStringValue()
	if raw == "" {
		return nil, status.Error(codes.InvalidArgument, "missing user_id")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid user_id")
	}

	value, err := fn(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "user not found")
		}
		return nil, status.Errorf(codes.Internal, "lookup metric: %v", err)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"user_id": userID.String(),
		"value":   value,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func structHandler(
	method string,
	call func(ActivityInternalService, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		svc, ok := srv.(ActivityInternalService)
		if !ok {
			return nil, status.Error(codes.Internal, "invalid service binding")
		}
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(svc, ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(svc, ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
