package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pulseops/eventpulse/internal/event/domain"
	"github.com/pulseops/eventpulse/internal/event/ports"
)

const (
	methodGetPoints            = "/eventpulse.auth.v1.ActivityInternal/GetPoints"
	methodGetConsecutiveLogins = "/eventpulse.auth.v1.ActivityInternal/GetConsecutiveLogins"
	methodGetInvitedFriends    = "/eventpulse.auth.v1.ActivityInternal/GetInvitedFriendsCount"
)

// GRPCActivityStore reads user activity metrics from the auth service over its
// internal gRPC surface. The wire shape is structpb structs against a manual
// service descriptor, so no generated contract package is required.
type GRPCActivityStore struct {
	conn *grpc.ClientConn
}

func NewGRPCActivityStore(endpoint string) (*GRPCActivityStore, error) {
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial auth grpc: %w", err)
	}
	return &GRPCActivityStore{conn: conn}, nil
}

func (s *GRPCActivityStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *GRPCActivityStore) GetPoints(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.fetchMetric(ctx, methodGetPoints, userID)
}

func (s *GRPCActivityStore) GetConsecutiveLogins(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.fetchMetric(ctx, methodGetConsecutiveLogins, userID)
}

func (s *GRPCActivityStore) GetInvitedFriendsCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.fetchMetric(ctx, methodGetInvitedFriends, userID)
}

func (s *GRPCActivityStore) fetchMetric(ctx context.Context, method string, userID uuid.UUID) (int64, error) {
	req, err := structpb.NewStruct(map[string]any{
		"user_id": userID.String(),
	})
	if err != nil {
		return 0, err
	}
	resp := &structpb.Struct{}
	if err := s.conn.Invoke(ctx, method, req, resp); err != nil {
		return 0, mapRPCError(method, err)
	}
	value := resp.GetFields()["value"]
	if value == nil {
		return 0, fmt.Errorf("%w: %s returned no value", domain.ErrActivityUnavailable, method)
	}
	return int64(value.GetNumberValue()), nil
}

// mapRPCError keeps the unavailable/not-found distinction intact: a user that
// does not resolve is NotFound, everything transport-shaped is Unavailable.
// The evaluator must never read a transport failure as "condition not met".
func mapRPCError(method string, err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrActivityUnavailable, method, err)
	}
}

var _ ports.UserActivityStore = (*GRPCActivityStore)(nil)
