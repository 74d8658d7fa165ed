package authgrpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/google/uuid"
)

const methodValidateToken = "/eventpulse.auth.v1.ActivityInternal/ValidateToken"

// Identity is the validated caller identity returned by the auth service.
type Identity struct {
	UserID    uuid.UUID
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Client validates bearer tokens against the auth service over its internal
// gRPC surface. The call uses structpb messages, matching the server's
// contract-free service registration.
type Client struct {
	conn *grpc.ClientConn
}

func New(endpoint string) (*Client, error) {
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial auth grpc: %w", err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// ValidateToken returns the identity for a valid token, or an error carrying
// the auth service's gRPC status for anything else.
func (c *Client) ValidateToken(ctx context.Context, token string) (Identity, error) {
	req, err := structpb.NewStruct(map[string]any{"token": token})
	if err != nil {
		return Identity{}, fmt.Errorf("build request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, methodValidateToken, req, resp); err != nil {
		if st, ok := status.FromError(err); ok {
			return Identity{}, fmt.Errorf("validate token: %s", st.Message())
		}
		return Identity{}, fmt.Errorf("validate token: %w", err)
	}

	fields := resp.GetFields()
	userID, err := uuid.Parse(fields["user_id"].GetStringValue())
	if err != nil {
		return Identity{}, fmt.Errorf("parse user_id: %w", err)
	}

	return Identity{
		UserID:    userID,
		Username:  fields["username"].GetStringValue(),
		Role:      fields["role"].GetStringValue(),
		ExpiresAt: time.Unix(int64(fields["expires_at"].GetNumberValue()), 0).UTC(),
	}, nil
}
