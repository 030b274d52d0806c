package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

// ConfirmationService issues one-time delete tokens. A record is deleted only
// when the caller presents a token issued for that exact record.
type ConfirmationService struct {
	Redis *redis.Client
	TTL   time.Duration
}

func confirmationKey(scope string, id int, token string) string {
	return fmt.Sprintf("confirm:delete:%s:%d:%s", scope, id, token)
}

func (s *ConfirmationService) Issue(ctx context.Context, scope string, id int) (string, error) {
	token := uuid.NewString()
	if err := s.Redis.Set(ctx, confirmationKey(scope, id, token), "1", s.TTL).Err(); err != nil {
		return "", fmt.Errorf("store confirmation token: %w", err)
	}
	return token, nil
}

// Consume redeems token. Unknown, expired or already used tokens return
// models.ErrConfirmationRequired.
func (s *ConfirmationService) Consume(ctx context.Context, scope string, id int, token string) error {
	if token == "" {
		return models.ErrConfirmationRequired
	}
	n, err := s.Redis.Del(ctx, confirmationKey(scope, id, token)).Result()
	if err != nil {
		return fmt.Errorf("consume confirmation token: %w", err)
	}
	if n == 0 {
		return models.ErrConfirmationRequired
	}
	return nil
}

// Decline discards token. Declining twice is not an error.
func (s *ConfirmationService) Decline(ctx context.Context, scope string, id int, token string) error {
	if token == "" {
		return nil
	}
	return s.Redis.Del(ctx, confirmationKey(scope, id, token)).Err()
}
