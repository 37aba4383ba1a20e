package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	installmentCacheKeyPrefix = "installments:loan:"
	overdueCacheKeyPrefix     = "overdue:loan:"
)

func installmentCacheKey(loanID uuid.UUID) string {
	return installmentCacheKeyPrefix + loanID.String()
}

func overdueCacheKey(loanID uuid.UUID) string {
	return overdueCacheKeyPrefix + loanID.String()
}

// invalidateInstallmentCache drops the cached installment list for the given
// loans after a committed mutation. Cache failures are logged, never surfaced:
// the database already holds the truth.
func invalidateInstallmentCache(ctx context.Context, client *redis.Client, loanIDs ...uuid.UUID) {
	if client == nil || len(loanIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(loanIDs))
	for _, loanID := range loanIDs {
		keys = append(keys, installmentCacheKey(loanID))
	}

	if err := client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache invalidation failed for %d loan(s): %v", len(loanIDs), err)
	}
}
