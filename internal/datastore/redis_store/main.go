package redis_store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"pointsdraw/internal/models"
)

const ANNOUNCED_TRANSFER_TTL = 24 * time.Hour

func dbKeyRandomnessRequest(jobID string) string {
	return fmt.Sprintf("randomness:requested:%s", jobID)
}

func dbKeyPendingRandomness() string {
	return "randomness:pending"
}

func dbKeyAnnouncedTransfer(transferID int64) string {
	return fmt.Sprintf("transfer:announced:%d", transferID)
}

// SaveRandomnessRequest marks a job as requested. It reports false when the
// job id was already marked.
func SaveRandomnessRequest(ctx context.Context, cmd redis.Cmdable, v *models.RandomnessRequest) (bool, error) {
	if v.JobID == "" {
		return false, models.ErrInvalidJobID
	}

	b, err := msgpack.Marshal(v)
	if err != nil {
		return false, err
	}

	ok, err := cmd.SetNX(ctx, dbKeyRandomnessRequest(v.JobID), b, 0).Result()
	if err != nil || !ok {
		return false, err
	}

	err = cmd.SAdd(ctx, dbKeyPendingRandomness(), v.JobID).Err()
	if err != nil {
		return false, err
	}

	return true, nil
}

func GetRandomnessRequest(ctx context.Context, cmd redis.Cmdable, jobID string) (*models.RandomnessRequest, error) {
	var v *models.RandomnessRequest
	b, err := cmd.Get(ctx, dbKeyRandomnessRequest(jobID)).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}

// ClearRandomnessRequest forgets a job once its callback arrived.
func ClearRandomnessRequest(ctx context.Context, cmd redis.Cmdable, jobID string) error {
	err := cmd.Del(ctx, dbKeyRandomnessRequest(jobID)).Err()
	if err != nil {
		return err
	}

	return cmd.SRem(ctx, dbKeyPendingRandomness(), jobID).Err()
}

// GetPendingRandomnessRequests lists outstanding requests, oldest first.
func GetPendingRandomnessRequests(ctx context.Context, cmd redis.Cmdable) ([]*models.RandomnessRequest, error) {
	jobIDs, err := cmd.SMembers(ctx, dbKeyPendingRandomness()).Result()
	if err != nil {
		return nil, err
	}

	requests := make([]*models.RandomnessRequest, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		v, err := GetRandomnessRequest(ctx, cmd, jobID)
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		requests = append(requests, v)
	}

	sort.Slice(requests, func(i, j int) bool {
		if requests[i].RequestedAt.Equal(requests[j].RequestedAt) {
			return requests[i].JobID < requests[j].JobID
		}
		return requests[i].RequestedAt.Before(requests[j].RequestedAt)
	})
	return requests, nil
}

// MarkTransferAnnounced reports true only the first time it sees a transfer.
func MarkTransferAnnounced(ctx context.Context, cmd redis.Cmdable, transferID int64) (bool, error) {
	return cmd.SetNX(ctx, dbKeyAnnouncedTransfer(transferID), true, ANNOUNCED_TRANSFER_TTL).Result()
}
