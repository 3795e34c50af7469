package services

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"pointsdraw/internal/datastore"
	"pointsdraw/internal/datastore/redis_store"
	"pointsdraw/internal/interfaces"
	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/address"
	"pointsdraw/internal/pkg/metrics"
)

const requestedBySystem = "system"

type ServiceRandomness struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	oracle             interfaces.RandomnessOracle
}

func NewServiceRandomness(container *do.Injector) (*ServiceRandomness, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	oracle, err := do.Invoke[interfaces.RandomnessOracle](container)
	if err != nil {
		return nil, err
	}

	return &ServiceRandomness{container, postgresDB, readonlyPostgresDB, redisDB, rs, oracle}, nil
}

// ReceiveRandomness stores the oracle's value for jobID. Only the configured
// oracle may deliver, and a job id is accepted once.
func (service *ServiceRandomness) ReceiveRandomness(ctx context.Context, sender string, jobID string, randomness string) (err error) {
	defer func() {
		metrics.RandomnessCallbacksTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	err = withLedger(ctx, service.rs, service.postgresDB, func(ctx context.Context, tx bun.Tx) error {
		state, err := datastore.GetLedgerState(ctx, tx)
		if err != nil {
			return err
		}
		if !address.Equal(sender, state.OracleAddress) {
			return models.ErrUnauthorizedOracleCallback
		}

		value, err := models.DecodeRandomness(strings.TrimSpace(randomness))
		if err != nil {
			return err
		}

		if strings.TrimSpace(jobID) == "" {
			return models.ErrInvalidJobID
		}

		inserted, err := datastore.InsertRandomnessOutcome(ctx, tx, &models.RandomnessOutcome{
			JobID:      jobID,
			Randomness: hex.EncodeToString(value[:]),
			ReceivedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if !inserted {
			return models.ErrJobIDAlreadyPresent
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "randomness rejected", "job_id", jobID, "sender", sender, "error", err)
		return err
	}

	if err := redis_store.ClearRandomnessRequest(ctx, service.redisDB, jobID); err != nil {
		slog.WarnContext(ctx, "clear randomness request failed", "job_id", jobID, "error", err)
	}

	slog.InfoContext(ctx, "randomness received", "job_id", jobID)
	return nil
}

// RequestRandomness asks the oracle for a fresh outcome on behalf of the
// admin.
func (service *ServiceRandomness) RequestRandomness(ctx context.Context, caller string) (*models.RandomnessRequest, error) {
	state, err := datastore.GetLedgerState(ctx, service.postgresDB)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(state, caller); err != nil {
		return nil, err
	}

	normalized, err := address.Normalize(caller)
	if err != nil {
		return nil, err
	}
	return service.request(ctx, normalized)
}

func (service *ServiceRandomness) request(ctx context.Context, requestedBy string) (*models.RandomnessRequest, error) {
	request := &models.RandomnessRequest{
		JobID:       JOB_ID_PREFIX + uuid.NewString(),
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC(),
	}

	saved, err := redis_store.SaveRandomnessRequest(ctx, service.redisDB, request)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, models.ErrJobIDAlreadyPresent
	}

	if err := service.oracle.RequestRandomness(ctx, request.JobID); err != nil {
		//nolint:errcheck
		redis_store.ClearRandomnessRequest(ctx, service.redisDB, request.JobID)
		return nil, err
	}

	metrics.RandomnessRequestsTotal.Inc()
	slog.InfoContext(ctx, "randomness requested", "job_id", request.JobID, "requested_by", requestedBy)
	return request, nil
}

func (service *ServiceRandomness) GetPendingRequests(ctx context.Context) ([]*models.RandomnessRequest, error) {
	return redis_store.GetPendingRandomnessRequests(ctx, service.redisDB)
}

// TopUp requests enough randomness that available and in-flight outcomes
// together reach target. It returns the number of new requests.
func (service *ServiceRandomness) TopUp(ctx context.Context, target int) (int, error) {
	available, err := datastore.CountOutcomes(ctx, service.postgresDB, false)
	if err != nil {
		return 0, err
	}

	pending, err := redis_store.GetPendingRandomnessRequests(ctx, service.redisDB)
	if err != nil {
		return 0, err
	}

	requested := 0
	for missing := target - available - len(pending); missing > 0; missing-- {
		if _, err := service.request(ctx, requestedBySystem); err != nil {
			return requested, err
		}
		requested++
	}

	return requested, nil
}

// CountAvailable is the number of outcomes that claims can still consume.
func (service *ServiceRandomness) CountAvailable(ctx context.Context) (int, error) {
	return datastore.CountOutcomes(ctx, service.readonlyPostgresDB, false)
}
