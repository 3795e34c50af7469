package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
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

var ErrTransferDispatchLock = errors.New("transfer dispatch locked")

const (
	TRANSFER_DISPATCH_LOCK_EXPIRY = 5 * time.Minute
	// Claims older than this are released back to pending.
	TRANSFER_DISPATCH_LEASE       = 15 * time.Minute
)

func LockKeyTransferDispatch() string {
	return "lock:transfer-dispatch"
}

type ServiceTransfer struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	custody            interfaces.PrizeCustody
	announcer          interfaces.Announcer
	serviceConfig      *ServiceConfig
}

func NewServiceTransfer(container *do.Injector) (*ServiceTransfer, error) {
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

	custody, err := do.Invoke[interfaces.PrizeCustody](container)
	if err != nil {
		return nil, err
	}

	announcer, err := do.Invoke[interfaces.Announcer](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceTransfer{container, postgresDB, readonlyPostgresDB, redisDB, rs, custody, announcer, serviceConfig}, nil
}

// DispatchPending hands pending transfers to the custody service and returns
// how many went through. Each transfer is claimed before the custody call,
// so a run that outlives its lock cannot send a transfer another run holds.
// A failed transfer goes back to pending until it runs out of attempts.
func (service *ServiceTransfer) DispatchPending(ctx context.Context) (int, error) {
	mutex := service.rs.NewMutex(LockKeyTransferDispatch(), redsync.WithExpiry(TRANSFER_DISPATCH_LOCK_EXPIRY))
	if err := mutex.TryLockContext(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransferDispatchLock, err)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	batchSize, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_TRANSFER_BATCH_SIZE, TRANSFER_BATCH_SIZE)
	if err != nil || batchSize <= 0 {
		batchSize = TRANSFER_BATCH_SIZE
	}
	maxAttempts, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_TRANSFER_MAX_ATTEMPTS, TRANSFER_MAX_ATTEMPTS)
	if err != nil || maxAttempts <= 0 {
		maxAttempts = TRANSFER_MAX_ATTEMPTS
	}

	released, err := datastore.ReleaseStaleTransfers(ctx, service.postgresDB, time.Now().UTC().Add(-TRANSFER_DISPATCH_LEASE))
	if err != nil {
		return 0, err
	}
	if released > 0 {
		slog.WarnContext(ctx, "stale transfer claims released", "count", released)
	}

	transfers, err := datastore.GetPendingTransfers(ctx, service.postgresDB, batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range transfers {
		if ok, err := mutex.ExtendContext(ctx); err != nil || !ok {
			return sent, fmt.Errorf("%w: lost lock: %v", ErrTransferDispatchLock, err)
		}

		transfer := &transfers[i]
		claimed, err := datastore.ClaimTransfer(ctx, service.postgresDB, transfer.ID, time.Now().UTC())
		if err != nil {
			return sent, err
		}
		if !claimed {
			continue
		}

		if err := service.dispatch(ctx, transfer, maxAttempts); err != nil {
			return sent, err
		}
		if transfer.Status == models.TransferStatusSent {
			sent++
		}
	}

	return sent, nil
}

// dispatch only returns storage errors. Custody failures are recorded on the
// transfer.
func (service *ServiceTransfer) dispatch(ctx context.Context, transfer *models.PrizeTransfer, maxAttempts int) error {
	cause := service.custody.Transfer(ctx, transfer)
	if cause != nil {
		metrics.TransfersTotal.WithLabelValues("failed").Inc()
		slog.WarnContext(ctx, "prize transfer failed", "transfer_id", transfer.ID, "attempt", transfer.Attempts+1, "error", cause)
		return datastore.MarkTransferAttemptFailed(ctx, service.postgresDB, transfer, cause, maxAttempts)
	}

	now := time.Now().UTC()
	if err := datastore.MarkTransferSent(ctx, service.postgresDB, transfer.ID, now); err != nil {
		return err
	}
	transfer.Status = models.TransferStatusSent
	transfer.SentAt = &now
	transfer.Attempts++
	metrics.TransfersTotal.WithLabelValues("sent").Inc()
	slog.InfoContext(ctx, "prize transfer sent", "transfer_id", transfer.ID, "recipient", transfer.Recipient, "item_id", transfer.ItemID)

	service.announce(ctx, transfer)
	return nil
}

func (service *ServiceTransfer) announce(ctx context.Context, transfer *models.PrizeTransfer) {
	first, err := redis_store.MarkTransferAnnounced(ctx, service.redisDB, transfer.ID)
	if err != nil {
		slog.WarnContext(ctx, "announce transfer", "transfer_id", transfer.ID, "error", err)
		return
	}
	if !first {
		return
	}

	if err := service.announcer.AnnounceTransfer(ctx, transfer); err != nil {
		slog.WarnContext(ctx, "announce transfer", "transfer_id", transfer.ID, "error", err)
	}
}

func (service *ServiceTransfer) GetTransfers(ctx context.Context, recipient string) ([]models.PrizeTransfer, error) {
	normalized, err := address.Normalize(recipient)
	if err != nil {
		return nil, err
	}
	return datastore.GetTransfersByRecipient(ctx, service.readonlyPostgresDB, normalized)
}
