package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"pointsdraw/internal/services"
)

type TransferJob struct {
	serviceTransfer *services.ServiceTransfer
	serviceConfig   *services.ServiceConfig
}

func NewTransferJob(serviceTransfer *services.ServiceTransfer, serviceConfig *services.ServiceConfig) *TransferJob {
	return &TransferJob{serviceTransfer, serviceConfig}
}

func (j *TransferJob) Start(cronRunner *cron.Cron) error {
	timeline, err := j.serviceConfig.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_TRANSFER, services.CRONJOB_TIME_TRANSFER)
	if err != nil {
		return err
	}

	_, err = cronRunner.AddFunc(timeline, j.run)
	if err != nil {
		return err
	}

	slog.Info("transfer cronjob scheduled", "cron", timeline)
	return nil
}

func (j *TransferJob) run() {
	ctx := context.Background()
	sent, err := j.serviceTransfer.DispatchPending(ctx)
	if errors.Is(err, services.ErrTransferDispatchLock) {
		slog.Info("transfer dispatch already running")
		return
	}
	if err != nil {
		slog.Error("transfer dispatch failed", "sent", sent, "error", err)
		return
	}
	if sent > 0 {
		slog.Info("transfers dispatched", "sent", sent)
	}
}

// RandomnessJob keeps a buffer of outcomes so claims rarely wait on the
// oracle. A zero buffer disables it.
type RandomnessJob struct {
	serviceRandomness *services.ServiceRandomness
	serviceConfig     *services.ServiceConfig
}

func NewRandomnessJob(serviceRandomness *services.ServiceRandomness, serviceConfig *services.ServiceConfig) *RandomnessJob {
	return &RandomnessJob{serviceRandomness, serviceConfig}
}

func (j *RandomnessJob) Start(cronRunner *cron.Cron) error {
	timeline, err := j.serviceConfig.GetStringConfig(context.Background(), services.CONFIG_CRONJOB_TIME_RANDOMNESS, services.CRONJOB_TIME_RANDOMNESS)
	if err != nil {
		return err
	}

	_, err = cronRunner.AddFunc(timeline, j.run)
	if err != nil {
		return err
	}

	slog.Info("randomness cronjob scheduled", "cron", timeline)
	return nil
}

func (j *RandomnessJob) run() {
	ctx := context.Background()
	target, err := j.serviceConfig.GetIntConfig(ctx, services.CONFIG_RANDOMNESS_BUFFER, 0)
	if err != nil {
		slog.Error("randomness buffer config", "error", err)
		return
	}
	if target <= 0 {
		return
	}

	requested, err := j.serviceRandomness.TopUp(ctx, target)
	if err != nil {
		slog.Error("randomness top up failed", "requested", requested, "error", err)
		return
	}
	if requested > 0 {
		slog.Info("randomness requested", "requested", requested)
	}
}
