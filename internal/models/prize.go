package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Prize is one asset held in custody and waiting to be won.
type Prize struct {
	bun.BaseModel `bun:"table:prize_pool"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Custodian     string    `bun:"custodian,notnull" json:"custodian"`
	ItemID        string    `bun:"item_id,notnull" json:"item_id"`
	DepositedAt   time.Time `bun:"deposited_at,notnull,default:current_timestamp" json:"deposited_at"`
}

type TransferStatus string

const (
	TransferStatusPending     TransferStatus = "pending"
	TransferStatusDispatching TransferStatus = "dispatching"
	TransferStatusSent        TransferStatus = "sent"
	TransferStatusFailed      TransferStatus = "failed"
)

// PrizeTransfer is the instruction to hand a won prize to its recipient.
type PrizeTransfer struct {
	bun.BaseModel `bun:"table:prize_transfer"`
	ID            int64          `bun:"id,pk,autoincrement" json:"id"`
	Recipient     string         `bun:"recipient,notnull" json:"recipient"`
	Custodian     string         `bun:"custodian,notnull" json:"custodian"`
	ItemID        string         `bun:"item_id,notnull" json:"item_id"`
	JobID         string         `bun:"job_id,notnull" json:"job_id"`
	Status        TransferStatus `bun:"status,notnull" json:"status"`
	Attempts      int            `bun:"attempts,notnull,default:0" json:"attempts"`
	LastError     string         `bun:"last_error" json:"last_error,omitempty"`
	CreatedAt     time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	DispatchedAt  *time.Time     `bun:"dispatched_at" json:"dispatched_at,omitempty"`
	SentAt        *time.Time     `bun:"sent_at" json:"sent_at,omitempty"`
}
