package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrLedgerLock = errors.New("ledger locked")

const (
	CONFIG_CLAIM_RATE_LIMIT_PER_MINUTE = "CLAIM_RATE_LIMIT_PER_MINUTE"
	CONFIG_AUTO_REQUEST_RANDOMNESS     = "AUTO_REQUEST_RANDOMNESS"
	CONFIG_TRANSFER_BATCH_SIZE         = "TRANSFER_BATCH_SIZE"
	CONFIG_TRANSFER_MAX_ATTEMPTS       = "TRANSFER_MAX_ATTEMPTS"
	CONFIG_CRONJOB_TIME_TRANSFER       = "CRONJOB_TIME_TRANSFER"
	CONFIG_CRONJOB_TIME_RANDOMNESS     = "CRONJOB_TIME_RANDOMNESS"
	CONFIG_RANDOMNESS_BUFFER           = "RANDOMNESS_BUFFER"

	CLAIM_RATE_LIMIT_PER_MINUTE = 30
	TRANSFER_BATCH_SIZE         = 50
	TRANSFER_MAX_ATTEMPTS       = 5
	CRONJOB_TIME_TRANSFER       = "@every 1m"
	CRONJOB_TIME_RANDOMNESS     = "@every 5m"

	JOB_ID_PREFIX = "job-"

	LEDGER_VERSION = "0.1.0"

	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
)

func LockKeyLedger() string {
	return "lock:ledger"
}

// db
func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyLedgerState() string {
	return "ledger:state"
}

func DBKeyPrizes() string {
	return "prizes:all"
}

func DBKeyBalances() string {
	return "balances:all"
}

func DBKeyBalance(address string) string {
	return fmt.Sprintf("balance:%s", address)
}

func LimitKeyClaim(address string) string {
	return fmt.Sprintf("limit:claim:%s", address)
}
