package remote

import (
	"context"

	"pointsdraw/internal/models"
)

type CustodyClient struct {
	*client
}

func NewCustodyClient(opts Options) *CustodyClient {
	return &CustodyClient{newClient(opts)}
}

type transferRequest struct {
	TransferID int64  `json:"transfer_id"`
	Custodian  string `json:"custodian"`
	ItemID     string `json:"item_id"`
	Recipient  string `json:"recipient"`
}

// Transfer instructs the custody service to move the item to its recipient.
// The transfer id doubles as an idempotency key on the custody side.
func (c *CustodyClient) Transfer(ctx context.Context, transfer *models.PrizeTransfer) error {
	return c.postJSON(ctx, "/transfers", transferRequest{
		TransferID: transfer.ID,
		Custodian:  transfer.Custodian,
		ItemID:     transfer.ItemID,
		Recipient:  transfer.Recipient,
	})
}
