package remote

import "context"

type OracleClient struct {
	*client
	callbackURL string
}

func NewOracleClient(opts Options, callbackURL string) *OracleClient {
	return &OracleClient{newClient(opts), callbackURL}
}

type randomnessRequest struct {
	JobID       string `json:"job_id"`
	CallbackURL string `json:"callback_url"`
}

// RequestRandomness asks the oracle to deliver randomness for jobID. The
// value arrives later through the callback endpoint.
func (c *OracleClient) RequestRandomness(ctx context.Context, jobID string) error {
	return c.postJSON(ctx, "/randomness", randomnessRequest{JobID: jobID, CallbackURL: c.callbackURL})
}
