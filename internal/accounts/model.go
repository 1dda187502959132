package accounts

import "time"

// Assignment links a local user to a custodial account held by terminus.
// Rows are inserted only after a successful create RPC and deleted only
// after both the clear and remove RPCs succeed.
type Assignment struct {
	ID          string
	UserID      string
	AccountName string
	CreatedAt   time.Time
}
