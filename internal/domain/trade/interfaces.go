package trade

import (
	"context"
	"time"
)

// RecordLocker serializes settlement of the same records across bot
// processes. Acquired is false when another holder has any of the IDs.
type RecordLocker interface {
	LockRecords(ctx context.Context, ids []string, ttl time.Duration) (unlock func(context.Context), acquired bool, err error)
}
