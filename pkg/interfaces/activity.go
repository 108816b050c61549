package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users activity record emitted for admin edits.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives activity records. Any go-users ActivitySink
// implementation satisfies it.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
