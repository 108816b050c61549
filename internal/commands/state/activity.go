package statecmd

import (
	"context"
	"time"

	"github.com/goliatone/go-firmsite/internal/identity"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
	"github.com/google/uuid"
)

const activityChannel = "firmsite"

// Activity verbs.
const (
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
	VerbLogin  = "login"
	VerbLogout = "logout"
)

type activityRecorder struct {
	sink   interfaces.ActivitySink
	logger interfaces.Logger
	now    func() time.Time
	tenant func() uuid.UUID
}

func (r activityRecorder) record(ctx context.Context, actor uuid.UUID, verb, objectType, objectID string, data map[string]any) {
	if r.sink == nil {
		return
	}
	record := interfaces.ActivityRecord{
		ActorID:    actor,
		TenantID:   r.tenant(),
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    activityChannel,
		Data:       data,
		OccurredAt: r.now(),
	}
	if err := r.sink.Log(ctx, record); err != nil {
		logging.WithFields(r.logger, map[string]any{
			"verb":        verb,
			"object_type": objectType,
			"object_id":   objectID,
		}).Warn("state.activity.failed", "error", err)
	}
}

func siteTenant(officeName func() string) func() uuid.UUID {
	return func() uuid.UUID {
		return identity.SiteUUID(officeName())
	}
}
