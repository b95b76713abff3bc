package board

import (
	"context"

	"github.com/aretw0/fieldboard/pkg/bridge"
	"github.com/aretw0/fieldboard/pkg/core"
	"github.com/aretw0/fieldboard/pkg/directory"
)

// Activation summarizes what Activate loaded.
type Activation struct {
	Items      int
	Groups     int
	Malformed  int
	Users      int
	Seeded     bool
	Collisions []string
	// ListErr is set when the store could not be read; the board then starts from defaults.
	ListErr error
}

// Activate loads the board from the store for session.
//
// Records are decoded and partitioned; when no group decodes, default groups
// are seeded and persisted before Activate returns. Malformed records are
// logged and skipped. Activate never fails: an unreachable store degrades to
// a board with local defaults whose commit status reports the outage.
func (b *Board) Activate(ctx context.Context, session core.Session) Activation {
	b.mu.Lock()
	b.session = session
	b.mu.Unlock()

	ctx = b.withToken(ctx)
	var report Activation

	records, err := b.store.ListFields(ctx)
	if err != nil {
		b.logger.Warn("could not list fields", "error", err)
		report.ListErr = err
	}

	decoded := b.schema.Decode(records)
	for _, m := range decoded.Malformed {
		b.logger.Warn("skipping malformed field", "field", m.Record.Name, "field_id", m.Record.ID, "error", m.Err)
	}
	report.Malformed = len(decoded.Malformed)

	groups := decoded.Groups
	groupStatus := make(map[string]core.CommitStatus, len(groups))
	for _, g := range groups {
		groupStatus[g.ID] = core.Committed
	}
	var pending map[string]*bridge.Task
	if len(groups) == 0 {
		outcome := b.seeder.Seed(ctx)
		groups = outcome.Groups
		groupStatus = outcome.Status
		pending = outcome.Pending
		report.Seeded = outcome.Created
	}

	users := directory.Merge(session.Clients, session.InternalUsers)
	report.Collisions = directory.Collisions(users)
	for _, id := range report.Collisions {
		b.logger.Warn("user id present in both directories", "user_id", id)
	}

	b.mu.Lock()
	b.items = decoded.Items
	b.groups = groups
	b.users = users
	b.hidden = make(map[string]struct{})
	b.commits = make(map[commitKey]*commitState, len(b.items)+len(b.groups))
	for _, it := range b.items {
		b.commits[commitKey{EntityItem, it.ID}] = &commitState{status: core.Committed}
	}
	for _, g := range b.groups {
		b.commits[commitKey{EntityGroup, g.ID}] = &commitState{status: groupStatus[g.ID]}
	}
	// Seeding writes that outlived ctx are settled like any other write.
	seeding := make(map[string]write, len(pending))
	for id := range pending {
		seeding[id] = b.nextCommit(commitKey{EntityGroup, id})
	}
	b.activated = true
	b.mu.Unlock()

	for id, w := range seeding {
		task := pending[id]
		b.track(ctx, w, func(context.Context) *bridge.Task { return task })
	}

	report.Items = len(decoded.Items)
	report.Groups = len(groups)
	report.Users = len(users)

	b.logger.Info("board activated",
		"items", report.Items,
		"groups", report.Groups,
		"malformed", report.Malformed,
		"users", report.Users,
		"seeded", report.Seeded,
	)
	return report
}
