// Package seed creates the default group structure of an empty board.
package seed

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aretw0/fieldboard/pkg/bridge"
	"github.com/aretw0/fieldboard/pkg/core"
)

// Deterministic ids of the default groups. Seeding twice writes the same two fields.
const (
	CurrentID  = "group_current"
	UpcomingID = "group_upcoming"
)

// Defaults returns the default groups stamped with now.
func Defaults(now time.Time) []core.Group {
	return []core.Group{
		{ID: CurrentID, Name: "Current Sprint", Color: "#003F27", CreatedAt: now},
		{ID: UpcomingID, Name: "Upcoming Tasks", Color: "#f57c00", CreatedAt: now},
	}
}

// Outcome describes what a Seed call produced.
type Outcome struct {
	// Groups is never empty.
	Groups []core.Group
	// Status holds the commit status of each group by id.
	Status map[string]core.CommitStatus
	// Created is false when groups were found in the store and adopted instead.
	Created bool
	// Pending holds, by group id, writes still in flight when ctx ended.
	// Their groups are reported uncommitted; the tasks keep running.
	Pending map[string]*bridge.Task
}

// Seeder populates default groups. Concurrent Seed calls share one execution.
type Seeder struct {
	store  core.Store
	bridge *bridge.Bridge
	logger *slog.Logger
	now    func() time.Time
	flight singleflight.Group
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) {
		s.now = now
	}
}

// New creates a Seeder that checks store before writing defaults through b.
func New(store core.Store, b *bridge.Bridge, opts ...Option) *Seeder {
	s := &Seeder{
		store:  store,
		bridge: b,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Seed returns the groups the board should start with when none decoded.
//
// The store is checked again first; groups persisted in the meantime are
// adopted as-is. Otherwise the defaults are persisted one after the other.
// A failed write leaves that group uncommitted but still returned.
func (s *Seeder) Seed(ctx context.Context) Outcome {
	v, _, _ := s.flight.Do("defaults", func() (any, error) {
		return s.seed(ctx), nil
	})
	return v.(Outcome).clone()
}

func (s *Seeder) seed(ctx context.Context) Outcome {
	if existing := s.persistedGroups(ctx); len(existing) > 0 {
		out := Outcome{Groups: existing, Status: make(map[string]core.CommitStatus, len(existing))}
		for _, g := range existing {
			out.Status[g.ID] = core.Committed
		}
		s.logger.Info("groups found in store, skipping defaults", "groups", len(existing))
		return out
	}

	groups := Defaults(s.now().UTC())
	out := Outcome{Groups: groups, Status: make(map[string]core.CommitStatus, len(groups)), Created: true}

	for i := range groups {
		out.Status[groups[i].ID] = core.Uncommitted

		task := s.bridge.PersistGroup(ctx, groups[i])
		res, err := task.Wait(ctx)
		if err != nil {
			s.logger.Warn("default group still in flight", "group", groups[i].ID, "error", err)
			if out.Pending == nil {
				out.Pending = make(map[string]*bridge.Task)
			}
			out.Pending[groups[i].ID] = task
			continue
		}
		if !res.OK {
			out.Status[groups[i].ID] = core.Failed
			continue
		}
		groups[i].FieldID = res.FieldID
		out.Status[groups[i].ID] = core.Committed
	}

	s.logger.Info("default groups seeded", "groups", len(groups))
	return out
}

func (s *Seeder) persistedGroups(ctx context.Context) []core.Group {
	records, err := s.store.ListFields(ctx)
	if err != nil {
		s.logger.Warn("could not re-check store before seeding", "error", err)
		return nil
	}
	return s.bridge.Schema().Decode(records).Groups
}

func (o Outcome) clone() Outcome {
	out := Outcome{
		Groups:  append([]core.Group(nil), o.Groups...),
		Status:  make(map[string]core.CommitStatus, len(o.Status)),
		Created: o.Created,
	}
	for k, v := range o.Status {
		out.Status[k] = v
	}
	if o.Pending != nil {
		out.Pending = make(map[string]*bridge.Task, len(o.Pending))
		for k, t := range o.Pending {
			out.Pending[k] = t
		}
	}
	return out
}
