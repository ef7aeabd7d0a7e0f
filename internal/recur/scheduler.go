package recur

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"plazo/internal/log"
	"plazo/internal/store"
)

// Generator runs recurring definitions against the store, once per
// invocation or on a cron schedule.
type Generator struct {
	store *store.Store
	now   func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(s *store.Store, opts ...Option) *Generator {
	g := &Generator{store: s, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RunOnce materializes every active definition that should generate
// today and returns how many tasks were created. Individual failures
// skip the definition instead of aborting the run.
func (g *Generator) RunOnce(ctx context.Context) (int, error) {
	today := g.now()
	defs, err := g.store.ListRecurring(ctx, true)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, def := range defs {
		if !ShouldGenerate(def, today) {
			continue
		}
		task := Materialize(def, today)
		if _, err := g.store.CreateTask(ctx, task); err != nil {
			log.Error("recurring generation failed", err, "recurring_id", def.ID)
			continue
		}
		if err := g.store.MarkGenerated(ctx, def.ID, task.DueDate); err != nil {
			log.Error("mark generated failed", err, "recurring_id", def.ID)
			continue
		}
		created++
	}
	return created, nil
}

// Start schedules RunOnce on the cron spec (e.g. "5 0 * * *" for 00:05)
// in the given IANA timezone and returns a stop function. The generation
// day is evaluated in that timezone.
func (g *Generator) Start(ctx context.Context, spec, timezone string) (func(), error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("recur: load timezone %q: %w", timezone, err)
	}
	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(spec, func() {
		n, err := g.RunOnce(ctx)
		if err != nil {
			log.Error("recurring run failed", err)
			return
		}
		if n > 0 {
			log.Info("recurring tasks generated", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("recur: bad cron spec %q: %w", spec, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
