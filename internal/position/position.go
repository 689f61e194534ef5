// Package position moves the divider so that chosen menu bar items end up on
// its hidden side.
//
// Status item positions persist in each app's defaults domain as a distance
// from the right edge of the screen: a lower value sits further right. The
// divider is placed a margin below the lowest target value, then the daemon
// is restarted so the menu bar picks the new position up.
package position

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nanobar-io/nanobar/internal/models"
)

var (
	// ErrResolutionFailed means no target had a usable saved position.
	ErrResolutionFailed = errors.New("could not determine divider position for specified apps")
	// ErrPersistenceWriteFailed means the new position could not be saved.
	ErrPersistenceWriteFailed = errors.New("failed to write divider position")
)

// targetSlot is the autosave name of an app's first status item.
const targetSlot = "Item-0"

// Enumerator lists menu bar items ordered left to right.
type Enumerator interface {
	List(ctx context.Context) ([]models.MenuBarItem, error)
}

// Store is the preference database.
type Store interface {
	BundleID(ctx context.Context, pid int) (string, bool)
	ReadFloat(ctx context.Context, domain, key string) (float64, bool)
	WriteFloat(ctx context.Context, domain, key string, value float64) error
}

// Daemon is the lifecycle surface of the running daemon.
type Daemon interface {
	Running(ctx context.Context) bool
	Stop(ctx context.Context) error
	Start(ctx context.Context) error
}

// Unresolved is a matched item that could not be used.
type Unresolved struct {
	Owner    string
	BundleID string // empty when the bundle id itself was missing
}

// Plan is the outcome of resolving targets against a snapshot.
type Plan struct {
	Matched    []string
	NotFound   []string
	NoBundle   []Unresolved
	NoPosition []Unresolved
	// AlsoHidden lists other items left of the rightmost match; they end up
	// hidden as well.
	AlsoHidden []string

	Target  float64
	Divider float64
	Pusher  float64
}

// Resolver computes and applies divider positions.
type Resolver struct {
	items  Enumerator
	store  Store
	daemon Daemon
	cfg    models.PositioningConfig
	look   models.DividerConfig
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New returns a resolver.
func New(items Enumerator, store Store, daemon Daemon, settings *models.Settings, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		items:  items,
		store:  store,
		daemon: daemon,
		cfg:    settings.Positioning,
		look:   settings.Divider,
		logger: logger.With("component", "position"),
		sleep:  sleepContext,
	}
}

// Resolve matches targets and computes the new position. It has no side
// effects. Targets are owner name fragments or 1-based indices into the
// current listing.
func (r *Resolver) Resolve(ctx context.Context, targets []string) (*Plan, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	var matchedItems []models.MenuBarItem
	found := false

	for _, name := range r.names(items, targets) {
		needle := strings.ToLower(name)
		hit := false
		for _, item := range items {
			if item.OwnerName == r.cfg.OwnerName || !strings.Contains(strings.ToLower(item.OwnerName), needle) {
				continue
			}
			hit = true

			bundle, ok := r.store.BundleID(ctx, item.OwnerPID)
			if !ok {
				plan.NoBundle = append(plan.NoBundle, Unresolved{Owner: item.OwnerName})
				continue
			}
			pos, ok := r.store.ReadFloat(ctx, bundle, models.PositionKey(targetSlot))
			if !ok {
				plan.NoPosition = append(plan.NoPosition, Unresolved{Owner: item.OwnerName, BundleID: bundle})
				continue
			}

			r.logger.Debug("target resolved", "owner", item.OwnerName, "bundle", bundle, "position", pos)
			if !found || pos < plan.Target {
				plan.Target = pos
			}
			found = true
			matchedItems = append(matchedItems, item)
			if !slices.Contains(plan.Matched, item.OwnerName) {
				plan.Matched = append(plan.Matched, item.OwnerName)
			}
		}
		if !hit {
			plan.NotFound = append(plan.NotFound, name)
		}
	}

	if !found {
		return plan, ErrResolutionFailed
	}

	plan.Divider = max(plan.Target-r.cfg.Margin, r.cfg.Minimum)
	plan.Pusher = plan.Divider + r.cfg.PusherOffset
	plan.AlsoHidden = r.alsoHidden(items, matchedItems, plan.Matched)
	return plan, nil
}

// names maps numeric targets onto the owner names they index.
func (r *Resolver) names(items []models.MenuBarItem, targets []string) []string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		if n, err := strconv.Atoi(t); err == nil && n >= 1 && n <= len(items) {
			names = append(names, items[n-1].OwnerName)
			continue
		}
		names = append(names, t)
	}
	return names
}

func (r *Resolver) alsoHidden(items, matched []models.MenuBarItem, names []string) []string {
	var cut float64
	for i, item := range matched {
		if i == 0 || item.Right() > cut {
			cut = item.Right()
		}
	}

	var out []string
	for _, item := range items {
		if item.X >= cut || item.OwnerName == r.cfg.OwnerName || slices.Contains(names, item.OwnerName) {
			continue
		}
		out = append(out, item.OwnerName)
	}
	return out
}

// Apply stops a running daemon, writes the plan's positions, and starts the
// daemon again. The restart is attempted even when the write fails.
func (r *Resolver) Apply(ctx context.Context, plan *Plan) error {
	if r.daemon.Running(ctx) {
		if err := r.daemon.Stop(ctx); err != nil {
			r.logger.Warn("stop before reposition failed", "error", err)
		}
		if err := r.sleep(ctx, r.cfg.SettleDelay); err != nil {
			return err
		}
	}

	writeErr := r.write(ctx, plan)
	if writeErr != nil {
		r.logger.Error("position write failed", "error", writeErr)
	}

	startErr := r.daemon.Start(ctx)
	return errors.Join(writeErr, startErr)
}

func (r *Resolver) write(ctx context.Context, plan *Plan) error {
	if err := r.store.WriteFloat(ctx, r.cfg.Domain, models.PositionKey(r.look.Slot), plan.Divider); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)
	}
	if err := r.store.WriteFloat(ctx, r.cfg.Domain, models.PositionKey(r.look.PusherSlot), plan.Pusher); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err)
	}
	r.logger.Info("divider repositioned", "divider", plan.Divider, "pusher", plan.Pusher)
	return nil
}

// Hide resolves targets and applies the result. report, if set, sees the
// plan before anything is stopped or written.
func (r *Resolver) Hide(ctx context.Context, targets []string, report func(*Plan)) (*Plan, error) {
	plan, err := r.Resolve(ctx, targets)
	if report != nil && plan != nil {
		report(plan)
	}
	if err != nil {
		return plan, err
	}
	return plan, r.Apply(ctx, plan)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
