package position

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanobar-io/nanobar/internal/models"
)

type fakeItems []models.MenuBarItem

func (f fakeItems) List(context.Context) ([]models.MenuBarItem, error) { return f, nil }

type write struct {
	domain, key string
	value       float64
}

type fakeStore struct {
	bundles   map[int]string
	positions map[string]float64
	writeErr  error
	writes    []write
}

func (s *fakeStore) BundleID(_ context.Context, pid int) (string, bool) {
	id, ok := s.bundles[pid]
	return id, ok
}

func (s *fakeStore) ReadFloat(_ context.Context, domain, key string) (float64, bool) {
	if key != "NSStatusItem Preferred Position Item-0" {
		return 0, false
	}
	v, ok := s.positions[domain]
	return v, ok
}

func (s *fakeStore) WriteFloat(_ context.Context, domain, key string, value float64) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, write{domain: domain, key: key, value: value})
	return nil
}

type fakeDaemon struct {
	running  bool
	events   []string
	startErr error
}

func (d *fakeDaemon) Running(context.Context) bool { return d.running }

func (d *fakeDaemon) Stop(context.Context) error {
	d.events = append(d.events, "stop")
	d.running = false
	return nil
}

func (d *fakeDaemon) Start(context.Context) error {
	d.events = append(d.events, "start")
	if d.startErr != nil {
		return d.startErr
	}
	d.running = true
	return nil
}

var snapshot = fakeItems{
	{WindowID: 10, OwnerName: "Slack", OwnerPID: 1, X: 900, Width: 24},
	{WindowID: 11, OwnerName: "Dropbox", OwnerPID: 2, X: 1000, Width: 24},
	{WindowID: 12, OwnerName: "1Password", OwnerPID: 3, X: 1050, Width: 24},
	{WindowID: 13, OwnerName: "nanobar", OwnerPID: 9, X: 1100, Width: 8},
	{WindowID: 14, OwnerName: "Control Center", OwnerPID: 4, X: 1200, Width: 30},
}

func newStore() *fakeStore {
	return &fakeStore{
		bundles: map[int]string{
			1: "com.tinyspeck.slackmacgap",
			2: "com.getdropbox.dropbox",
			3: "com.1password.1password",
			4: "com.apple.controlcenter",
		},
		positions: map[string]float64{
			"com.tinyspeck.slackmacgap": 300,
			"com.getdropbox.dropbox":    120,
			"com.1password.1password":   95,
		},
	}
}

func newResolver(store *fakeStore, d *fakeDaemon) (*Resolver, *[]time.Duration) {
	settings := models.NewSettings()
	r := New(snapshot, store, d, settings, nil)
	var slept []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func TestHideMinimumRule(t *testing.T) {
	store := newStore()
	d := &fakeDaemon{running: true}
	r, slept := newResolver(store, d)

	plan, err := r.Hide(context.Background(), []string{"dropbox", "1pass"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 95.0, plan.Target)
	assert.Equal(t, 75.0, plan.Divider)
	assert.Equal(t, 76.0, plan.Pusher)
	assert.Equal(t, []string{"Dropbox", "1Password"}, plan.Matched)
	assert.Equal(t, []string{"Slack"}, plan.AlsoHidden)

	assert.Equal(t, []string{"stop", "start"}, d.events)
	assert.Equal(t, []time.Duration{300 * time.Millisecond}, *slept)
	assert.Equal(t, []write{
		{domain: "nanobar", key: "NSStatusItem Preferred Position Item-0", value: 75},
		{domain: "nanobar", key: "NSStatusItem Preferred Position Item-1", value: 76},
	}, store.writes)
}

func TestHideReportsPlanBeforeRestart(t *testing.T) {
	store := newStore()
	d := &fakeDaemon{running: true}
	r, _ := newResolver(store, d)

	var reported *Plan
	plan, err := r.Hide(context.Background(), []string{"Dropbox"}, func(p *Plan) {
		reported = p
		assert.Empty(t, d.events)
		assert.Empty(t, store.writes)
	})
	require.NoError(t, err)
	assert.Same(t, plan, reported)
	assert.Equal(t, []string{"stop", "start"}, d.events)
}

func TestHideReportsUnresolvedPlan(t *testing.T) {
	r, _ := newResolver(newStore(), &fakeDaemon{})

	var reported *Plan
	_, err := r.Hide(context.Background(), []string{"Nothing"}, func(p *Plan) { reported = p })
	assert.ErrorIs(t, err, ErrResolutionFailed)
	require.NotNil(t, reported)
	assert.Equal(t, []string{"Nothing"}, reported.NotFound)
}

func TestHidePartialMatch(t *testing.T) {
	store := newStore()
	d := &fakeDaemon{}
	r, slept := newResolver(store, d)

	plan, err := r.Hide(context.Background(), []string{"Dropbox", "NoSuchApp"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"NoSuchApp"}, plan.NotFound)
	assert.Equal(t, 100.0, plan.Divider)
	assert.Equal(t, []string{"start"}, d.events, "a stopped daemon is only started")
	assert.Empty(t, *slept)
}

func TestResolveNumericIndices(t *testing.T) {
	r, _ := newResolver(newStore(), &fakeDaemon{})

	plan, err := r.Resolve(context.Background(), []string{"2", "9", "0"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Dropbox"}, plan.Matched)
	assert.Equal(t, []string{"9", "0"}, plan.NotFound, "out of range indices are literal names")
}

func TestResolveSkipsOwnItems(t *testing.T) {
	r, _ := newResolver(newStore(), &fakeDaemon{})

	plan, err := r.Resolve(context.Background(), []string{"4"})
	assert.ErrorIs(t, err, ErrResolutionFailed)
	assert.Equal(t, []string{"nanobar"}, plan.NotFound)
}

func TestResolveReportsMissingData(t *testing.T) {
	store := newStore()
	delete(store.bundles, 2)
	r, _ := newResolver(store, &fakeDaemon{})

	plan, err := r.Resolve(context.Background(), []string{"Dropbox", "Control"})
	assert.ErrorIs(t, err, ErrResolutionFailed)
	assert.Equal(t, []Unresolved{{Owner: "Dropbox"}}, plan.NoBundle)
	assert.Equal(t, []Unresolved{{Owner: "Control Center", BundleID: "com.apple.controlcenter"}}, plan.NoPosition)
}

func TestHideZeroMatchHasNoSideEffects(t *testing.T) {
	store := newStore()
	d := &fakeDaemon{running: true}
	r, slept := newResolver(store, d)

	_, err := r.Hide(context.Background(), []string{"Nothing"}, nil)
	assert.ErrorIs(t, err, ErrResolutionFailed)
	assert.Empty(t, store.writes)
	assert.Empty(t, d.events)
	assert.Empty(t, *slept)
}

func TestHideWriteFailureStillRestarts(t *testing.T) {
	store := newStore()
	store.writeErr = errors.New("exit status 1")
	d := &fakeDaemon{running: true, startErr: errors.New("startup timeout")}
	r, _ := newResolver(store, d)

	_, err := r.Hide(context.Background(), []string{"Dropbox"}, nil)
	assert.ErrorIs(t, err, ErrPersistenceWriteFailed)
	assert.ErrorIs(t, err, store.writeErr)
	assert.ErrorIs(t, err, d.startErr)
	assert.Equal(t, []string{"stop", "start"}, d.events)
}

func TestDividerFloor(t *testing.T) {
	store := newStore()
	store.positions["com.getdropbox.dropbox"] = 12
	r, _ := newResolver(store, &fakeDaemon{})

	plan, err := r.Resolve(context.Background(), []string{"Dropbox"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, plan.Divider)
	assert.Equal(t, 2.0, plan.Pusher)
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}
