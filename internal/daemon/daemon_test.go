package daemon

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanobar-io/nanobar/internal/config"
	"github.com/nanobar-io/nanobar/internal/ipc"
	"github.com/nanobar-io/nanobar/internal/models"
	"github.com/nanobar-io/nanobar/internal/testsupport"
)

func testPaths(t *testing.T) config.Paths {
	t.Helper()
	return testsupport.RuntimePaths(t)
}

type runningDaemon struct {
	*Daemon
	host   *loopHost
	client *ipc.Client
	exited chan int
	done   chan struct{}
}

func startDaemon(t *testing.T, paths config.Paths, host *loopHost) *runningDaemon {
	t.Helper()

	rd := &runningDaemon{
		host:   host,
		client: ipc.NewClient(paths.Socket, time.Second),
		exited: make(chan int, 1),
		done:   make(chan struct{}),
	}
	d, err := New(Options{
		Paths:    paths,
		Settings: testsupport.NewSettings(),
		Host:     host,
		Exit: func(code int) {
			rd.exited <- code
			host.stop()
		},
	})
	require.NoError(t, err)
	require.NoError(t, d.Listen())
	rd.Daemon = d

	go func() {
		defer close(rd.done)
		d.Run()
	}()
	t.Cleanup(func() {
		host.stop()
		<-rd.done
		d.cleanup()
	})
	return rd
}

func (rd *runningDaemon) send(t *testing.T, req string) string {
	t.Helper()
	resp, err := rd.client.Send(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func (rd *runningDaemon) eventuallyState(t *testing.T, want string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		resp, err := rd.client.Send(context.Background(), ipc.RequestState)
		return err == nil && resp == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDaemonLifecycle(t *testing.T) {
	paths := testPaths(t)
	rd := startDaemon(t, paths, newLoopHost())

	require.Equal(t, "pong", rd.send(t, ipc.RequestPing))
	assert.FileExists(t, paths.Socket)
	pid, err := config.ReadPID(paths.PID)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	assert.Equal(t, "visible", rd.send(t, ipc.RequestState))
	glyph, extent := rd.host.indicator.snapshot()
	assert.Equal(t, "|", glyph)
	assert.Zero(t, extent)

	assert.Equal(t, "ok", rd.send(t, "hide"))
	rd.eventuallyState(t, "hidden")
	glyph, extent = rd.host.indicator.snapshot()
	assert.Equal(t, "", glyph)
	assert.Equal(t, 10000.0, extent)

	assert.Equal(t, "ok", rd.send(t, "hide"))
	rd.eventuallyState(t, "hidden")

	assert.Equal(t, "ok", rd.send(t, "show"))
	rd.eventuallyState(t, "visible")

	assert.Equal(t, "unknown", rd.send(t, "toggle"))
	assert.Equal(t, "visible", rd.send(t, ipc.RequestState))

	assert.Equal(t, "ok", rd.send(t, "stop"))
	select {
	case code := <-rd.exited:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not exit after stop")
	}
	<-rd.done

	assert.NoFileExists(t, paths.Socket)
	assert.NoFileExists(t, paths.PID)
	assert.False(t, rd.client.Ping(context.Background()))
}

func TestTrayCommandsUseTheSamePath(t *testing.T) {
	rd := startDaemon(t, testPaths(t), newLoopHost())
	require.Equal(t, "pong", rd.send(t, ipc.RequestPing))

	rd.host.click(models.CommandHide)
	rd.eventuallyState(t, "hidden")

	rd.host.click(models.CommandShow)
	rd.eventuallyState(t, "visible")
}

func TestSecondDaemonIsRefused(t *testing.T) {
	paths := testPaths(t)
	first := startDaemon(t, paths, newLoopHost())
	require.Equal(t, "pong", first.send(t, ipc.RequestPing))

	before, err := os.ReadFile(paths.PID)
	require.NoError(t, err)

	second, err := New(Options{Paths: paths, Host: newLoopHost(), Exit: func(int) {}})
	require.NoError(t, err)
	assert.ErrorIs(t, second.Listen(), ErrAlreadyRunning)

	after, err := os.ReadFile(paths.PID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "pong", first.send(t, ipc.RequestPing))
}

func TestListenAfterCrashReclaimsRuntimeFiles(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(paths.Socket, nil, 0o600))
	require.NoError(t, config.WritePID(paths.PID, 999999))

	rd := startDaemon(t, paths, newLoopHost())
	assert.Equal(t, "pong", rd.send(t, ipc.RequestPing))

	pid, err := config.ReadPID(paths.PID)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestIndicatorFailureExitsNonZero(t *testing.T) {
	paths := testPaths(t)
	host := newLoopHost()
	host.failNew = true

	exited := make(chan int, 1)
	d, err := New(Options{
		Paths:    paths,
		Settings: testsupport.NewSettings(),
		Host:     host,
		Exit: func(code int) {
			exited <- code
			host.stop()
		},
	})
	require.NoError(t, err)
	require.NoError(t, d.Listen())

	d.Run()

	assert.Equal(t, 1, <-exited)
	assert.NoFileExists(t, paths.Socket)
	assert.NoFileExists(t, paths.PID)
}

func TestSettingsChangeReloadsLook(t *testing.T) {
	paths := testPaths(t)
	settingsPath := paths.Socket + ".yaml"
	host := newLoopHost()

	d, err := New(Options{
		Paths:        paths,
		Settings:     testsupport.NewSettings(),
		SettingsPath: settingsPath,
		Host:         host,
		Exit:         func(int) { host.stop() },
	})
	require.NoError(t, err)
	require.NoError(t, d.Listen())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run()
	}()
	t.Cleanup(func() {
		host.stop()
		<-done
		d.cleanup()
	})

	client := ipc.NewClient(paths.Socket, time.Second)
	require.True(t, client.Ping(context.Background()))

	s := testsupport.NewSettings()
	s.Divider.VisibleGlyph = "¦"
	require.NoError(t, config.SaveYAML(settingsPath, s))

	assert.Eventually(t, func() bool {
		glyph, _ := host.indicator.snapshot()
		return glyph == "¦"
	}, 3*time.Second, 20*time.Millisecond)
}
