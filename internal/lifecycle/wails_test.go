package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostCtxKey struct{}

func TestWailsHost_WindowRequiresAttach(t *testing.T) {
	h := NewWailsHost("")

	_, ok := h.Window(MainWindow)
	assert.False(t, ok, "window must not resolve before startup")

	h.Attach(context.Background())
	_, ok = h.Window(MainWindow)
	assert.True(t, ok)
	_, ok = h.Window("settings")
	assert.False(t, ok)

	h.Detach()
	_, ok = h.Window(MainWindow)
	assert.False(t, ok, "window must not resolve after shutdown")
}

func TestWailsHost_ExitDetachedTerminatesProcess(t *testing.T) {
	h := NewWailsHost(MainWindow)
	var code = -1
	h.osExit = func(c int) { code = c }
	h.quit = func(context.Context) { t.Fatal("quit must not be called while detached") }

	h.Exit(0)

	assert.Equal(t, 0, code)
	assert.True(t, h.Quitting())
	assert.Equal(t, 0, h.ExitCode())
}

func TestWailsHost_ExitAttachedRunsHostShutdown(t *testing.T) {
	h := NewWailsHost(MainWindow)
	quitCalled := make(chan context.Context, 1)
	h.quit = func(ctx context.Context) { quitCalled <- ctx }
	h.osExit = func(int) { t.Fatal("os exit must not be called while attached") }

	ctx := context.WithValue(context.Background(), hostCtxKey{}, "wails")
	h.Attach(ctx)
	h.Exit(0)

	select {
	case got := <-quitCalled:
		require.Equal(t, ctx, got)
	case <-time.After(time.Second):
		t.Fatal("runtime quit was not requested")
	}
	assert.True(t, h.Quitting())
}

func TestWailsHost_DrivesController(t *testing.T) {
	h := NewWailsHost(MainWindow)
	var code = -1
	h.osExit = func(c int) { code = c }

	c := New(h, h.Exit)

	// 启动前：窗口不可用，但托盘仍可继续处理退出
	assert.ErrorIs(t, c.HandleEvent("hide"), ErrWindowUnavailable)
	assert.NoError(t, c.HandleEvent("quit"))
	assert.Equal(t, 0, code)
}
