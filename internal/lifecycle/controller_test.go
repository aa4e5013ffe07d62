package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	visible    bool
	showCalls  int
	hideCalls  int
	focusCalls int
}

func (w *fakeWindow) Show()     { w.visible = true; w.showCalls++ }
func (w *fakeWindow) Hide()     { w.visible = false; w.hideCalls++ }
func (w *fakeWindow) SetFocus() { w.focusCalls++ }

type fakeRegistry struct {
	windows map[string]*fakeWindow
	lookups int
}

func newFakeRegistry(w *fakeWindow) *fakeRegistry {
	r := &fakeRegistry{windows: map[string]*fakeWindow{}}
	if w != nil {
		r.windows[MainWindow] = w
	}
	return r
}

func (r *fakeRegistry) Window(name string) (Window, bool) {
	r.lookups++
	w, ok := r.windows[name]
	if !ok {
		return nil, false
	}
	return w, true
}

type exitRecorder struct {
	codes []int
}

func (e *exitRecorder) exit(code int) { e.codes = append(e.codes, code) }

func TestHandleEvent_ShowHiddenWindowGrantsFocus(t *testing.T) {
	win := &fakeWindow{visible: false}
	exits := &exitRecorder{}
	c := New(newFakeRegistry(win), exits.exit, WithInitialState(StateHidden))

	require.NoError(t, c.HandleEvent("show"))

	assert.True(t, win.visible)
	assert.Equal(t, 1, win.focusCalls)
	assert.Equal(t, StateVisible, c.State())
	assert.Empty(t, exits.codes)
}

func TestHandleEvent_HideNeverRequestsFocus(t *testing.T) {
	win := &fakeWindow{visible: true}
	c := New(newFakeRegistry(win), nil)

	require.NoError(t, c.HandleEvent("hide"))
	require.NoError(t, c.HandleEvent("hide"))

	assert.False(t, win.visible)
	assert.Zero(t, win.focusCalls)
	assert.Equal(t, StateHidden, c.State())
}

func TestHandleEvent_VisibilityFollowsLastAction(t *testing.T) {
	win := &fakeWindow{visible: true}
	c := New(newFakeRegistry(win), nil)

	seq := []string{"hide", "show", "show", "hide", "hide", "show", "hide"}
	for i, id := range seq {
		before := win.visible
		require.NoError(t, c.HandleEvent(id))

		want := id == "show"
		assert.Equal(t, want, win.visible, "step %d (%s)", i, id)
		if i > 0 && seq[i-1] == id {
			assert.Equal(t, before, win.visible, "repeating %s must not change state", id)
		}
	}
	// 每次 show 都伴随一次聚焦
	assert.Equal(t, win.showCalls, win.focusCalls)
}

func TestHandleEvent_QuitExitsWithZero(t *testing.T) {
	cases := map[string]*fakeRegistry{
		"visible window": newFakeRegistry(&fakeWindow{visible: true}),
		"hidden window":  newFakeRegistry(&fakeWindow{visible: false}),
		"no window":      newFakeRegistry(nil),
	}
	for name, reg := range cases {
		t.Run(name, func(t *testing.T) {
			exits := &exitRecorder{}
			c := New(reg, exits.exit)

			require.NoError(t, c.HandleEvent("quit"))
			assert.Equal(t, []int{0}, exits.codes)
			assert.Equal(t, StateExited, c.State())
			assert.Zero(t, reg.lookups, "quit must not depend on window lookup")
		})
	}
}

func TestHandleEvent_ExitedIsTerminal(t *testing.T) {
	win := &fakeWindow{visible: false}
	exits := &exitRecorder{}
	c := New(newFakeRegistry(win), exits.exit)

	require.NoError(t, c.HandleEvent("quit"))
	require.NoError(t, c.HandleEvent("show"))
	require.NoError(t, c.HandleEvent("quit"))

	assert.False(t, win.visible)
	assert.Equal(t, []int{0}, exits.codes)
	assert.Equal(t, StateExited, c.State())
}

func TestHandleEvent_UnknownIdentifierIsNoop(t *testing.T) {
	win := &fakeWindow{visible: true}
	reg := newFakeRegistry(win)
	exits := &exitRecorder{}
	c := New(reg, exits.exit)

	require.NoError(t, c.HandleEvent("unrecognized-id"))
	require.NoError(t, c.HandleEvent(""))

	assert.True(t, win.visible)
	assert.Zero(t, win.showCalls+win.hideCalls+win.focusCalls)
	assert.Zero(t, reg.lookups)
	assert.Empty(t, exits.codes)
}

func TestHandleEvent_MissingWindow(t *testing.T) {
	reg := newFakeRegistry(nil)
	c := New(reg, nil)

	for _, id := range []string{"show", "hide"} {
		err := c.HandleEvent(id)
		require.Error(t, err)

		var unavailable *WindowUnavailableError
		require.True(t, errors.As(err, &unavailable))
		assert.Equal(t, MainWindow, unavailable.Name)
		assert.ErrorIs(t, err, ErrWindowUnavailable)
	}

	// 窗口随后创建，下一次事件应正常处理
	win := &fakeWindow{}
	reg.windows[MainWindow] = win
	require.NoError(t, c.HandleEvent("show"))
	assert.True(t, win.visible)
}

func TestHandleEvent_LooksUpWindowOnEveryEvent(t *testing.T) {
	first := &fakeWindow{}
	reg := newFakeRegistry(first)
	c := New(reg, nil)

	require.NoError(t, c.HandleEvent("show"))

	// 窗口被重建后不应继续使用旧引用
	second := &fakeWindow{visible: true}
	reg.windows[MainWindow] = second
	require.NoError(t, c.HandleEvent("hide"))

	assert.True(t, first.visible)
	assert.False(t, second.visible)
	assert.Equal(t, 2, reg.lookups)
}

func TestHandleEvent_CustomWindowName(t *testing.T) {
	win := &fakeWindow{}
	reg := &fakeRegistry{windows: map[string]*fakeWindow{"editor": win}}
	c := New(reg, nil, WithWindowName("editor"))

	require.NoError(t, c.HandleEvent("show"))
	assert.True(t, win.visible)
}

func TestDispatch_ContainsWindowUnavailable(t *testing.T) {
	reg := newFakeRegistry(nil)
	var events []Event
	c := New(reg, nil, WithObserver(func(ev Event) { events = append(events, ev) }))

	assert.NotPanics(t, func() { c.Dispatch("show") })

	win := &fakeWindow{}
	reg.windows[MainWindow] = win
	c.Dispatch("show")
	c.Dispatch("unrecognized-id")

	require.Len(t, events, 2)
	assert.ErrorIs(t, events[0].Err, ErrWindowUnavailable)
	assert.Equal(t, "show", events[0].Action)
	assert.NoError(t, events[1].Err)
	assert.Equal(t, "visible", events[1].State)
	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.True(t, win.visible)
}

func TestDispatch_IgnoresEventsAfterQuit(t *testing.T) {
	exits := &exitRecorder{}
	var events []Event
	c := New(newFakeRegistry(&fakeWindow{}), exits.exit, WithObserver(func(ev Event) { events = append(events, ev) }))

	c.Dispatch("quit")
	c.Dispatch("show")

	require.Len(t, events, 1)
	assert.Equal(t, "exited", events[0].State)
	assert.Equal(t, []int{0}, exits.codes)
}
