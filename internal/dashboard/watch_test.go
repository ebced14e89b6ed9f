package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faegents/openclaw/internal/ui"
	"github.com/faegents/openclaw/internal/workspace"
)

func newTestModel(t *testing.T, interval time.Duration, calls *atomic.Int32) watchModel {
	t.Helper()
	fetch := func(context.Context) workspace.State {
		calls.Add(1)
		return workspace.State{Todo: ptr("- [ ] refreshed item")}
	}
	m := newWatchModel(context.Background(), testState(), fetch, WatchOptions{
		Interval: interval,
		Styles:   ui.DefaultStyles(),
		Now:      func() time.Time { return fixedNow },
	})
	m.tickEvery = time.Millisecond
	return m
}

// runBatch executes every command in cmd, returning the messages produced.
func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runBatch(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestWatch_TickRefreshesAtInterval(t *testing.T) {
	var calls atomic.Int32
	m := newTestModel(t, 3*time.Millisecond, &calls)

	model, cmd := m.Update(tickMsg(fixedNow))
	m = model.(watchModel)
	assert.False(t, m.fetching)
	assert.Equal(t, time.Millisecond, m.elapsed)
	require.NotNil(t, cmd)

	model, _ = m.Update(tickMsg(fixedNow))
	m = model.(watchModel)
	model, cmd = m.Update(tickMsg(fixedNow))
	m = model.(watchModel)
	assert.True(t, m.fetching, "refresh starts once elapsed reaches the interval")
	assert.Zero(t, m.elapsed)

	var got *stateMsg
	for _, msg := range runBatch(cmd) {
		if sm, ok := msg.(stateMsg); ok {
			got = &sm
		}
	}
	require.NotNil(t, got)
	assert.EqualValues(t, 1, calls.Load())

	model, _ = m.Update(*got)
	m = model.(watchModel)
	assert.False(t, m.fetching)
	assert.Equal(t, 1, m.refreshes)
	assert.Equal(t, "- [ ] refreshed item", m.state.TodoText())
}

func TestWatch_SingleFetchInFlight(t *testing.T) {
	var calls atomic.Int32
	m := newTestModel(t, time.Millisecond, &calls)

	model, _ := m.Update(tickMsg(fixedNow))
	m = model.(watchModel)
	require.True(t, m.fetching)

	model, cmd := m.Update(tickMsg(fixedNow))
	m = model.(watchModel)
	for _, msg := range runBatch(cmd) {
		_, isState := msg.(stateMsg)
		assert.False(t, isState, "no second fetch while one is in flight")
	}
	assert.Zero(t, calls.Load())
}

func TestWatch_ManualRefresh(t *testing.T) {
	var calls atomic.Int32
	m := newTestModel(t, time.Hour, &calls)

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = model.(watchModel)
	assert.True(t, m.fetching)
	require.NotNil(t, cmd)
}

func TestWatch_QuitKeys(t *testing.T) {
	var calls atomic.Int32
	m := newTestModel(t, time.Hour, &calls)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd, key.String())
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, key.String())
	}
}

func TestWatch_WindowSizeAndView(t *testing.T) {
	var calls atomic.Int32
	m := newTestModel(t, 30*time.Second, &calls)

	model, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	m = model.(watchModel)
	assert.Equal(t, 90, m.width)

	view := m.View()
	assert.Contains(t, view, LiveSubtitle)
	assert.Contains(t, view, "Open Issues")
	assert.Contains(t, view, "next refresh in 30s")
}

func TestWatch_StaleSpinnerTickDropped(t *testing.T) {
	var calls atomic.Int32
	m := newTestModel(t, time.Hour, &calls)
	_, cmd := m.Update(m.spinner.Tick())
	assert.Nil(t, cmd)
}
