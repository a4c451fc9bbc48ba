package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func updateProgress(t *testing.T, m RenderProgressModel, msg tea.Msg) (RenderProgressModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	pm, ok := model.(RenderProgressModel)
	require.True(t, ok)
	return pm, cmd
}

func TestRenderProgressModel(t *testing.T) {
	m := NewRenderProgressModel("test", 3, 2)
	m, _ = updateProgress(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = updateProgress(t, m, WorkerStartedMsg{WorkerID: 0, Path: "/clips/a.wav"})
	assert.Equal(t, "rendering", m.workers[0].status)
	assert.Contains(t, m.View(), "a.wav")

	m, _ = updateProgress(t, m, WorkerCompletedMsg{WorkerID: 0, Path: "/clips/a.wav", Output: "/clips/a.png"})
	m, _ = updateProgress(t, m, WorkerCompletedMsg{WorkerID: 1, Path: "/clips/b.wav", Skipped: true})
	m, _ = updateProgress(t, m, WorkerCompletedMsg{WorkerID: 1, Path: "/clips/c.wav", Err: errors.New("bad header")})

	assert.Equal(t, 3, m.Finished())
	assert.Equal(t, 1, m.Failed())
	assert.Equal(t, "done", m.workers[0].status)
	assert.Contains(t, m.View(), "(3/3)")

	m, cmd := updateProgress(t, m, RenderDoneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Interrupted())
}

func TestRenderProgressModel_Quit(t *testing.T) {
	m := NewRenderProgressModel("test", 2, 2)

	m, cmd := updateProgress(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.Interrupted())
	assert.Equal(t, "Shutting down...\n", m.View())
}

func TestRenderLogEntry(t *testing.T) {
	assert.Equal(t, "a.wav", renderLogEntry{path: "/clips/a.wav"}.Title())
	assert.Contains(t, renderLogEntry{path: "a.wav", output: "a.png"}.Description(), "a.png")
	assert.Contains(t, renderLogEntry{path: "a.wav", skipped: true}.Description(), "skipped")
	assert.Contains(t, renderLogEntry{path: "a.wav", err: "bad"}.Description(), "bad")
}
