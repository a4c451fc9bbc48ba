package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/clipsorter/config"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pressSimilar(t *testing.T, m SimilarModel, msgs ...tea.Msg) SimilarModel {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	sm, ok := model.(SimilarModel)
	require.True(t, ok)
	return sm
}

func TestNewSimilarModel(t *testing.T) {
	m := NewSimilarModel([][]string{
		{"a.wav", "b.wav"},
		{"c.wav", "d.wav", "e.wav"},
	}, SimilarOptions{Root: "."})

	require.Len(t, m.Groups(), 2)
	assert.Equal(t, 0, m.currentGroup)
	assert.Equal(t, 0, m.currentFile)
	for _, g := range m.Groups() {
		assert.Len(t, g.Selected, len(g.Files))
		assert.NotContains(t, g.Selected, true, "nothing selected by default")
	}
}

func TestNewSimilarModel_Empty(t *testing.T) {
	m := NewSimilarModel(nil, SimilarOptions{})
	assert.Empty(t, m.Groups())
	assert.Contains(t, m.View(), "All similar groups have been processed")
}

func TestSimilarModel_Navigation(t *testing.T) {
	m := NewSimilarModel([][]string{
		{"a.wav", "b.wav"},
		{"c.wav", "d.wav", "e.wav"},
	}, SimilarOptions{})

	m = pressSimilar(t, m, runes("j"), runes("j"))
	assert.Equal(t, 1, m.currentFile, "stays on the last file of the group")

	m = pressSimilar(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.currentGroup)
	assert.Equal(t, 0, m.currentFile)

	m = pressSimilar(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.currentGroup, "stays on the last group")

	m = pressSimilar(t, m, tea.KeyMsg{Type: tea.KeyLeft}, runes("k"))
	assert.Equal(t, 0, m.currentGroup)
	assert.Equal(t, 0, m.currentFile)
}

func TestSimilarModel_Selection(t *testing.T) {
	m := NewSimilarModel([][]string{{"a.wav", "b.wav", "c.wav"}}, SimilarOptions{})

	m = pressSimilar(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []bool{true, false, false}, m.Groups()[0].Selected)

	m = pressSimilar(t, m, runes("a"))
	assert.Equal(t, []bool{true, true, true}, m.Groups()[0].Selected)

	m = pressSimilar(t, m, runes("c"))
	assert.Equal(t, []bool{false, false, false}, m.Groups()[0].Selected)
}

func TestSimilarModel_SkipLastGroupQuits(t *testing.T) {
	m := NewSimilarModel([][]string{{"a.wav", "b.wav"}}, SimilarOptions{})

	_, cmd := m.Update(runes("s"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSimilarModel_PlayWithoutPlayer(t *testing.T) {
	m := NewSimilarModel([][]string{{"a.wav", "b.wav"}}, SimilarOptions{})

	m = pressSimilar(t, m, runes("p"))
	assert.Contains(t, m.status, "no audio player found")
}

func TestSimilarModel_MoveSelected(t *testing.T) {
	root := t.TempDir()
	var paths []string
	for _, name := range []string{"a.wav", "b.wav", "c.wav", "d.wav", "e.wav"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(p, []byte("RIFF"), 0o644))
		paths = append(paths, p)
	}

	m := NewSimilarModel([][]string{paths[:2], paths[2:]}, SimilarOptions{Root: root, Config: config.Default()})

	// select a.wav and d.wav, then label them "t" (TruePos)
	m = pressSimilar(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyRight}, runes("j"), tea.KeyMsg{Type: tea.KeySpace})
	m = pressSimilar(t, m, runes("t"))
	require.True(t, m.confirming)
	assert.Equal(t, []string{paths[0], paths[3]}, m.pendingFiles)
	assert.Contains(t, m.View(), "Move 2 file(s)")

	model, cmd := m.Update(runes("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	moved, ok := msg.(SimilarMovedMsg)
	require.True(t, ok)
	require.NoError(t, moved.Err)
	assert.Equal(t, []string{paths[0], paths[3]}, moved.Moved)

	assert.FileExists(t, filepath.Join(root, "TruePos", "a.wav"))
	assert.FileExists(t, filepath.Join(root, "TruePos", "d.wav"))
	assert.NoFileExists(t, paths[0])

	model, _ = model.Update(msg)
	m = model.(SimilarModel)

	// the first group has one clip left and is dropped
	require.Len(t, m.Groups(), 1)
	assert.Equal(t, []string{paths[2], paths[4]}, m.Groups()[0].Files)
	assert.Equal(t, 0, m.currentGroup)
	assert.Equal(t, 1, m.currentFile)
	assert.Contains(t, m.status, "Moved 2 file(s) to TruePos")
}

func TestSimilarModel_MoveCurrentWhenNothingSelected(t *testing.T) {
	m := NewSimilarModel([][]string{{"a.wav", "b.wav"}}, SimilarOptions{Config: config.Default()})

	m = pressSimilar(t, m, runes("j"), runes("f"))
	require.True(t, m.confirming)
	assert.Equal(t, []string{"b.wav"}, m.pendingFiles)
	assert.Equal(t, "FalsePos", m.pendingLabel.Folder)

	m = pressSimilar(t, m, runes("n"))
	assert.False(t, m.confirming)
	assert.Nil(t, m.pendingFiles)
}

func TestSimilarModel_MoveFailureKeepsGroups(t *testing.T) {
	m := NewSimilarModel([][]string{{"a.wav", "b.wav"}}, SimilarOptions{})

	m = pressSimilar(t, m, SimilarMovedMsg{Label: "TruePos", Err: os.ErrNotExist})
	require.Len(t, m.Groups(), 1)
	assert.Contains(t, m.status, os.ErrNotExist.Error())
}

func TestOptimizePaths(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "single path unchanged",
			paths: []string{"a/b/c.wav"},
			want:  []string{"a/b/c.wav"},
		},
		{
			name:  "common prefix keeps one directory",
			paths: []string{filepath.Join("data", "rec", "night1", "x.wav"), filepath.Join("data", "rec", "night2", "y.wav")},
			want:  []string{"..." + sep + filepath.Join("rec", "night1", "x.wav"), "..." + sep + filepath.Join("rec", "night2", "y.wav")},
		},
		{
			name:  "no common prefix",
			paths: []string{filepath.Join("a", "x.wav"), filepath.Join("b", "y.wav")},
			want:  []string{filepath.Join("a", "x.wav"), filepath.Join("b", "y.wav")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, optimizePaths(tt.paths))
		})
	}
}
