package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportModelRunsFunction(t *testing.T) {
	boom := errors.New("boom")
	m := newExportModel(context.Background(), "Exporting", func(ctx context.Context) error {
		return boom
	})

	msg := m.runCmd()()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, done.err, boom)

	_, cmd := m.Update(done)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.done)
	assert.ErrorIs(t, m.err, boom)
	assert.Empty(t, m.View())
}

func TestExportModelCtrlCCancels(t *testing.T) {
	var seen context.Context
	m := newExportModel(context.Background(), "Exporting", func(ctx context.Context) error {
		seen = ctx
		return ctx.Err()
	})

	assert.Contains(t, m.View(), "Exporting")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.True(t, m.canceled)
	assert.Contains(t, m.View(), "Cancelling")

	done := m.runCmd()().(exportDoneMsg)
	assert.ErrorIs(t, done.err, context.Canceled)
	assert.ErrorIs(t, seen.Err(), context.Canceled)
}
