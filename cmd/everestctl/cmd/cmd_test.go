package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/cli/watch"
)

func TestFormatTransition(t *testing.T) {
	tests := []struct {
		in   watch.Transition
		want string
	}{
		{watch.Transition{Name: "db1", To: models.AppStateInit}, "db1: initializing"},
		{watch.Transition{Name: "db1", From: models.AppStateInit, To: models.AppStateReady}, "db1: initializing -> ready"},
		{watch.Transition{Name: "db1", From: models.AppStateDeleting}, "db1: removed"},
		{watch.Transition{Name: "db1"}, "db1: created"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTransition(tt.in))
	}
}

func TestInitLogger(t *testing.T) {
	l, err := initLogger(false, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	l, err = initLogger(true, false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = initLogger(false, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

func TestCommandTree(t *testing.T) {
	want := map[string][]string{
		"namespaces": {"add", "remove", "update"},
		"accounts":   {"create", "delete", "initial-admin-password", "list", "set-password"},
	}
	for parent, children := range want {
		c, _, err := rootCmd.Find([]string{parent})
		require.NoError(t, err)
		var got []string
		for _, sub := range c.Commands() {
			got = append(got, sub.Name())
		}
		assert.ElementsMatch(t, children, got, parent)
	}
	for _, name := range []string{"version", "status", "uninstall", "watch"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}
}
