package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildTask(t *testing.T) {
	pc := newFakeProjectConfig()
	p := &Platform{projectConfig: pc}

	pc.SetTask(TaskEntry{
		Name: "greet",
		Run: func(ctx context.Context, plat *Platform, args []string) (any, error) {
			return "hello " + args[0], nil
		},
	})

	t.Run("Should run a registered task with its args", func(t *testing.T) {
		result, err := p.BuildTask(context.Background(), "greet", []string{"world"})
		require.NoError(t, err)
		assert.Equal(t, "hello world", result)
	})

	t.Run("Should error for an unregistered task", func(t *testing.T) {
		_, err := p.BuildTask(context.Background(), "missing", nil)
		assert.Error(t, err)
	})

	t.Run("Should error once destructed", func(t *testing.T) {
		p.destructed = true
		_, err := p.BuildTask(context.Background(), "greet", []string{"world"})
		assert.Error(t, err)
	})
}
