package platform

import (
	"context"

	"github.com/zxqfox/enb/internal/enberr"
)

// BuildTask looks up a registered task by name and runs it bound to this
// platform instance.
func (p *Platform) BuildTask(ctx context.Context, name string, args []string) (any, error) {
	if err := p.requireNotDestructed(); err != nil {
		return nil, err
	}
	entry, ok := p.projectConfig.Task(name)
	if !ok {
		return nil, enberr.Newf(enberr.TaskNotFound, map[string]any{"task": name},
			"no task registered for %s", name)
	}
	return entry.Run(ctx, p, args)
}
