package engine

import (
	"github.com/nerrad567/heima-core/internal/policy"
	"github.com/nerrad567/heima-core/internal/space"
)

// TrackedEntityIDs returns every external entity whose change should
// trigger an evaluation.
func (e *Engine) TrackedEntityIDs() map[string]struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return trackedEntities(e.space)
}

func trackedEntities(sp *space.Space) map[string]struct{} {
	ids := make(map[string]struct{})
	add := func(list ...string) {
		for _, id := range list {
			if id != "" {
				ids[id] = struct{}{}
			}
		}
	}

	add(policy.SignalEntities()...)
	for _, p := range sp.People {
		add(p.PersonEntity)
		add(p.Sources...)
	}
	if sp.Anonymous.Enabled {
		add(sp.Anonymous.Sources...)
	}
	for _, r := range sp.Rooms {
		add(r.Sources...)
	}
	if sp.Security.Enabled {
		add(sp.Security.StateEntity)
	}
	return ids
}
