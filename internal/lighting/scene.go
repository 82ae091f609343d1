package lighting

import "github.com/nerrad567/heima-core/internal/space"

// SceneMap holds a room's scene entity per intent. Empty means unbound.
type SceneMap struct {
	Evening string `json:"scene_evening,omitempty"`
	Relax   string `json:"scene_relax,omitempty"`
	Night   string `json:"scene_night,omitempty"`
	Off     string `json:"scene_off,omitempty"`
}

// SceneMapFor extracts the bindings of a configured lighting room.
func SceneMapFor(r space.LightingRoom) SceneMap {
	return SceneMap{
		Evening: r.SceneEvening,
		Relax:   r.SceneRelax,
		Night:   r.SceneNight,
		Off:     r.SceneOff,
	}
}

// fallbacks lists, per intent, the bindings tried in order.
var fallbacks = map[Intent][]Intent{
	IntentRelax:   {IntentRelax, IntentEvening},
	IntentEvening: {IntentEvening, IntentRelax},
	IntentNight:   {IntentNight, IntentEvening, IntentOff},
	IntentOff:     {IntentOff},
}

// PickSceneForIntent resolves intent to a scene entity, following the
// fallback chain when the direct binding is missing.
func PickSceneForIntent(m SceneMap, intent Intent) (string, bool) {
	for _, in := range fallbacks[intent] {
		if scene := m.binding(in); scene != "" {
			return scene, true
		}
	}
	return "", false
}

func (m SceneMap) binding(in Intent) string {
	switch in {
	case IntentEvening:
		return m.Evening
	case IntentRelax:
		return m.Relax
	case IntentNight:
		return m.Night
	case IntentOff:
		return m.Off
	}
	return ""
}
