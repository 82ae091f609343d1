package lighting

// Intent is the desired lighting condition of a zone.
type Intent string

// Lighting intents, in select-option order.
const (
	IntentAuto    Intent = "auto"
	IntentOff     Intent = "off"
	IntentEvening Intent = "scene_evening"
	IntentRelax   Intent = "scene_relax"
	IntentNight   Intent = "scene_night"
)

var intents = []Intent{IntentAuto, IntentOff, IntentEvening, IntentRelax, IntentNight}

// Options returns the selectable intents as strings, auto first.
func Options() []string {
	out := make([]string, len(intents))
	for i, in := range intents {
		out[i] = string(in)
	}
	return out
}

// ParseIntent coerces s into a known intent; anything unrecognised is auto.
func ParseIntent(s string) Intent {
	for _, in := range intents {
		if string(in) == s {
			return in
		}
	}
	return IntentAuto
}

// Valid reports whether s names a known intent.
func Valid(s string) bool {
	for _, in := range intents {
		if string(in) == s {
			return true
		}
	}
	return false
}
