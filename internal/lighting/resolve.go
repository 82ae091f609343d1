package lighting

import "github.com/nerrad567/heima-core/internal/policy"

// ResolveAutoIntent maps the house state onto an intent for a zone that is
// following automation. An unoccupied zone is always off.
func ResolveAutoIntent(state policy.HouseState, occupied bool) Intent {
	if !occupied {
		return IntentOff
	}
	switch state {
	case policy.StateSleeping:
		return IntentNight
	case policy.StateRelax:
		return IntentRelax
	case policy.StateHome, policy.StateWorking, policy.StateGuest:
		return IntentEvening
	default:
		// away, vacation and anything unrecognised
		return IntentOff
	}
}

// ResolveZoneIntent turns the requested (select) intent into the final one.
// A manual choice is honoured only while the zone is occupied.
func ResolveZoneIntent(requested string, state policy.HouseState, occupied bool) Intent {
	in := ParseIntent(requested)
	if in == IntentAuto {
		return ResolveAutoIntent(state, occupied)
	}
	if !occupied {
		return IntentOff
	}
	return in
}
