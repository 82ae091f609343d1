// Package policy resolves the house state from presence and mode signals.
package policy

import "github.com/nerrad567/heima-core/internal/signal"

// HouseState is the canonical label for the whole home.
type HouseState string

// House states.
const (
	StateUnknown  HouseState = "unknown"
	StateVacation HouseState = "vacation"
	StateGuest    HouseState = "guest"
	StateAway     HouseState = "away"
	StateSleeping HouseState = "sleeping"
	StateRelax    HouseState = "relax"
	StateWorking  HouseState = "working"
	StateHome     HouseState = "home"
)

// Reason explains which rule produced a house state.
type Reason string

// Reasons, one per rule.
const (
	ReasonVacation   Reason = "vacation_mode"
	ReasonGuest      Reason = "guest_mode"
	ReasonNoPresence Reason = "no_presence"
	ReasonSleep      Reason = "sleep_window"
	ReasonRelax      Reason = "relax_mode"
	ReasonWork       Reason = "work_window"
	ReasonDefault    Reason = "default"
)

// Mode signal entities.
const (
	EntityVacationMode = "input_boolean.vacation_mode"
	EntityGuestMode    = "input_boolean.guest_mode"
	EntitySleepWindow  = "binary_sensor.sleep_window"
	EntityRelaxMode    = "binary_sensor.relax_mode"
	EntityWorkWindow   = "binary_sensor.work_window"
)

// SignalEntities returns the fixed mode-signal entity ids.
func SignalEntities() []string {
	return []string{
		EntityVacationMode,
		EntityGuestMode,
		EntitySleepWindow,
		EntityRelaxMode,
		EntityWorkWindow,
	}
}

// Signals are the boolean inputs of ResolveHouseState.
type Signals struct {
	AnyoneHome  bool `json:"anyone_home"`
	Vacation    bool `json:"vacation_mode"`
	Guest       bool `json:"guest_mode"`
	SleepWindow bool `json:"sleep_window"`
	RelaxMode   bool `json:"relax_mode"`
	WorkWindow  bool `json:"work_window"`
}

// ReadSignals classifies the mode entities through r.
func ReadSignals(r signal.Reader, anyoneHome bool) Signals {
	return Signals{
		AnyoneHome:  anyoneHome,
		Vacation:    signal.Active(r, EntityVacationMode),
		Guest:       signal.Active(r, EntityGuestMode),
		SleepWindow: signal.Active(r, EntitySleepWindow),
		RelaxMode:   signal.Active(r, EntityRelaxMode),
		WorkWindow:  signal.Active(r, EntityWorkWindow),
	}
}

// ResolveHouseState applies the fixed priority order; the first rule that
// matches wins. The order must not change.
func ResolveHouseState(s Signals) (HouseState, Reason) {
	switch {
	case s.Vacation:
		return StateVacation, ReasonVacation
	case s.Guest:
		return StateGuest, ReasonGuest
	case !s.AnyoneHome:
		return StateAway, ReasonNoPresence
	case s.SleepWindow:
		return StateSleeping, ReasonSleep
	case s.RelaxMode:
		return StateRelax, ReasonRelax
	case s.WorkWindow:
		return StateWorking, ReasonWork
	default:
		return StateHome, ReasonDefault
	}
}
