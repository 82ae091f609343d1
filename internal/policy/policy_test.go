package policy

import (
	"testing"

	"github.com/nerrad567/heima-core/internal/signal"
)

func TestResolveHouseState_Priority(t *testing.T) {
	tests := []struct {
		name       string
		signals    Signals
		wantState  HouseState
		wantReason Reason
	}{
		{"vacation beats everything", Signals{Vacation: true, Guest: true, SleepWindow: true}, StateVacation, ReasonVacation},
		{"vacation with nobody home", Signals{Vacation: true, Guest: true, AnyoneHome: false}, StateVacation, ReasonVacation},
		{"guest beats away", Signals{Guest: true}, StateGuest, ReasonGuest},
		{"nobody home", Signals{SleepWindow: true, RelaxMode: true, WorkWindow: true}, StateAway, ReasonNoPresence},
		{"sleep beats relax", Signals{AnyoneHome: true, SleepWindow: true, RelaxMode: true}, StateSleeping, ReasonSleep},
		{"relax beats work", Signals{AnyoneHome: true, RelaxMode: true, WorkWindow: true}, StateRelax, ReasonRelax},
		{"work", Signals{AnyoneHome: true, WorkWindow: true}, StateWorking, ReasonWork},
		{"default home", Signals{AnyoneHome: true}, StateHome, ReasonDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, reason := ResolveHouseState(tt.signals)
			if state != tt.wantState || reason != tt.wantReason {
				t.Errorf("ResolveHouseState(%+v) = (%s, %s), want (%s, %s)",
					tt.signals, state, reason, tt.wantState, tt.wantReason)
			}
		})
	}
}

// Every one of the 64 input combinations must resolve to exactly the state
// of the highest-priority true flag.
func TestResolveHouseState_Total(t *testing.T) {
	for mask := 0; mask < 64; mask++ {
		s := Signals{
			Vacation:    mask&1 != 0,
			Guest:       mask&2 != 0,
			AnyoneHome:  mask&4 != 0,
			SleepWindow: mask&8 != 0,
			RelaxMode:   mask&16 != 0,
			WorkWindow:  mask&32 != 0,
		}
		var want HouseState
		switch {
		case s.Vacation:
			want = StateVacation
		case s.Guest:
			want = StateGuest
		case !s.AnyoneHome:
			want = StateAway
		case s.SleepWindow:
			want = StateSleeping
		case s.RelaxMode:
			want = StateRelax
		case s.WorkWindow:
			want = StateWorking
		default:
			want = StateHome
		}
		first, _ := ResolveHouseState(s)
		second, _ := ResolveHouseState(s)
		if first != want || second != first {
			t.Fatalf("mask %06b: got %s then %s, want %s", mask, first, second, want)
		}
	}
}

func TestReadSignals(t *testing.T) {
	states := map[string]string{
		EntityVacationMode: "off",
		EntityGuestMode:    "on",
		EntitySleepWindow:  "unavailable",
		EntityWorkWindow:   "1",
	}
	r := signal.ReaderFunc(func(id string) (string, bool) {
		v, ok := states[id]
		return v, ok
	})

	got := ReadSignals(r, true)
	want := Signals{AnyoneHome: true, Guest: true, WorkWindow: true}
	if got != want {
		t.Errorf("ReadSignals() = %+v, want %+v", got, want)
	}
}
