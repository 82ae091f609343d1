package signal

import "testing"

func TestIsActive(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"on", true},
		{"ON", true},
		{"home", true},
		{"open", true},
		{"occupied", true},
		{"Detected", true},
		{"true", true},
		{"1", true},
		{"2.5", true},
		{"off", false},
		{"not_home", false},
		{"0", false},
		{"-3", false},
		{"", false},
		{"unavailable", false},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			if got := IsActive(tt.state); got != tt.want {
				t.Errorf("IsActive(%q) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestActive_MissingEntity(t *testing.T) {
	r := ReaderFunc(func(id string) (string, bool) {
		if id == "binary_sensor.present" {
			return "on", true
		}
		return "", false
	})

	if !Active(r, "binary_sensor.present") {
		t.Error("present entity should be active")
	}
	if Active(r, "binary_sensor.gone") {
		t.Error("missing entity should be inactive")
	}
	if Active(r, "") {
		t.Error("empty entity id should be inactive")
	}
	if !AnyActive(r, "binary_sensor.gone", "binary_sensor.present") {
		t.Error("AnyActive should find the present entity")
	}
	if got := CountActive(r, []string{"binary_sensor.present", "binary_sensor.gone", "binary_sensor.present"}); got != 2 {
		t.Errorf("CountActive = %d, want 2", got)
	}
}
