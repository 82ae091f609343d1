// Package telemetry records engine decisions as time-series points.
package telemetry

import (
	"context"
	"time"

	"github.com/nerrad567/heima-core/internal/engine"
)

// Measurements written per cycle and event.
const (
	MeasurementDecision = "heima_decision"
	MeasurementRoom     = "heima_room"
	MeasurementEvent    = "heima_event"
)

// PointWriter accepts points. *influxdb.Client satisfies it.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time)
}

// Recorder is an engine.Observer writing one decision point per cycle,
// one room point per occupied room and one point per event.
type Recorder struct {
	writer PointWriter
	site   string
}

// NewRecorder creates a recorder tagging every point with site.
func NewRecorder(writer PointWriter, site string) *Recorder {
	return &Recorder{writer: writer, site: site}
}

// OnCycle implements engine.Observer.
func (r *Recorder) OnCycle(_ context.Context, c engine.Cycle) {
	s := c.Snapshot
	r.writer.WritePointWithTime(MeasurementDecision,
		map[string]string{
			"site":        r.site,
			"house_state": string(s.HouseState),
			"reason":      string(s.HouseStateReason),
		},
		map[string]any{
			"anyone_home":    s.AnyoneHome,
			"people_count":   s.PeopleCount,
			"occupied_rooms": len(s.OccupiedRooms),
			"plan_steps":     len(c.Plan.Steps),
			"applied_steps":  len(c.Report.Applied),
			"failed_steps":   c.Report.Failed,
			"duration_ms":    float64(c.Duration) / float64(time.Millisecond),
		},
		s.Timestamp,
	)

	for _, room := range s.OccupiedRooms {
		r.writer.WritePointWithTime(MeasurementRoom,
			map[string]string{"site": r.site, "room": room},
			map[string]any{"occupied": true},
			s.Timestamp,
		)
	}
}

// OnEvent implements engine.Observer.
func (r *Recorder) OnEvent(_ context.Context, ev engine.Event) {
	r.writer.WritePointWithTime(MeasurementEvent,
		map[string]string{"site": r.site, "type": ev.Type, "severity": ev.Severity},
		map[string]any{"count": 1, "key": ev.Key},
		ev.TS,
	)
}
