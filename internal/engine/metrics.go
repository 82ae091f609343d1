package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors for the engine. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	planSteps     prometheus.Counter
	steps         *prometheus.CounterVec
	events        *prometheus.CounterVec
	anyoneHome    prometheus.Gauge
	peopleCount   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heima",
			Name:      "evaluation_cycles_total",
			Help:      "Evaluation cycles run, by house state.",
		}, []string{"house_state"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heima",
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of one evaluation cycle.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		planSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heima",
			Name:      "apply_plan_steps_total",
			Help:      "Steps emitted by apply plans.",
		}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heima",
			Name:      "apply_steps_executed_total",
			Help:      "Executed steps by domain and outcome.",
		}, []string{"domain", "outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heima",
			Name:      "events_total",
			Help:      "Events emitted, by type.",
		}, []string{"type"}),
		anyoneHome: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heima",
			Name:      "anyone_home",
			Help:      "1 when anyone is home.",
		}),
		peopleCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heima",
			Name:      "people_count",
			Help:      "People currently home, including the anonymous weight.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.cycles, m.cycleDuration, m.planSteps, m.steps, m.events, m.anyoneHome, m.peopleCount)
	}
	return m
}

func (m *Metrics) observeCycle(c Cycle) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(string(c.Snapshot.HouseState)).Inc()
	m.cycleDuration.Observe(c.Duration.Seconds())
	m.planSteps.Add(float64(len(c.Plan.Steps)))
	m.peopleCount.Set(float64(c.Snapshot.PeopleCount))
	if c.Snapshot.AnyoneHome {
		m.anyoneHome.Set(1)
	} else {
		m.anyoneHome.Set(0)
	}
}

func (m *Metrics) observeStep(domain, outcome string) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(domain, outcome).Inc()
}

func (m *Metrics) observeEvent(eventType string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType).Inc()
}
