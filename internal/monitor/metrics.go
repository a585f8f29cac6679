package monitor

import (
	"sync"
	"time"
)

// Operation is one recorded unit of work.
type Operation struct {
	Name      string        `json:"name"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Succeeded bool          `json:"succeeded"`
	Error     string        `json:"error,omitempty"`
}

// OperationSummary aggregates the recorded operations for one name.
type OperationSummary struct {
	Count     int           `json:"count"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Total     time.Duration `json:"total"`
	Min       time.Duration `json:"min"`
	Max       time.Duration `json:"max"`
	Avg       time.Duration `json:"avg"`
}

// Metrics records operation timings and outcomes. Safe for use from the
// pipeline goroutine and the sampler; the mutex keeps the recorder usable
// if a host application shares it.
type Metrics struct {
	mu  sync.Mutex
	ops []Operation
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record appends one finished operation.
func (m *Metrics) Record(name string, startedAt time.Time, elapsed time.Duration, succeeded bool, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, Operation{
		Name:      name,
		StartedAt: startedAt,
		Elapsed:   elapsed,
		Succeeded: succeeded,
		Error:     errMsg,
	})
}

// Operations returns a copy of everything recorded so far.
func (m *Metrics) Operations() []Operation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Operation, len(m.ops))
	copy(out, m.ops)
	return out
}

// Summary groups operations by name with count/min/max/avg durations.
func (m *Metrics) Summary() map[string]OperationSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]OperationSummary)
	for _, op := range m.ops {
		s := out[op.Name]
		s.Count++
		if op.Succeeded {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.Total += op.Elapsed
		if s.Count == 1 || op.Elapsed < s.Min {
			s.Min = op.Elapsed
		}
		if op.Elapsed > s.Max {
			s.Max = op.Elapsed
		}
		s.Avg = s.Total / time.Duration(s.Count)
		out[op.Name] = s
	}
	return out
}

// Reset drops all recorded operations.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = nil
}
