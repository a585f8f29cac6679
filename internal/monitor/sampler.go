package monitor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	defaultInterval = time.Second
	defaultRingSize = 1000
)

// Sample is one system reading.
type Sample struct {
	Timestamp  time.Time `json:"timestamp"`
	CPUPercent float64   `json:"cpu_percent"`
	MemPercent float64   `json:"mem_percent"`
}

// SystemSummary aggregates the retained samples.
type SystemSummary struct {
	Samples    int     `json:"samples"`
	CPUCurrent float64 `json:"cpu_current"`
	CPUAvg     float64 `json:"cpu_avg"`
	CPUMax     float64 `json:"cpu_max"`
	MemCurrent float64 `json:"mem_current"`
	MemAvg     float64 `json:"mem_avg"`
	MemMax     float64 `json:"mem_max"`
}

// Sampler polls system CPU and memory usage on its own goroutine at a fixed
// interval, retaining only the most recent ringSize readings. It never
// blocks the processing pipeline; readings are best-effort.
type Sampler struct {
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	ring    []Sample
	next    int
	count   int
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewSampler(interval time.Duration, ringSize int, logger *slog.Logger) *Sampler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if ringSize <= 0 {
		ringSize = defaultRingSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		interval: interval,
		logger:   logger,
		ring:     make([]Sample, ringSize),
	}
}

// Start launches the sampling goroutine. Calling Start on a running sampler
// is a no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.loop()
	s.logger.Info("monitor.sampler.started", "interval", s.interval.String())
}

// Stop halts the sampling goroutine and waits for it to exit.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("monitor.sampler.stopped")
}

func (s *Sampler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sampleOnce()
		}
	}
}

func (s *Sampler) sampleOnce() {
	sample := Sample{Timestamp: time.Now()}

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		sample.CPUPercent = pcts[0]
	} else if err != nil {
		s.logger.Warn("monitor.sampler.cpu_error", "error", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		sample.MemPercent = vm.UsedPercent
	} else {
		s.logger.Warn("monitor.sampler.mem_error", "error", err)
	}

	s.Record(sample)
}

// Record inserts one sample into the ring, displacing the oldest when full.
// Exported so tests and host applications can feed readings directly.
func (s *Sampler) Record(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.next] = sample
	s.next = (s.next + 1) % len(s.ring)
	if s.count < len(s.ring) {
		s.count++
	}
}

// Samples returns the retained readings in chronological order.
func (s *Sampler) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Sample, 0, s.count)
	start := s.next - s.count
	if start < 0 {
		start += len(s.ring)
	}
	for i := 0; i < s.count; i++ {
		out = append(out, s.ring[(start+i)%len(s.ring)])
	}
	return out
}

// Summary aggregates the retained samples.
func (s *Sampler) Summary() SystemSummary {
	samples := s.Samples()
	sum := SystemSummary{Samples: len(samples)}
	if len(samples) == 0 {
		return sum
	}

	var cpuTotal, memTotal float64
	for _, sm := range samples {
		cpuTotal += sm.CPUPercent
		memTotal += sm.MemPercent
		if sm.CPUPercent > sum.CPUMax {
			sum.CPUMax = sm.CPUPercent
		}
		if sm.MemPercent > sum.MemMax {
			sum.MemMax = sm.MemPercent
		}
	}
	last := samples[len(samples)-1]
	sum.CPUCurrent = last.CPUPercent
	sum.MemCurrent = last.MemPercent
	sum.CPUAvg = cpuTotal / float64(len(samples))
	sum.MemAvg = memTotal / float64(len(samples))
	return sum
}
