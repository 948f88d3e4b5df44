package memory

import (
	"sort"
	"sync"
	"time"
)

type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
}

// Manager records every tracked Mat between allocation and release so that
// buffers outliving a run can be reported.
type Manager struct {
	allocations map[uint64]*AllocationRecord
	mu          sync.RWMutex
	stats       Stats
	logger      Logger
}

type AllocationRecord struct {
	Tag       string
	CreatedAt time.Time
	Size      int64
}

type Stats struct {
	TotalAllocated int64
	TotalReleased  int64
	ActiveMats     int64
	PeakMats       int64
	UntrackedFrees int64
}

func NewManager(logger Logger) *Manager {
	return &Manager{
		allocations: make(map[uint64]*AllocationRecord),
		logger:      logger,
	}
}

func (m *Manager) TrackAllocation(id uint64, size int64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.allocations[id] = &AllocationRecord{
		Tag:       tag,
		CreatedAt: time.Now(),
		Size:      size,
	}
	m.stats.TotalAllocated += size
	m.stats.ActiveMats++
	if m.stats.ActiveMats > m.stats.PeakMats {
		m.stats.PeakMats = m.stats.ActiveMats
	}

	if m.logger != nil {
		m.logger.Debug("MemoryManager", "mat allocated", map[string]interface{}{
			"tag":        tag,
			"size_bytes": size,
		})
	}
}

func (m *Manager) TrackDeallocation(id uint64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.allocations[id]
	if !exists {
		m.stats.UntrackedFrees++
		if m.logger != nil {
			m.logger.Warning("MemoryManager", "release of untracked mat", map[string]interface{}{
				"tag": tag,
			})
		}
		return
	}

	delete(m.allocations, id)
	m.stats.TotalReleased += record.Size
	m.stats.ActiveMats--
}

func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.stats
}

// Leaks lists the tags of Mats still alive, oldest first.
func (m *Manager) Leaks() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*AllocationRecord, 0, len(m.allocations))
	for _, record := range m.allocations {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].Tag < records[j].Tag
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	tags := make([]string, len(records))
	for i, record := range records {
		tags[i] = record.Tag
	}
	return tags
}
