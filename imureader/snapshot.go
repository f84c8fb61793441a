package imureader

import (
	"sync"
	"time"

	"github.com/BertoldVdb/go-imu/adis16490"
)

// Snapshot is one completed burst read. It is an immutable value, the
// acquisition loop publishes a new one after every data-ready edge.
type Snapshot struct {
	/* Counts published snapshots, starting at 1 */
	Seq uint64

	/* Host time the burst completed */
	Time time.Time

	Raw adis16490.BurstResult
}

// latestSlot hands the most recent snapshot from the acquisition loop to
// the printer. The producer overwrites, the consumer always sees the newest
// complete snapshot and can detect a stale one by its sequence number.
type latestSlot struct {
	mutex    sync.Mutex
	valid    bool
	snapshot Snapshot
}

func (s *latestSlot) store(raw adis16490.BurstResult) {
	s.mutex.Lock()

	s.snapshot = Snapshot{
		Seq:  s.snapshot.Seq + 1,
		Time: time.Now(),
		Raw:  raw,
	}
	s.valid = true

	s.mutex.Unlock()
}

func (s *latestSlot) load() (Snapshot, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.snapshot, s.valid
}
