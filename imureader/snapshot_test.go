package imureader

import (
	"sync"
	"testing"

	"github.com/BertoldVdb/go-imu/adis16490"
)

func TestLatestSlotEmpty(t *testing.T) {
	var slot latestSlot

	if _, ok := slot.load(); ok {
		t.Error("Empty slot reported a snapshot")
	}
}

func TestLatestSlotOverwrite(t *testing.T) {
	var slot latestSlot

	for i := int16(1); i <= 3; i++ {
		slot.store(adis16490.BurstResult{0, 0, i})
	}

	snapshot, ok := slot.load()
	if !ok {
		t.Fatal("Slot reported no snapshot")
	}

	if snapshot.Seq != 3 {
		t.Errorf("Wrong sequence number: %d", snapshot.Seq)
	}
	if snapshot.Raw[adis16490.BurstXGyro] != 3 {
		t.Error("Consumer did not see the newest snapshot")
	}
}

func TestLatestSlotConcurrent(t *testing.T) {
	var slot latestSlot
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := int16(0); i < 1000; i++ {
			slot.store(adis16490.BurstResult{i, 0, 0, 0, 0, 0, 0, 0, i})
		}
	}()

	var lastSeq uint64
	for i := 0; i < 1000; i++ {
		snapshot, ok := slot.load()
		if !ok {
			continue
		}

		/* Sequence numbers only move forward, and each snapshot is
		 * internally consistent */
		if snapshot.Seq < lastSeq {
			t.Error("Sequence number went backwards")
		}
		lastSeq = snapshot.Seq

		if snapshot.Raw[0] != snapshot.Raw[8] {
			t.Error("Torn snapshot observed")
		}
	}

	wg.Wait()
}
