package gpio

import (
	"encoding/binary"
	"os"
	"testing"
	"time"
	"unsafe"
)

/* The ioctl request numbers encode the size of the kernel structs. The Go
 * mirrors must match them exactly, and the fd fields must sit where the
 * kernel writes them: a plain int would be 8-byte aligned on 64-bit hosts
 * and the returned fd would land in padding. */
func TestRawStructLayouts(t *testing.T) {
	ioctlSize := func(request uintptr) uintptr {
		return (request >> 16) & 0x3FFF
	}

	if size := unsafe.Sizeof(handleRequestRaw{}); size != ioctlSize(gpioGetLinehandleIoctl) {
		t.Errorf("handleRequestRaw is %d bytes, the ioctl expects %d", size, ioctlSize(gpioGetLinehandleIoctl))
	}
	if offset := unsafe.Offsetof(handleRequestRaw{}.Fd); offset != 360 {
		t.Errorf("handleRequestRaw.Fd at offset %d, the kernel writes offset 360", offset)
	}

	if size := unsafe.Sizeof(eventRequestRaw{}); size != ioctlSize(gpioGetLineeventIoctl) {
		t.Errorf("eventRequestRaw is %d bytes, the ioctl expects %d", size, ioctlSize(gpioGetLineeventIoctl))
	}
	if offset := unsafe.Offsetof(eventRequestRaw{}.Fd); offset != 44 {
		t.Errorf("eventRequestRaw.Fd at offset %d, the kernel writes offset 44", offset)
	}
}

func makeEventRecord(timestamp uint64, id uint32) []byte {
	record := make([]byte, gpioeventDataSize)
	binary.LittleEndian.PutUint64(record, timestamp)
	binary.LittleEndian.PutUint32(record[8:], id)
	return record
}

/* newPipeEventLine runs the read loop on a pipe instead of a lineevent fd */
func newPipeEventLine(t *testing.T, depth int) (*EventLine, *os.File) {
	readEnd, writeEnd, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	el := &EventLine{
		file:   readEnd,
		events: make(chan (Event), depth),
	}
	el.closed.CloseFunc = el.file.Close

	go el.readLoop()

	return el, writeEnd
}

func TestEventLineReadAndClose(t *testing.T) {
	el, writeEnd := newPipeEventLine(t, 16)
	defer writeEnd.Close()

	if _, err := writeEnd.Write(makeEventRecord(42, gpioeventEventRisingEdge)); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-el.Events():
		if event.Timestamp != 42 || !event.RisingEdge {
			t.Errorf("Wrong event decoded: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("No event received")
	}

	/* Close must interrupt the pending read, even when no further edge
	 * ever arrives, and the events channel must close */
	if err := el.Close(); err != nil {
		t.Error("Close failed:", err)
	}

	for {
		select {
		case _, ok := <-el.Events():
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("Read loop did not stop after Close")
		}
	}
}

func TestEventLineDropsCounted(t *testing.T) {
	el, writeEnd := newPipeEventLine(t, 2)
	defer writeEnd.Close()
	defer el.Close()

	/* Nobody consumes, so everything beyond the channel depth is dropped */
	for i := 0; i < 8; i++ {
		if _, err := writeEnd.Write(makeEventRecord(uint64(i), gpioeventEventRisingEdge)); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(time.Second)
	for el.Dropped() < 6 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 6 dropped edges, got %d", el.Dropped())
		}
		time.Sleep(time.Millisecond)
	}
}
