package gpio

import (
	"encoding/binary"
	"errors"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/BertoldVdb/go-misc/closeflag"
	"golang.org/x/sys/unix"
)

// Event is one edge detected on a watched line.
type Event struct {
	/* Kernel timestamp of the edge, in nanoseconds */
	Timestamp uint64

	RisingEdge bool
}

const (
	gpioeventEventRisingEdge  uint32 = 0x01
	gpioeventEventFallingEdge uint32 = 0x02

	/* sizeof(struct gpioevent_data): u64 timestamp + u32 id, padded */
	gpioeventDataSize = 16
)

// EventLine is a line requested for edge events. Events are delivered on the
// channel returned by Events until the line is closed.
type EventLine struct {
	/* Edges discarded because the channel was full, read atomically */
	dropped uint32

	file   *os.File
	events chan (Event)
	closed closeflag.CloseFlag
}

/* Matches struct gpioevent_request, the same 32 bit fd rule as
 * handleRequestRaw applies */
type eventRequestRaw struct {
	LineOffset    uint32
	HandleFlags   uint32
	EventFlags    uint32
	ConsumerLabel [32]byte
	Fd            int32
}

// WatchLine requests edge events for a single input line. The eventFlags
// select the edges of interest.
func (g *Chip) WatchLine(label string, requestFlags RequestFlag, eventFlags EventFlag, line Line) (*EventLine, error) {
	offset, err := g.resolveLine(line)
	if err != nil {
		return nil, err
	}

	req := eventRequestRaw{
		LineOffset:  offset,
		HandleFlags: uint32(requestFlags | RequestInput),
		EventFlags:  uint32(eventFlags),
	}
	stringToBytes(label, req.ConsumerLabel[:])

	if err := ioctlPtr(g.file, gpioGetLineeventIoctl, unsafe.Pointer(&req)); err != nil {
		return nil, err
	}

	if req.Fd <= 0 {
		return nil, errors.New("Invalid file descriptor returned")
	}

	/* The kernel hands the fd out in blocking mode. Make it non-blocking
	 * before wrapping it, so the runtime poller manages it and Close can
	 * interrupt a pending read. */
	if err := unix.SetNonblock(int(req.Fd), true); err != nil {
		unix.Close(int(req.Fd))
		return nil, err
	}

	el := &EventLine{
		file:   os.NewFile(uintptr(req.Fd), label),
		events: make(chan (Event), 16),
	}
	el.closed.CloseFunc = el.file.Close

	go el.readLoop()

	return el, nil
}

func decodeEvent(record []byte) Event {
	return Event{
		Timestamp:  binary.LittleEndian.Uint64(record),
		RisingEdge: binary.LittleEndian.Uint32(record[8:])&gpioeventEventRisingEdge != 0,
	}
}

func (el *EventLine) readLoop() {
	defer close(el.events)

	buf := make([]byte, 16*gpioeventDataSize)

	for {
		n, err := el.file.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+gpioeventDataSize <= n; i += gpioeventDataSize {
			select {
			case el.events <- decodeEvent(buf[i : i+gpioeventDataSize]):
			default:
				/* Consumer is not keeping up, drop the edge */
				atomic.AddUint32(&el.dropped, 1)
			}
		}
	}
}

// Events returns the channel edges are delivered on. It is closed when the
// line is closed.
func (el *EventLine) Events() <-chan (Event) {
	return el.events
}

// Dropped returns how many edges were discarded because the consumer did
// not keep up with the Events channel.
func (el *EventLine) Dropped() uint32 {
	return atomic.LoadUint32(&el.dropped)
}

// Close releases the line. It can safely be called multiple times.
func (el *EventLine) Close() error {
	return el.closed.Close()
}
