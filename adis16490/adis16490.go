// Package adis16490 implements the paged register protocol of the Analog
// Devices ADIS16490 inertial measurement unit. With adjusted timing and
// register constants it works for the whole ADIS1649x family.
//
// The device exposes a 16 bit register space as pages of 256 byte-addressed
// locations. Every access first has to select the page by writing the PAGE_ID
// register, the driver caches the selected page so consecutive accesses to
// the same page cost no extra frames. Reads are pipelined: the device returns
// the data for a request in the *next* chip-select frame, so a single
// register read takes two frames and a burst of N registers takes N+1.
package adis16490

import (
	"errors"
	"sync"
	"time"
)

// Link is one SPI connection to the device. Transfer performs a single
// chip-select framed full-duplex exchange, writeBuf and readBuf have the
// same length. The ADIS1649x protocol has no error channel of its own, any
// returned error is a host-side link failure.
type Link interface {
	Transfer(writeBuf []byte, readBuf []byte) error
}

// ResetLine drives the active-low hardware reset input of the device.
// gpio.Lines implements it.
type ResetLine interface {
	SetValue(value bool) error
}

// Timing contains the device-family timing parameters.
type Timing struct {
	/* Minimum idle time between chip-select frames */
	Stall time.Duration

	/* Idle time between frames of a burst read */
	BurstStall time.Duration

	/* Time the reset line is held low */
	ResetPulse time.Duration
}

// DefaultTiming matches the ADIS16490 datasheet.
var DefaultTiming = Timing{
	Stall:      5 * time.Microsecond,
	BurstStall: 10 * time.Microsecond,
	ResetPulse: 500 * time.Microsecond,
}

// DeviceOptions configures optional Device features.
type DeviceOptions struct {
	/* Timing overrides DefaultTiming when non-zero */
	Timing Timing

	/* Reset, when set, enables the Reset method */
	Reset ResetLine
}

/* Bit 7 of the in-page address marks a write frame */
const writeFlag = 0x80

var (
	ErrNoResetLine  = errors.New("No reset line was configured")
	ErrVerifyFailed = errors.New("Readback value does not match written value")
	ErrWrongProduct = errors.New("PROD_ID register does not match a supported device")
)

// Device is a handle to one ADIS1649x. All register operations hold an
// internal mutex for their full frame sequence, so concurrent callers are
// serialized per logical operation and never interleave frames.
type Device struct {
	mutex sync.Mutex

	link   Link
	reset  ResetLine
	timing Timing

	/* Page currently selected in the device, 0 after power up */
	currentPage uint8
}

// New creates a Device on the given link. The link must already be
// configured for the device (SPI mode 3, MSB first, at most 15 MHz, 2 MHz
// when burst reads are used). options may be nil.
func New(link Link, options *DeviceOptions) *Device {
	d := &Device{
		link:   link,
		timing: DefaultTiming,
	}

	if options != nil {
		if options.Timing != (Timing{}) {
			d.timing = options.Timing
		}
		d.reset = options.Reset
	}

	return d
}

// exchange performs one 16 bit frame and returns the two bytes clocked in.
func (d *Device) exchange(tx0 byte, tx1 byte) (byte, byte, error) {
	writeBuf := [2]byte{tx0, tx1}
	var readBuf [2]byte

	err := d.link.Transfer(writeBuf[:], readBuf[:])

	return readBuf[0], readBuf[1], err
}

// selectPage makes the device switch to the given page unless it is already
// selected. The stall is only inserted when a frame was issued.
func (d *Device) selectPage(page uint8, stall time.Duration) error {
	if d.currentPage == page {
		return nil
	}

	if _, _, err := d.exchange(writeFlag|uint8(RegPageID), page); err != nil {
		return err
	}

	d.currentPage = page
	time.Sleep(stall)

	return nil
}

// RegRead reads one 16 bit register. It needs two frames: the first latches
// the target address, the second clocks the data out.
func (d *Device) RegRead(regAddr uint16) (int16, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.regRead(regAddr)
}

func (d *Device) regRead(regAddr uint16) (int16, error) {
	page := uint8(regAddr >> 8)
	address := uint8(regAddr)

	if err := d.selectPage(page, d.timing.Stall); err != nil {
		return 0, err
	}

	/* Latch the target address. The bytes clocked in here belong to
	 * whatever was requested in the previous frame and are discarded. */
	if _, _, err := d.exchange(address, 0x00); err != nil {
		return 0, err
	}
	time.Sleep(d.timing.Stall)

	high, low, err := d.exchange(0x00, 0x00)
	if err != nil {
		return 0, err
	}
	time.Sleep(d.timing.Stall)

	return int16(uint16(high)<<8 | uint16(low)), nil
}

// RegWrite writes one 16 bit register as two byte-wide frames, low half
// first. The device offers no acknowledgment, a nil return only means the
// link accepted both frames. Use RegWriteVerify when confirmation matters.
func (d *Device) RegWrite(regAddr uint16, regData int16) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.regWrite(regAddr, regData)
}

func (d *Device) regWrite(regAddr uint16, regData int16) error {
	page := uint8(regAddr >> 8)
	address := uint8(regAddr)

	if err := d.selectPage(page, d.timing.Stall); err != nil {
		return err
	}

	/* Each 16 bit register is two byte-addressed half-words */
	if _, _, err := d.exchange(writeFlag|(address&0x7F), byte(regData)); err != nil {
		return err
	}
	time.Sleep(d.timing.Stall)

	if _, _, err := d.exchange(writeFlag|((address+1)&0x7F), byte(uint16(regData)>>8)); err != nil {
		return err
	}
	time.Sleep(d.timing.Stall)

	return nil
}

// RegWriteVerify writes a register and reads it back. It returns
// ErrVerifyFailed when the readback differs. Not all registers read back
// what was written (command and flash registers), use plain RegWrite there.
func (d *Device) RegWriteVerify(regAddr uint16, regData int16) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.regWrite(regAddr, regData); err != nil {
		return err
	}

	readback, err := d.regRead(regAddr)
	if err != nil {
		return err
	}

	if readback != regData {
		return ErrVerifyFailed
	}

	return nil
}

// ProbeProductID reads the PROD_ID register and returns its raw value. It
// returns ErrWrongProduct when the value is not the ADIS16490 id, which
// usually means a wiring or mode problem since the protocol itself cannot
// report errors.
func (d *Device) ProbeProductID() (uint16, error) {
	value, err := d.RegRead(RegProdID)
	if err != nil {
		return 0, err
	}

	if uint16(value) != ProductID {
		return uint16(value), ErrWrongProduct
	}

	return uint16(value), nil
}

// Reset pulses the hardware reset line and waits for the device to boot.
// settle should be at least 250 ms for a cold device. The page cache is
// reset since the device powers up on page 0.
func (d *Device) Reset(settle time.Duration) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.reset == nil {
		return ErrNoResetLine
	}

	if err := d.reset.SetValue(false); err != nil {
		return err
	}
	time.Sleep(d.timing.ResetPulse)

	if err := d.reset.SetValue(true); err != nil {
		return err
	}
	time.Sleep(settle)

	d.currentPage = 0

	return nil
}
