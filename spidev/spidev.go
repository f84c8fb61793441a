// Package spidev provides access to SPI controllers through the Linux
// spidev character device. Every Transfer call is one chip-select framed
// full-duplex exchange.
package spidev

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mode selects the SPI clock polarity and phase.
type Mode uint8

const (
	Mode0 Mode = 0 /* Clock idle low, sample on rising edge */
	Mode1 Mode = 1 /* Clock idle low, sample on falling edge */
	Mode2 Mode = 2 /* Clock idle high, sample on falling edge */
	Mode3 Mode = 3 /* Clock idle high, sample on rising edge */
)

const (
	spiIocWrMode        uintptr = 0x40016B01
	spiIocWrLSBFirst    uintptr = 0x40016B02
	spiIocWrBitsPerWord uintptr = 0x40016B03
	spiIocWrMaxSpeedHz  uintptr = 0x40046B04
)

// spiIocMessage computes the SPI_IOC_MESSAGE(n) request number. The size
// field encodes n transfer structs of 32 bytes each.
func spiIocMessage(numTransfers int) uintptr {
	const base uint32 = 0x40006B00

	return uintptr(base + uint32(numTransfers)*0x200000)
}

// Device represents an open spidev node. The public fields are applied on
// the next Transfer call.
type Device struct {
	mutex sync.Mutex
	file  *os.File

	/* Clock rate used for transfers, in Hz */
	SpeedHz uint32

	/* Extra delay after the last bit of each transfer, before chip-select
	 * is released. Most devices need none. */
	DelayUs uint16
}

// Open opens /dev/spidev<busID>.<deviceID>.
func Open(busID int, deviceID int) (*Device, error) {
	d := &Device{
		SpeedHz: 1000000,
	}

	var err error
	d.file, err = os.OpenFile(fmt.Sprintf("/dev/spidev%d.%d", busID, deviceID), syscall.O_RDWR|syscall.O_NOCTTY, 0600)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Device) ioctl(request uintptr, data unsafe.Pointer) error {
	_, _, errNo := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), request, uintptr(data))
	if errNo != 0 {
		return fmt.Errorf("SPI ioctl failed: %s", errNo.Error())
	}

	return nil
}

// Configure sets the transfer mode, word size and default clock rate of the
// device. It needs to be called once before the first Transfer when the
// target does not work with the controller's power-on defaults.
func (d *Device) Configure(mode Mode, bitsPerWord uint8, speedHz uint32) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	m := uint8(mode)
	if err := d.ioctl(spiIocWrMode, unsafe.Pointer(&m)); err != nil {
		return err
	}

	/* MSB-first is the kernel default, set it explicitly anyway */
	lsbFirst := uint8(0)
	if err := d.ioctl(spiIocWrLSBFirst, unsafe.Pointer(&lsbFirst)); err != nil {
		return err
	}

	if err := d.ioctl(spiIocWrBitsPerWord, unsafe.Pointer(&bitsPerWord)); err != nil {
		return err
	}

	if err := d.ioctl(spiIocWrMaxSpeedHz, unsafe.Pointer(&speedHz)); err != nil {
		return err
	}

	d.SpeedHz = speedHz

	return nil
}

type iocTransferRaw struct {
	TxBuf       uint64
	RxBuf       uint64
	Len         uint32
	SpeedHz     uint32
	DelayUs     uint16
	BitsPerWord uint8
	CsChange    uint8
	Pad         uint32
}

// Transfer performs one full-duplex exchange. Chip-select is asserted by the
// kernel for the duration of the exchange and released afterwards. One of
// the buffers may be nil for a half-duplex transfer, otherwise both must
// have the same length.
func (d *Device) Transfer(writeBuf []byte, readBuf []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	tr := iocTransferRaw{
		SpeedHz:     d.SpeedHz,
		DelayUs:     d.DelayUs,
		BitsPerWord: 8,
	}

	if writeBuf != nil {
		tr.TxBuf = uint64(uintptr(unsafe.Pointer(&writeBuf[0])))
		tr.Len = uint32(len(writeBuf))
	}
	if readBuf != nil {
		tr.RxBuf = uint64(uintptr(unsafe.Pointer(&readBuf[0])))
		tr.Len = uint32(len(readBuf))
	}

	if tr.TxBuf == 0 && tr.RxBuf == 0 {
		return nil
	}
	if tr.TxBuf != 0 && tr.RxBuf != 0 && len(readBuf) != len(writeBuf) {
		return errors.New("Buffer length does not match")
	}

	err := d.ioctl(spiIocMessage(1), unsafe.Pointer(&tr))

	runtime.KeepAlive(writeBuf)
	runtime.KeepAlive(readBuf)

	return err
}

// Close releases the device node.
func (d *Device) Close() error {
	return d.file.Close()
}
