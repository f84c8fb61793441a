// Package gpio provides access to GPIO lines through the Linux gpiochip
// character device. It supports output line handles and edge-triggered
// input events.
package gpio

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	gpioGetChipinfoIoctl         uintptr = 0x8044b401
	gpioGetLineinfoIoctl         uintptr = 0xc048b402
	gpioGetLinehandleIoctl       uintptr = 0xc16cb403
	gpioGetLineeventIoctl        uintptr = 0xc030b404
	gpiohandleGetLineValuesIoctl uintptr = 0xc040b408
	gpiohandleSetLineValuesIoctl uintptr = 0xc040b409
)

// LineFlag describes the kernel state of a line as reported by LineInfo.
type LineFlag uint32

const (
	LineKernel     LineFlag = 0x00000001
	LineIsOut      LineFlag = 0x00000002
	LineActiveLow  LineFlag = 0x00000004
	LineOpenDrain  LineFlag = 0x00000008
	LineOpenSource LineFlag = 0x00000010
)

// RequestFlag configures a line handle or event request.
type RequestFlag uint32

const (
	RequestInput      RequestFlag = 0x00000001
	RequestOutput     RequestFlag = 0x00000002
	RequestActiveLow  RequestFlag = 0x00000004
	RequestOpenDrain  RequestFlag = 0x00000008
	RequestOpenSource RequestFlag = 0x00000010
)

// EventFlag selects which signal edges generate events.
type EventFlag uint32

const (
	EventRisingEdge  EventFlag = 0x00000001
	EventFallingEdge EventFlag = 0x00000002
)

// Chip is an open gpiochip device.
type Chip struct {
	file     *os.File
	chipInfo ChipInfo
}

// ChipInfo describes a gpiochip.
type ChipInfo struct {
	Name  string
	Label string
	Lines uint32
}

// Line identifies one line on a chip, either by offset or by name.
type Line struct {
	Offset uint32
	Name   string
}

// LineInfo describes one line on a chip.
type LineInfo struct {
	LineOffset uint32
	Flags      LineFlag
	Name       string
	Consumer   string
}

// LineRequest pairs a line with the initial value used for outputs.
type LineRequest struct {
	Line         Line
	DefaultValue uint8
}

func ioctlPtr(f *os.File, function uintptr, data unsafe.Pointer) error {
	_, _, errNo := unix.Syscall(unix.SYS_IOCTL, f.Fd(), function, uintptr(data))
	if errNo != 0 {
		return fmt.Errorf("GPIO ioctl failed: %s", errNo.Error())
	}

	return nil
}

func bytesToString(input []byte) string {
	return strings.TrimRight(string(input), "\x00")
}

func stringToBytes(input string, output []byte) {
	n := copy(output, input)
	if n >= len(output) {
		n = len(output) - 1
	}

	/* Null terminate string */
	output[n] = 0
}

// OpenChip opens /dev/gpiochip<chip>.
func OpenChip(chip int) (*Chip, error) {
	g := &Chip{}

	var err error
	g.file, err = os.OpenFile(fmt.Sprintf("/dev/gpiochip%d", chip), syscall.O_RDWR|syscall.O_NOCTTY, 0600)
	if err != nil {
		return nil, err
	}

	type chipInfoRaw struct {
		Name  [32]byte
		Label [32]byte
		Lines uint32
	}
	var ci chipInfoRaw

	if err := ioctlPtr(g.file, gpioGetChipinfoIoctl, unsafe.Pointer(&ci)); err != nil {
		g.file.Close()
		return nil, err
	}

	g.chipInfo = ChipInfo{
		Name:  bytesToString(ci.Name[:]),
		Label: bytesToString(ci.Label[:]),
		Lines: ci.Lines,
	}

	return g, nil
}

func (g *Chip) Close() error {
	return g.file.Close()
}

func (g *Chip) GetChipInfo() ChipInfo {
	return g.chipInfo
}

// GetLineInfo queries the kernel state of one line.
func (g *Chip) GetLineInfo(line uint32) (LineInfo, error) {
	result := LineInfo{
		LineOffset: line,
	}

	if line >= g.chipInfo.Lines {
		return result, errors.New("Line out of range")
	}

	type lineInfoRaw struct {
		LineOffset uint32
		Flags      uint32
		Name       [32]byte
		Consumer   [32]byte
	}

	li := lineInfoRaw{
		LineOffset: line,
	}

	if err := ioctlPtr(g.file, gpioGetLineinfoIoctl, unsafe.Pointer(&li)); err != nil {
		return result, err
	}

	result.Flags = LineFlag(li.Flags)
	result.Name = bytesToString(li.Name[:])
	result.Consumer = bytesToString(li.Consumer[:])

	return result, nil
}

func (g *Chip) resolveLine(line Line) (uint32, error) {
	offset := line.Offset

	if len(line.Name) != 0 {
		found := false

		for i := uint32(0); i < g.chipInfo.Lines; i++ {
			info, err := g.GetLineInfo(i)
			if err != nil {
				return 0, err
			}
			if info.Name == line.Name {
				offset = i
				found = true
				break
			}
		}

		if !found {
			return 0, errors.New("Name not found")
		}
	}

	if offset >= g.chipInfo.Lines {
		return 0, errors.New("Line out of range")
	}

	return offset, nil
}

// OpenLine requests a handle for a single line.
func (g *Chip) OpenLine(label string, flags RequestFlag, line LineRequest) (*Lines, error) {
	return g.OpenLines(label, flags, []LineRequest{line})
}

/* Matches struct gpiohandle_request. The fd field must be 32 bits wide, a
 * Go int would be pushed into padding on 64-bit hosts and the fd written by
 * the kernel would be lost. */
type handleRequestRaw struct {
	LineOffsets   [64]uint32
	Flags         uint32
	DefaultValues [64]uint8
	ConsumerLabel [32]byte
	Lines         uint32
	Fd            int32
}

// OpenLines requests a handle for up to 64 lines at once.
func (g *Chip) OpenLines(label string, flags RequestFlag, lines []LineRequest) (*Lines, error) {
	if len(lines) > 64 || len(lines) == 0 {
		return nil, errors.New("Invalid number of lines")
	}

	req := handleRequestRaw{
		Flags: uint32(flags),
		Lines: uint32(len(lines)),
	}
	stringToBytes(label, req.ConsumerLabel[:])

	for i, l := range lines {
		offset, err := g.resolveLine(l.Line)
		if err != nil {
			return nil, err
		}

		req.LineOffsets[i] = offset
		req.DefaultValues[i] = l.DefaultValue
	}

	if err := ioctlPtr(g.file, gpioGetLinehandleIoctl, unsafe.Pointer(&req)); err != nil {
		return nil, err
	}

	if req.Fd <= 0 {
		return nil, errors.New("Invalid file descriptor returned")
	}

	return &Lines{
		file:     os.NewFile(uintptr(req.Fd), label),
		numLines: req.Lines,
	}, nil
}

// Lines is an open line handle.
type Lines struct {
	file     *os.File
	numLines uint32
}

func (gl *Lines) Close() error {
	return gl.file.Close()
}

type handleDataRaw struct {
	values [64]uint8
}

// SetValues writes all lines of the handle at once.
func (gl *Lines) SetValues(values []bool) error {
	sd := handleDataRaw{}

	for i, b := range values {
		if i >= int(gl.numLines) {
			return errors.New("Line index out of range")
		}

		if b {
			sd.values[i] = 1
		}
	}

	return ioctlPtr(gl.file, gpiohandleSetLineValuesIoctl, unsafe.Pointer(&sd))
}

// GetValues reads all lines of the handle at once.
func (gl *Lines) GetValues() ([]bool, error) {
	gd := handleDataRaw{}

	if err := ioctlPtr(gl.file, gpiohandleGetLineValuesIoctl, unsafe.Pointer(&gd)); err != nil {
		return nil, err
	}

	output := make([]bool, gl.numLines)
	for i := uint32(0); i < gl.numLines; i++ {
		output[i] = gd.values[i] > 0
	}

	return output, nil
}

func (gl *Lines) SetValue(value bool) error {
	return gl.SetValues([]bool{value})
}

func (gl *Lines) GetValue() (bool, error) {
	output, err := gl.GetValues()
	if output == nil || err != nil {
		return false, err
	}

	return output[0], err
}
