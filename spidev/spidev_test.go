package spidev

import (
	"os"
	"testing"
)

func TestIocMessage(t *testing.T) {
	/* Known kernel values for SPI_IOC_MESSAGE(n) */
	if spiIocMessage(1) != 0x40206B00 {
		t.Errorf("SPI_IOC_MESSAGE(1) wrong: 0x%X", spiIocMessage(1))
	}
	if spiIocMessage(2) != 0x40406B00 {
		t.Errorf("SPI_IOC_MESSAGE(2) wrong: 0x%X", spiIocMessage(2))
	}
}

func TestTransferLengthMismatch(t *testing.T) {
	if _, err := os.Stat("/dev/spidev0.0"); err != nil {
		t.Skip("No spidev available")
	}

	d, err := Open(0, 0)
	if err != nil {
		t.Skip("Cannot open spidev (permissions?):", err)
	}
	defer d.Close()

	if err := d.Transfer(make([]byte, 2), make([]byte, 3)); err == nil {
		t.Error("Mismatched buffer lengths accepted")
	}

	/* nil buffers are a no-op */
	if err := d.Transfer(nil, nil); err != nil {
		t.Error("Empty transfer failed:", err)
	}
}
