package adis16490

import "time"

// Indices into BurstResult.
const (
	BurstDiagSts = 0
	BurstAlmSts  = 1
	BurstXGyro   = 2
	BurstYGyro   = 3
	BurstZGyro   = 4
	BurstXAccl   = 5
	BurstYAccl   = 6
	BurstZAccl   = 7
	BurstTemp    = 8

	BurstLen = 9
)

// BurstResult holds the raw samples of one burst read in the fixed order
// [DIAG_STS, ALM_STS, gyro X/Y/Z, accel X/Y/Z, TEMP_OUT]. It is an owned
// value, repeated burst reads do not alias each other.
type BurstResult [BurstLen]int16

/* Registers chained after the priming DIAG_STS request. The final zero is a
 * dummy request that only clocks TEMP_OUT out. */
var burstChain = [BurstLen]uint8{
	uint8(RegAlmSts),
	uint8(RegXGyroOut),
	uint8(RegYGyroOut),
	uint8(RegZGyroOut),
	uint8(RegXAcclOut),
	uint8(RegYAcclOut),
	uint8(RegZAcclOut),
	uint8(RegTempOut),
	0x00,
}

// BurstRead reads the fixed output register set with minimal overhead. Every
// frame requests the next register of the chain while clocking out the
// previous one, so the nine registers cost ten frames plus at most one page
// select. The output registers all live on page 0, which is selected first
// when needed.
func (d *Device) BurstRead() (BurstResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	var result BurstResult

	stall := d.timing.BurstStall

	if err := d.selectPage(0, stall); err != nil {
		return result, err
	}

	/* Prime the pipeline, the reply to this frame is stale */
	if _, _, err := d.exchange(uint8(RegDiagSts), 0x00); err != nil {
		return result, err
	}
	time.Sleep(stall)

	for i, next := range burstChain {
		high, low, err := d.exchange(next, 0x00)
		if err != nil {
			return result, err
		}
		time.Sleep(stall)

		result[i] = int16(uint16(high)<<8 | uint16(low))
	}

	return result, nil
}
