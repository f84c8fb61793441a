package adis16490

// Scaling of raw register values to physical units. All factors are the
// fixed ADIS16490 output resolutions, the functions are pure and defined for
// the full int16 range.

// ScaleGyro converts a gyroscope sample to degrees per second.
func ScaleGyro(raw int16) float64 {
	return float64(raw) * 0.005
}

// ScaleAccel converts an accelerometer sample to mg.
func ScaleAccel(raw int16) float64 {
	return float64(raw) * 0.5
}

// ScaleTemp converts a temperature sample to degrees Celsius. A raw value of
// zero corresponds to 25 °C.
func ScaleTemp(raw int16) float64 {
	return float64(raw)*0.01429 + 25
}

// ScaleDeltaAngle converts a delta angle sample to degrees.
func ScaleDeltaAngle(raw int16) float64 {
	return float64(raw) * 0.022
}

// ScaleDeltaVelocity converts a delta velocity sample to mm/s.
func ScaleDeltaVelocity(raw int16) float64 {
	return float64(raw) * 6.104
}
