package imureader

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// SPIConfig selects the spidev node the IMU is attached to.
type SPIConfig struct {
	Bus     int    `yaml:"bus"`
	Device  int    `yaml:"device"`
	SpeedHz uint32 `yaml:"speed_hz"`
}

// GPIOConfig selects the control lines of the IMU.
type GPIOConfig struct {
	Chip          int    `yaml:"chip"`
	ResetLine     uint32 `yaml:"reset_line"`
	DataReadyLine uint32 `yaml:"data_ready_line"`
}

// Config is the yaml configuration of the reader.
type Config struct {
	SPI  SPIConfig  `yaml:"spi"`
	GPIO GPIOConfig `yaml:"gpio"`

	/* Decimation rate written to DEC_RATE, output rate is 4250/(n+1) Hz */
	DecRate uint16 `yaml:"dec_rate"`

	/* Period of the text output */
	OutputPeriodMs int `yaml:"output_period_ms"`

	/* logrus level, 0 (panic) to 6 (trace) */
	LogLevel int `yaml:"log_level"`
}

/* Burst reads are only specified up to 2 MHz, register access up to 15 MHz */
const maxSpeedHz = 2000000

/* The internal sample rate of the ADIS16490 */
const sampleRateHz = 4250

// DefaultConfig returns a configuration for an IMU on spidev0.0 with the
// usual Raspberry Pi style wiring.
func DefaultConfig() *Config {
	return &Config{
		SPI: SPIConfig{
			Bus:     0,
			Device:  0,
			SpeedHz: maxSpeedHz,
		},
		GPIO: GPIOConfig{
			Chip:          0,
			ResetLine:     24,
			DataReadyLine: 25,
		},
		DecRate:        424, /* 10 Hz */
		OutputPeriodMs: 500,
		LogLevel:       4,
	}
}

// LoadConfig reads a yaml file on top of the defaults and validates the
// result. An empty path returns the validated defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration without mutating it.
func (c *Config) Validate() error {
	if c.SPI.SpeedHz == 0 || c.SPI.SpeedHz > maxSpeedHz {
		return fmt.Errorf("spi.speed_hz must be between 1 and %d", maxSpeedHz)
	}

	if int(c.DecRate) > sampleRateHz-1 {
		return fmt.Errorf("dec_rate must be below %d", sampleRateHz)
	}

	if c.GPIO.ResetLine == c.GPIO.DataReadyLine {
		return fmt.Errorf("gpio.reset_line and gpio.data_ready_line cannot both be line %d", c.GPIO.ResetLine)
	}

	if c.OutputPeriodMs <= 0 {
		return fmt.Errorf("output_period_ms must be positive")
	}

	if c.LogLevel < 0 || c.LogLevel > 6 {
		return fmt.Errorf("log_level must be between 0 and 6")
	}

	return nil
}
