// Package imureader wires an ADIS16490 on a Linux host to a periodic
// human-readable text output. It owns the spidev link, the reset and
// data-ready GPIO lines and the device handle, and runs two loops: an
// acquisition loop doing one burst read per data-ready edge, and a printer
// publishing the latest sample at a fixed rate.
package imureader

import (
	"time"

	"github.com/BertoldVdb/go-misc/closeflag"
	"github.com/BertoldVdb/go-misc/multirun"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BertoldVdb/go-imu/adis16490"
	"github.com/BertoldVdb/go-imu/gpio"
	"github.com/BertoldVdb/go-imu/spidev"
)

/* FNCTIO_CTRL: data ready on DIO2, positive polarity, enabled */
const fnctioCtrlDataReady = 0x000C

/* Settle times, the device needs time to come out of reset and to commit
 * configuration writes */
const (
	resetSettle = 500 * time.Millisecond
	writeSettle = 20 * time.Millisecond
)

// App is the reader application context.
type App struct {
	logger *logrus.Entry
	config *Config

	spi       *spidev.Device
	chip      *gpio.Chip
	resetLine *gpio.Lines
	dataReady *gpio.EventLine

	imu    *adis16490.Device
	latest latestSlot

	multi        multirun.MultiRun
	printerClose closeflag.CloseFlag
}

// New opens all hardware resources, resets and configures the IMU and
// prepares the loops. Run starts them.
func New(config *Config, logger *logrus.Entry) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		logger: logger.WithField("run", uuid.New().String()),
		config: config,
	}

	var err error

	a.spi, err = spidev.Open(config.SPI.Bus, config.SPI.Device)
	if err != nil {
		return nil, err
	}

	/* The ADIS1649x family talks SPI mode 3, MSB first */
	if err := a.spi.Configure(spidev.Mode3, 8, config.SPI.SpeedHz); err != nil {
		a.closeHardware()
		return nil, err
	}

	a.chip, err = gpio.OpenChip(config.GPIO.Chip)
	if err != nil {
		a.closeHardware()
		return nil, err
	}

	a.resetLine, err = a.chip.OpenLine("imu-reset", gpio.RequestOutput, gpio.LineRequest{
		Line:         gpio.Line{Offset: config.GPIO.ResetLine},
		DefaultValue: 1,
	})
	if err != nil {
		a.closeHardware()
		return nil, err
	}

	a.dataReady, err = a.chip.WatchLine("imu-data-ready", gpio.RequestInput, gpio.EventRisingEdge, gpio.Line{Offset: config.GPIO.DataReadyLine})
	if err != nil {
		a.closeHardware()
		return nil, err
	}

	a.imu = adis16490.New(a.spi, &adis16490.DeviceOptions{
		Reset: a.resetLine,
	})

	if err := a.initDevice(); err != nil {
		a.closeHardware()
		return nil, err
	}

	a.multi.RegisterFunc(a.runAcquire, a.dataReady.Close)
	a.multi.RegisterFunc(a.runPrinter, a.printerClose.Close)

	return a, nil
}

func (a *App) initDevice() error {
	a.logger.Info("Resetting IMU")
	if err := a.imu.Reset(resetSettle); err != nil {
		return err
	}

	id, err := a.imu.ProbeProductID()
	if err == adis16490.ErrWrongProduct {
		/* The protocol has no error channel, a wrong id is the only hint
		 * that the wiring or mode is off. Keep going regardless. */
		a.logger.Warnf("Unexpected PROD_ID 0x%04X, check wiring", id)
	} else if err != nil {
		return err
	} else {
		a.logger.Infof("Found device, PROD_ID 0x%04X", id)
	}

	if err := a.imu.RegWrite(adis16490.RegFnctioCtrl, fnctioCtrlDataReady); err != nil {
		return err
	}
	time.Sleep(writeSettle)

	if err := a.imu.RegWrite(adis16490.RegDecRate, int16(a.config.DecRate)); err != nil {
		return err
	}
	time.Sleep(writeSettle)

	a.logger.Infof("Configured data ready output, %d Hz sample output", sampleRateHz/(int(a.config.DecRate)+1))

	return nil
}

/* runAcquire does one synchronous burst read per data-ready edge. The
 * device handle serializes against any other register access. */
func (a *App) runAcquire() error {
	for range a.dataReady.Events() {
		raw, err := a.imu.BurstRead()
		if err != nil {
			return err
		}

		a.latest.store(raw)
	}

	return nil
}

func (a *App) runPrinter() error {
	ticker := time.NewTicker(time.Duration(a.config.OutputPeriodMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-a.printerClose.Chan():
			return nil

		case <-ticker.C:
			a.printLatest()
		}
	}
}

func (a *App) printLatest() {
	if dropped := a.dataReady.Dropped(); dropped > 0 {
		a.logger.Debugf("%d data-ready edges dropped so far, the acquisition loop is not keeping up", dropped)
	}

	snapshot, ok := a.latest.load()
	if !ok {
		a.logger.Warn("No sample received yet, is the data-ready line connected?")
		return
	}

	raw := snapshot.Raw

	a.logger.Infof("sample %d (%s): DIAG_STS=0x%04X ALM_STS=0x%04X",
		snapshot.Seq, snapshot.Time.Format("15:04:05.000"),
		uint16(raw[adis16490.BurstDiagSts]), uint16(raw[adis16490.BurstAlmSts]))
	a.logger.Infof("  gyro  [deg/s] X=%+9.3f Y=%+9.3f Z=%+9.3f (raw %6d %6d %6d)",
		adis16490.ScaleGyro(raw[adis16490.BurstXGyro]),
		adis16490.ScaleGyro(raw[adis16490.BurstYGyro]),
		adis16490.ScaleGyro(raw[adis16490.BurstZGyro]),
		raw[adis16490.BurstXGyro], raw[adis16490.BurstYGyro], raw[adis16490.BurstZGyro])
	a.logger.Infof("  accel [mg]    X=%+9.1f Y=%+9.1f Z=%+9.1f (raw %6d %6d %6d)",
		adis16490.ScaleAccel(raw[adis16490.BurstXAccl]),
		adis16490.ScaleAccel(raw[adis16490.BurstYAccl]),
		adis16490.ScaleAccel(raw[adis16490.BurstZAccl]),
		raw[adis16490.BurstXAccl], raw[adis16490.BurstYAccl], raw[adis16490.BurstZAccl])
	a.logger.Infof("  temp  [degC]  %.2f (raw %d)",
		adis16490.ScaleTemp(raw[adis16490.BurstTemp]), raw[adis16490.BurstTemp])
}

// Run blocks until the reader is closed or a loop fails. A SIGINT or
// SIGTERM triggers a clean shutdown.
func (a *App) Run() error {
	a.multi.HandleSIGTERM()

	err := a.multi.Run(func() {
		a.logger.Info("IMU reader running")
	})

	a.closeHardware()

	if err == multirun.ErrorClosed {
		return nil
	}

	return err
}

// Close stops the loops and releases the hardware.
func (a *App) Close() error {
	return a.multi.Close()
}

func (a *App) closeHardware() {
	if a.dataReady != nil {
		a.dataReady.Close()
	}
	if a.resetLine != nil {
		a.resetLine.Close()
	}
	if a.chip != nil {
		a.chip.Close()
	}
	if a.spi != nil {
		a.spi.Close()
	}
}
