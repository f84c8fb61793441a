package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/BertoldVdb/go-imu/imureader"
	"github.com/BertoldVdb/go-imu/logconfig"
)

func main() {
	configPath := flag.String("config", "", "Path to the yaml configuration. Defaults are used when empty")
	logLevel := flag.Int("loglevel", -1, "Override the configured log level (0 to 6)")
	flag.Parse()

	config, err := imureader.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalln("Failed to load configuration:", err)
	}

	if *logLevel >= 0 {
		config.LogLevel = *logLevel
		if err := config.Validate(); err != nil {
			logrus.Fatalln("Invalid log level:", err)
		}
	}

	logger := logconfig.GetLogger(logrus.Level(config.LogLevel))

	app, err := imureader.New(config, logger)
	if err != nil {
		logger.Fatalln("Failed to start IMU reader:", err)
	}

	if err := app.Run(); err != nil {
		logger.Errorln("IMU reader failed:", err)
		os.Exit(1)
	}
}
