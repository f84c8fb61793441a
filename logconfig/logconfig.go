// Package logconfig creates the logger used by the go-imu binaries.
package logconfig

import (
	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

// GetLogger returns a logger with the prefixed text formatter at the given
// level. Valid levels are 0 (panic) to 6 (trace).
func GetLogger(level logrus.Level) *logrus.Entry {
	logrus.ErrorKey = "$error"

	logger := logrus.New()
	logger.SetLevel(level)

	formatter := new(prefixed.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	formatter.PrefixPadding = 20
	formatter.SpacePadding = 50
	logger.SetFormatter(formatter)

	return logrus.NewEntry(logger)
}
