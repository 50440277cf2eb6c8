package internal

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var once sync.Once
var logger *logrus.Logger

// GetLogger returns a singleton logger correctly configured for admitdesk
func GetLogger() *logrus.Logger {
	// Use a singleton so we can update log level once config is loaded
	once.Do(func() {
		logger = logrus.New()

		logger.Out = os.Stdout
		logger.SetLevel(logrus.WarnLevel)
		logger.SetFormatter(textFormatter())
	})

	return logger
}

func SetLogLevel(level logrus.Level) {
	GetLogger().SetLevel(level)
}

// SetLogFormat switches between the text and json formatters. Unknown formats
// fall back to text.
func SetLogFormat(format string) {
	if strings.EqualFold(format, LogFormatJSON) {
		GetLogger().SetFormatter(&logrus.JSONFormatter{})
		return
	}
	GetLogger().SetFormatter(textFormatter())
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		DisableColors: false,
		FullTimestamp: true,
		PadLevelText:  true,
	}
}
