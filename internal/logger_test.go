package internal

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLoggerIsSingleton(t *testing.T) {
	assert.Same(t, GetLogger(), GetLogger())
}

func TestSetLogLevel(t *testing.T) {
	original := GetLogger().GetLevel()
	defer SetLogLevel(original)

	SetLogLevel(logrus.DebugLevel)
	assert.Equal(t, logrus.DebugLevel, GetLogger().GetLevel())
}

func TestSetLogFormat(t *testing.T) {
	defer SetLogFormat(LogFormatText)

	SetLogFormat("JSON")
	assert.IsType(t, &logrus.JSONFormatter{}, GetLogger().Formatter)

	SetLogFormat("bogus")
	assert.IsType(t, &logrus.TextFormatter{}, GetLogger().Formatter)
}
