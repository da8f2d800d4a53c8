// Package logger builds the logrus logger shared by the server and the worker.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to stdout. format "json" emits one JSON
// object per line, anything else the text format. Unknown levels fall back
// to info. Every entry is tagged with the service name.
func New(service, level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(formatter(format))

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.AddHook(serviceHook(service))

	return logger
}

func formatter(format string) logrus.Formatter {
	if format == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

// serviceHook adds the service field to entries that do not set one.
type serviceHook string

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = string(h)
	}
	return nil
}
