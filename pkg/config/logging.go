package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies the log level and format to the standard logger
// and points it at w. Stdout carries protocol frames, so w is normally stderr.
func ConfigureLogging(c *Config, w io.Writer) error {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(w)
	if c.LogFormat == "json" {
		logrus.SetFormatter(new(logrus.JSONFormatter))
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
