// config/logger.go
package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

func InitLogger() {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger.SetLevel(logrus.InfoLevel)

	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			Logger.Warn("Ignoring invalid LOG_LEVEL:", raw)
			return
		}
		Logger.SetLevel(level)
	}
}

// Component returns a logger entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}
