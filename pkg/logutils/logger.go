package logutils

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Log is the logger used by infrastructure code (database, storage, gateways).
var Log = logrus.New()

// Fields is the type of logrus.Fields.
type Fields = logrus.Fields

//nolint:gochecknoinits // This is the only place where we should set the log level.
func init() {
	level := logrus.InfoLevel
	if gin.Mode() == gin.DebugMode {
		level = logrus.DebugLevel
	}
	if env := os.Getenv("TAVLIST_LOG_LEVEL"); env != "" {
		if parsed, err := logrus.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	Log.SetLevel(level)
	Log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:           "2006-01-02 15:04:05",
		ForceColors:               true,
		EnvironmentOverrideColors: true,
		FullTimestamp:             true,
	})
	Log.SetReportCaller(true)
}

// Gateway returns an entry tagged with the outbound integration name.
func Gateway(name string) *logrus.Entry {
	return Log.WithField("gateway", name)
}
