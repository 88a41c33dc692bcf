package logutils

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Log is the logger used by the whole backend.
var Log = logrus.New()

// Fields is the type of logrus.Fields.
type Fields = logrus.Fields

const timestampFormat = "2006-01-02 15:04:05"

//nolint:gochecknoinits // This is the only place where we should set the log level.
func init() {
	configure(Log, gin.Mode())
}

// configure sets level, formatter and caller reporting per run mode:
// colored text with caller info while developing, JSON lines in release
// so a collector can ingest them.
func configure(l *logrus.Logger, mode string) {
	if mode == gin.DebugMode {
		l.SetLevel(logrus.DebugLevel)
		l.SetReportCaller(true)
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat:           timestampFormat,
			ForceColors:               true,
			EnvironmentOverrideColors: true,
			FullTimestamp:             true,
		})
		return
	}
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
}
