package logutils

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureDebugMode(t *testing.T) {
	l := logrus.New()
	configure(l, gin.DebugMode)

	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.True(t, l.ReportCaller)
	_, ok := l.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
}

func TestConfigureReleaseMode(t *testing.T) {
	l := logrus.New()
	configure(l, gin.ReleaseMode)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.False(t, l.ReportCaller)
	f, ok := l.Formatter.(*logrus.JSONFormatter)
	require.True(t, ok)
	assert.Equal(t, timestampFormat, f.TimestampFormat)
}
