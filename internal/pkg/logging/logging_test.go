package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"dispatch/internal/pkg/logging"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "DEBUG", Format: "json", Output: &buf})

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	logging.Component(log, "broadcaster").WithField("order_id", "o-1").Info("feed closed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "broadcaster", line["component"])
	assert.Equal(t, "o-1", line["order_id"])
	assert.Equal(t, "feed closed", line["msg"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "chatty", Format: "text", Output: &buf})

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}
