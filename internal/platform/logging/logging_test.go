package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure("debug", "json", &buf))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	logrus.WithField("robot_id", 3).Info("optimized")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "optimized", line["msg"])
	assert.EqualValues(t, 3, line["robot_id"])

	buf.Reset()
	require.NoError(t, Configure("info", "text", &buf))
	logrus.Debug("hidden")
	assert.Empty(t, buf.String())

	assert.Error(t, Configure("loud", "text", &buf))
}
