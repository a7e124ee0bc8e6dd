package applog

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	entry := logrus.WithField("request_id", "abc")
	ctx := ToContext(context.Background(), entry)

	assert.Equal(t, "abc", FromContext(ctx).Data["request_id"])
	assert.NotNil(t, FromContext(context.Background()))
}

func TestInit_FallsBackToInfo(t *testing.T) {
	Init("verbose", "text")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	Init("debug", "json")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	_, isJSON := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	Init("info", "text")
}
