package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerIsUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("before init")
		Error("before init")
	})
}

func TestInit(t *testing.T) {
	require.Error(t, Init("loud", "json"))
	require.NoError(t, Init("debug", "console"))
	require.NoError(t, SetLevel("warn"))
	assert.NotNil(t, With())
}
