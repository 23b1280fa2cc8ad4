package utils

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	SetLogLevel("TRACE")
	assert.Equal(t, logrus.TraceLevel, Log.GetLevel())
	SetLogLevel("warning")
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	SetLogLevel("warn")
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Shopping", "Text"}, SplitList(" Shopping, ,Text ,"))
	assert.Empty(t, SplitList(""))
}

func TestDBLock(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "autoneg.sqlite")

	l, err := NewDBLock(dbPath)
	require.NoError(t, err)
	require.NoError(t, l.Lock())
	require.NoError(t, l.Unlock())
	// Unlocking twice is harmless.
	require.NoError(t, l.Unlock())
}
