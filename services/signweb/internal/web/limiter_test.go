package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignLimiterWindow(t *testing.T) {
	l := newSignLimiter(2, time.Minute)
	now := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

	assert.True(t, l.Allow("sig-1", now))
	assert.True(t, l.Allow("sig-1", now.Add(time.Second)))
	assert.False(t, l.Allow("sig-1", now.Add(2*time.Second)))
	assert.True(t, l.Allow("sig-2", now.Add(2*time.Second)))
	assert.True(t, l.Allow("sig-1", now.Add(time.Minute)))
}

func TestSignLimiterDisabled(t *testing.T) {
	var l *signLimiter
	assert.True(t, l.Allow("x", time.Now()))
	assert.True(t, newSignLimiter(0, time.Minute).Allow("x", time.Now()))
}
