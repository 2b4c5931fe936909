package viewcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/darasa-app/darasa/core"
)

func TestMemory(t *testing.T) {
	c := NewMemory(8, time.Minute)

	_, ok := c.Get(core.ViewHome)
	assert.False(t, ok)

	c.Set(core.ViewHome, []byte("home payload"))
	c.Set(core.ViewGallery, []byte("gallery payload"))

	got, ok := c.Get(core.ViewHome)
	assert.True(t, ok)
	assert.Equal(t, []byte("home payload"), got)

	c.Invalidate(core.ViewHome, core.ViewGallery)
	_, ok = c.Get(core.ViewHome)
	assert.False(t, ok)
	_, ok = c.Get(core.ViewGallery)
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory(8, 10*time.Millisecond)
	c.Set(core.ViewSchedules, []byte("payload"))

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get(core.ViewSchedules)
	assert.False(t, ok)
}
