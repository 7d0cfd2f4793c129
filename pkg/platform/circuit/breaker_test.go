package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerStartsClosed(t *testing.T) {
	b := New("pdf-renderer")
	assert.Equal(t, "pdf-renderer", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}

func TestBreakerOpensAtFailureThreshold(t *testing.T) {
	b := New("pdf-renderer", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback)
		assert.False(t, change.Opened)
	}
	assert.False(t, b.IsOpen())

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreakerOpenReportsTransitionOnce(t *testing.T) {
	b := New("pdf-renderer", WithFailureThreshold(1))

	_, change := b.RecordFailure()
	assert.True(t, change.Opened)

	// Further failures keep it open but report no transition.
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := New("pdf-renderer", WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	usePrimary, _ := b.RecordSuccess()
	assert.True(t, usePrimary)

	// The streak restarted, so two more failures do not open it.
	b.RecordFailure()
	_, change := b.RecordFailure()
	assert.False(t, change.Opened)
	_, change = b.RecordFailure()
	assert.True(t, change.Opened)
}

func TestBreakerClosesAfterSuccessThreshold(t *testing.T) {
	b := New("pdf-renderer", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerFailureResetsRecoveryStreak(t *testing.T) {
	b := New("pdf-renderer", WithFailureThreshold(1), WithSuccessThreshold(3))

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordSuccess()

	// One failure throws away the two recovery successes.
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)

	b.RecordSuccess()
	b.RecordSuccess()
	_, change = b.RecordSuccess()
	assert.True(t, change.Closed)
}

func TestBreakerReset(t *testing.T) {
	b := New("pdf-renderer", WithFailureThreshold(1))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
}
