package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestQueuedChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	queue := NewQueuedChannel[int](3, 3)

	require.True(t, queue.Enqueue(1, 2, 3))

	resCh := queue.GetChannel()

	require.Equal(t, 1, <-resCh)
	require.Equal(t, 2, <-resCh)
	require.Equal(t, 3, <-resCh)

	// Items queued before Close are still delivered.
	require.True(t, queue.Enqueue(4, 5, 6))

	queue.Close()

	require.Equal(t, 4, <-resCh)
	require.Equal(t, 5, <-resCh)
	require.Equal(t, 6, <-resCh)

	_, ok := <-resCh
	require.False(t, ok)

	require.False(t, queue.Enqueue(7))
}

func TestQueuedChannelDoesNotLeakWithoutReaders(t *testing.T) {
	defer goleak.VerifyNone(t)

	queue := NewQueuedChannel[int](1, 3)

	require.True(t, queue.Enqueue(1, 2, 3))

	queue.Close()

	for range queue.GetChannel() {
	}
}
