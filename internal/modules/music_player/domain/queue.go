package domain

import "errors"

// ErrQueueFull is returned when a track is pushed onto a queue at capacity.
var ErrQueueFull = errors.New("queue is full")

// Queue is a FIFO of pending tracks. The track currently loaded into the
// engine is not part of the queue and does not count against its capacity.
type Queue struct {
	tracks   []*Track
	capacity int
}

// NewQueue creates an empty Queue. A capacity of zero or less means unbounded.
func NewQueue(capacity int) Queue {
	return Queue{
		tracks:   make([]*Track, 0),
		capacity: capacity,
	}
}

// Len returns the number of pending tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if no tracks are pending.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// IsFull returns true if the queue has reached its capacity.
func (q *Queue) IsFull() bool {
	return q.capacity > 0 && len(q.tracks) >= q.capacity
}

// Capacity returns the configured maximum length.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Push appends a track to the tail.
func (q *Queue) Push(track *Track) error {
	if q.IsFull() {
		return ErrQueueFull
	}
	q.tracks = append(q.tracks, track)
	return nil
}

// Pop removes and returns the head, or nil if the queue is empty.
func (q *Queue) Pop() *Track {
	if q.IsEmpty() {
		return nil
	}
	head := q.tracks[0]
	q.tracks[0] = nil
	q.tracks = q.tracks[1:]
	return head
}

// Peek returns the head without removing it, or nil if the queue is empty.
func (q *Queue) Peek() *Track {
	if q.IsEmpty() {
		return nil
	}
	return q.tracks[0]
}

// Clear removes all pending tracks.
func (q *Queue) Clear() {
	q.tracks = make([]*Track, 0)
}

// Tracks returns a copy of the pending tracks in playback order.
func (q *Queue) Tracks() []*Track {
	result := make([]*Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}
