package loop

// Queue is a Scheduler for hosts that own their frame loop. It holds at most
// one pending callback; a new request replaces the previous one. The host
// runs the pending callback with Fire once per refresh.
type Queue struct {
	next FrameID
	id   FrameID
	fn   func(float64)
}

func (q *Queue) RequestFrame(fn func(dt float64)) FrameID {
	q.next++
	q.id = q.next
	q.fn = fn
	return q.id
}

// CancelFrame drops the pending callback if id still names it.
func (q *Queue) CancelFrame(id FrameID) {
	if q.fn != nil && id == q.id {
		q.fn = nil
	}
}

func (q *Queue) Pending() bool { return q.fn != nil }

// Fire runs the pending callback, if any, and reports whether one ran.
// The slot is cleared first so the callback may request the next frame.
func (q *Queue) Fire(dt float64) bool {
	fn := q.fn
	if fn == nil {
		return false
	}
	q.fn = nil
	fn(dt)
	return true
}
