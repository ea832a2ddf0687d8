package sim

import "container/heap"

// TimerID identifies a scheduled callback. The zero value is never issued.
type TimerID uint64

type timer struct {
	id     TimerID
	due    float64
	period float64 // > 0 for repeating timers
	seq    uint64  // tie-break so equal due times fire in scheduling order
	fn     func()
	dead   bool
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Timeline is a simulated clock with one-shot and repeating callbacks.
// Time only moves when Advance is called, so a run is reproducible
// frame by frame.
type Timeline struct {
	now    float64
	nextID TimerID
	seq    uint64
	queue  timerQueue
	live   map[TimerID]*timer
}

// NewTimeline creates an empty timeline at time zero.
func NewTimeline() *Timeline {
	return &Timeline{live: make(map[TimerID]*timer)}
}

// Now returns the current simulated time in milliseconds.
func (t *Timeline) Now() float64 { return t.now }

// Pending returns the number of scheduled callbacks.
func (t *Timeline) Pending() int { return len(t.live) }

// After schedules fn to run once, delay milliseconds from now.
func (t *Timeline) After(delay float64, fn func()) TimerID {
	return t.schedule(t.now+delay, 0, fn)
}

// Every schedules fn to run every period milliseconds, first after one period.
func (t *Timeline) Every(period float64, fn func()) TimerID {
	if period <= 0 {
		panic("sim: timer period must be positive")
	}
	return t.schedule(t.now+period, period, fn)
}

func (t *Timeline) schedule(due, period float64, fn func()) TimerID {
	t.nextID++
	tm := &timer{id: t.nextID, due: due, period: period, fn: fn}
	t.push(tm)
	t.live[tm.id] = tm
	return tm.id
}

func (t *Timeline) push(tm *timer) {
	t.seq++
	tm.seq = t.seq
	heap.Push(&t.queue, tm)
}

// Cancel removes a scheduled callback. Returns false if it already fired
// (one-shot) or was cancelled before.
func (t *Timeline) Cancel(id TimerID) bool {
	tm, ok := t.live[id]
	if !ok {
		return false
	}
	tm.dead = true
	delete(t.live, id)
	return true
}

// Clear cancels every scheduled callback. The clock keeps its value.
func (t *Timeline) Clear() {
	for _, tm := range t.queue {
		tm.dead = true
	}
	t.queue = t.queue[:0]
	clear(t.live)
}

// Reset clears all callbacks and rewinds the clock to zero.
func (t *Timeline) Reset() {
	t.Clear()
	t.now = 0
}

// Advance moves the clock forward by delta milliseconds, running every
// callback that falls due on the way in due-time order.
func (t *Timeline) Advance(delta float64) {
	target := t.now + delta
	for len(t.queue) > 0 {
		next := t.queue[0]
		if next.dead {
			heap.Pop(&t.queue)
			continue
		}
		if next.due > target {
			break
		}
		heap.Pop(&t.queue)
		t.now = next.due

		if next.period > 0 {
			// Re-arm before running so the callback may cancel itself.
			next.due += next.period
			t.push(next)
		} else {
			delete(t.live, next.id)
		}
		next.fn()
	}
	if target > t.now {
		t.now = target
	}
}
