package sim

const defaultFeedCapacity = 12

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick    int
	Delta   int // score change carried by the event, 0 for none
	Message string
}

// EventFeed is a ring buffer of recent round events for on-screen display.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed holding at most capacity entries.
func NewEventFeed(capacity int) *EventFeed {
	if capacity <= 0 {
		capacity = defaultFeedCapacity
	}
	return &EventFeed{entries: make([]FeedEntry, capacity)}
}

// Add appends an entry, overwriting the oldest when full.
func (f *EventFeed) Add(tick, delta int, msg string) {
	n := len(f.entries)
	f.entries[f.head] = FeedEntry{Tick: tick, Delta: delta, Message: msg}
	f.head = (f.head + 1) % n
	if f.count < n {
		f.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	n := len(f.entries)
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + n) % n
		result[i] = f.entries[idx]
	}
	return result
}

func (f *EventFeed) Len() int { return f.count }

// Clear empties the feed.
func (f *EventFeed) Clear() {
	f.head = 0
	f.count = 0
}
