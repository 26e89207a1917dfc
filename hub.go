package papercraft

// Event is what the Hub broadcasts.
type Event int

const (
	// GroupStructureChanging fires before group membership is altered.
	GroupStructureChanging Event = iota
	// LayoutChanged fires after a command was executed, undone or redone,
	// and after a layout was loaded or the mesh scaled.
	LayoutChanged
)

func (e Event) String() string {
	switch e {
	case GroupStructureChanging:
		return "group-structure-changing"
	case LayoutChanged:
		return "layout-changed"
	}
	return "unknown"
}

type subscription struct {
	id uint64
	fn func(Event)
}

// Hub delivers events synchronously to subscribers in the order they
// subscribed. A nil *Hub drops everything.
type Hub struct {
	subs   []subscription
	nextID uint64
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns a function removing it again.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

func (h *Hub) publish(e Event) {
	if h == nil {
		return
	}
	subs := h.subs
	for _, s := range subs {
		s.fn(e)
	}
}
