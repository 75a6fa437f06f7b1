package market

import "time"

// RefreshEvent announces that the table was replaced.
type RefreshEvent struct {
	RefreshedAt time.Time `json:"refreshed_at"`
	Markets     int       `json:"markets"`
	Liquid      int       `json:"liquid"` // records with all four top-of-book prices
}

// Subscribe returns a channel that receives an event after every Replace,
// and a function that cancels the subscription and closes the channel.
// A slow subscriber loses its oldest pending event rather than blocking
// the writer.
func (t *Table) Subscribe(buffer int) (<-chan RefreshEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan RefreshEvent, buffer)

	t.subMu.Lock()
	if t.subs == nil {
		t.subs = make(map[chan RefreshEvent]struct{})
	}
	t.subs[ch] = struct{}{}
	t.subMu.Unlock()

	cancel := func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		if _, ok := t.subs[ch]; ok {
			delete(t.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Current describes the snapshot as a RefreshEvent.
func (t *Table) Current() RefreshEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.eventLocked()
}

// eventLocked builds the event for the current snapshot (caller must hold mu).
func (t *Table) eventLocked() RefreshEvent {
	ev := RefreshEvent{RefreshedAt: t.lastUpdated, Markets: len(t.records)}
	for _, r := range t.records {
		if r.HasLiquidity() {
			ev.Liquid++
		}
	}
	return ev
}

func (t *Table) notify(ev RefreshEvent) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	for ch := range t.subs {
		select {
		case ch <- ev:
		default:
			// Full: drop the oldest pending event and retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
