package daemon

import (
	"sort"
	"sync"
	"time"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// DefaultPresenceTTL drops collaborators that stopped reporting
const DefaultPresenceTTL = 30 * time.Second

// presenceHub keeps the latest presence entry per user per board
type presenceHub struct {
	mu     sync.Mutex
	ttl    time.Duration
	boards map[types.BoardID]map[types.UserID]models.Presence
}

func newPresenceHub(ttl time.Duration) *presenceHub {
	if ttl <= 0 {
		ttl = DefaultPresenceTTL
	}
	return &presenceHub{
		ttl:    ttl,
		boards: make(map[types.BoardID]map[types.UserID]models.Presence),
	}
}

// update stores p unless a newer entry for the same user is already held.
// A user is present on one board at a time, so older boards forget them.
// It returns every board whose set changed.
func (h *presenceHub) update(p models.Presence) []types.BoardID {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.boards[p.BoardID][p.UserID]; ok && cur.LastSeen.After(p.LastSeen) {
		return nil
	}

	changed := []types.BoardID{p.BoardID}
	for boardID, users := range h.boards {
		if boardID == p.BoardID {
			continue
		}
		if _, ok := users[p.UserID]; ok {
			delete(users, p.UserID)
			changed = append(changed, boardID)
		}
	}

	users := h.boards[p.BoardID]
	if users == nil {
		users = make(map[types.UserID]models.Presence)
		h.boards[p.BoardID] = users
	}
	users[p.UserID] = p
	return changed
}

// remove forgets a user everywhere
func (h *presenceHub) remove(userID types.UserID) []types.BoardID {
	h.mu.Lock()
	defer h.mu.Unlock()

	var changed []types.BoardID
	for boardID, users := range h.boards {
		if _, ok := users[userID]; ok {
			delete(users, userID)
			changed = append(changed, boardID)
		}
	}
	return changed
}

// expire drops entries last seen more than ttl before now
func (h *presenceHub) expire(now time.Time) []types.BoardID {
	h.mu.Lock()
	defer h.mu.Unlock()

	var changed []types.BoardID
	for boardID, users := range h.boards {
		dropped := false
		for id, p := range users {
			if now.Sub(p.LastSeen) > h.ttl {
				delete(users, id)
				dropped = true
			}
		}
		if dropped {
			changed = append(changed, boardID)
		}
		if len(users) == 0 {
			delete(h.boards, boardID)
		}
	}
	return changed
}

// snapshot lists a board's collaborators ordered by name then id
func (h *presenceHub) snapshot(boardID types.BoardID) []models.Presence {
	h.mu.Lock()
	defer h.mu.Unlock()

	users := h.boards[boardID]
	out := make([]models.Presence, 0, len(users))
	for _, p := range users {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
