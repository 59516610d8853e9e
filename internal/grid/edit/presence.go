package edit

import (
	"sort"
	"time"

	"github.com/thenoetrevino/tabla/internal/models"
	"github.com/thenoetrevino/tabla/internal/types"
)

// DefaultPresenceTTL drops collaborators that have not been heard from
const DefaultPresenceTTL = 30 * time.Second

// PresenceMap indexes who is editing which cell. It is advisory only.
type PresenceMap map[CellKey][]models.Presence

// At returns the collaborators editing a cell
func (p PresenceMap) At(itemID types.ItemID, columnID types.ColumnID) []models.Presence {
	return p[CellKey{ItemID: itemID, ColumnID: columnID}]
}

// OnItem reports whether anyone is editing any cell of the item
func (p PresenceMap) OnItem(itemID types.ItemID) bool {
	for k := range p {
		if k.ItemID == itemID {
			return true
		}
	}
	return false
}

// MergePresence builds the presence map. The local user, entries older than
// ttl and entries without a cell are left out. Only the latest entry per
// user counts. A non-positive ttl disables expiry.
func MergePresence(entries []models.Presence, self types.UserID, now time.Time, ttl time.Duration) PresenceMap {
	latest := make(map[types.UserID]models.Presence, len(entries))
	for _, e := range entries {
		if e.UserID == self || e.UserID == "" {
			continue
		}
		if cur, ok := latest[e.UserID]; ok && !e.LastSeen.After(cur.LastSeen) {
			continue
		}
		latest[e.UserID] = e
	}

	out := make(PresenceMap)
	for _, e := range latest {
		if !e.IsEditing() {
			continue
		}
		if ttl > 0 && now.Sub(e.LastSeen) > ttl {
			continue
		}
		key := CellKey{ItemID: e.EditingItemID, ColumnID: e.EditingColumnID}
		out[key] = append(out[key], e)
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool {
			if list[i].UserName != list[j].UserName {
				return list[i].UserName < list[j].UserName
			}
			return list[i].UserID < list[j].UserID
		})
	}
	return out
}
