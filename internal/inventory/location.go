package inventory

import (
	"strings"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/db/models"
)

// LocationKey is a six-dimensional physical position. A nil dimension is a
// wildcard: it matches any value in that position when checking collisions.
type LocationKey struct {
	Vault *string
	Zone  *string
	Shelf *string
	Row   *string
	Box   *string
	Slot  *string
}

var dimensionNames = []string{"vault", "zone", "shelf", "row", "box", "slot"}

func (k LocationKey) dimensions() []*string {
	return []*string{k.Vault, k.Zone, k.Shelf, k.Row, k.Box, k.Slot}
}

// Collides reports whether two keys resolve to overlapping positions: for
// every dimension present in both keys, the values must be equal. A
// dimension absent from either side matches anything.
func (k LocationKey) Collides(other LocationKey) bool {
	mine := k.dimensions()
	theirs := other.dimensions()
	for i := range mine {
		if mine[i] == nil || theirs[i] == nil {
			continue
		}
		if *mine[i] != *theirs[i] {
			return false
		}
	}
	return true
}

// Render produces the operator-facing form of the key, with `*` standing in
// for a wildcard dimension: `[vault]:dallas-[zone]:cabinet-[shelf]:*-...`.
func (k LocationKey) Render() string {
	parts := make([]string, 0, len(dimensionNames))
	for i, dim := range k.dimensions() {
		value := "*"
		if dim != nil {
			value = *dim
		}
		parts = append(parts, "["+dimensionNames[i]+"]:"+value)
	}
	return strings.Join(parts, "-")
}

func locationOf(slot *models.InventorySlot) LocationKey {
	return LocationKey{
		Vault: slot.Vault,
		Zone:  slot.Zone,
		Shelf: slot.Shelf,
		Row:   slot.Row,
		Box:   slot.Box,
		Slot:  slot.Slot,
	}
}
