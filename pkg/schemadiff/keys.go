// Package schemadiff aligns two column schemas into a unified, ordered diff.
// Used by both the lineage graph builder (column-level node detail) and the
// hosted API's schema endpoints.
package schemadiff

// KeyStatus classifies a key's fate between a base and a current key sequence.
type KeyStatus string

const (
	KeyAdded     KeyStatus = "added"
	KeyRemoved   KeyStatus = "removed"
	KeyCommon    KeyStatus = "common"
	KeyReordered KeyStatus = "reordered"
)

// ClassifyKeys classifies every key from two ordered key sequences.
//
// A key only in base is removed; only in current, added. A key present on
// both sides is common when its position among the shared keys respects the
// base-side order, and reordered when it does not. Reordering is detected by
// walking the current-side shared keys and flagging any key whose base
// position falls behind one already passed.
//
// The returned order lists base keys first, in base order, then current-only
// keys appended in current order. Empty inputs yield empty results.
func ClassifyKeys(baseKeys, currentKeys []string) ([]string, map[string]KeyStatus) {
	basePos := make(map[string]int, len(baseKeys))
	for i, k := range baseKeys {
		basePos[k] = i
	}
	inCurrent := make(map[string]bool, len(currentKeys))
	for _, k := range currentKeys {
		inCurrent[k] = true
	}

	status := make(map[string]KeyStatus, len(baseKeys)+len(currentKeys))

	for _, k := range baseKeys {
		if inCurrent[k] {
			status[k] = KeyCommon
		} else {
			status[k] = KeyRemoved
		}
	}

	// Walk shared keys in current order; a key whose base position is not
	// strictly increasing has moved relative to its peers.
	maxSeen := -1
	for _, k := range currentKeys {
		pos, shared := basePos[k]
		if !shared {
			if _, known := status[k]; !known {
				status[k] = KeyAdded
			}
			continue
		}
		if pos > maxSeen {
			maxSeen = pos
		} else {
			status[k] = KeyReordered
		}
	}

	order := make([]string, 0, len(status))
	order = append(order, baseKeys...)
	for _, k := range currentKeys {
		if _, shared := basePos[k]; !shared {
			order = append(order, k)
		}
	}

	return order, status
}
