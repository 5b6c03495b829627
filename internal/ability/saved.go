package ability

import (
	"encoding/json"
	"fmt"
	"sort"

	"nightfall/client/internal/game"
)

// SavedController is one controller's full state as the server last sent it.
type SavedController struct {
	Selection Selection
	Available Available
	// GrayedOut controllers are shown but not editable right now.
	GrayedOut bool
	// ResetOnPhaseStart names the phase boundary at which the server drops
	// the selection back to its default; nil means the selection persists.
	ResetOnPhaseStart *game.PhaseType
}

// ControllerMap holds every controller the server currently offers, ordered
// by Compare. The server replaces the whole map at once; the client never
// invents or retires controllers on its own.
type ControllerMap struct {
	entries []controllerEntry
}

type controllerEntry struct {
	id         ControllerID
	controller SavedController
}

// NewControllerMap returns an empty controller map.
func NewControllerMap() *ControllerMap {
	return &ControllerMap{}
}

// Len reports the number of controllers.
func (m *ControllerMap) Len() int { return len(m.entries) }

func (m *ControllerMap) find(id ControllerID) (int, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return Compare(m.entries[i].id, id) >= 0
	})
	if i < len(m.entries) && Compare(m.entries[i].id, id) == 0 {
		return i, true
	}
	return i, false
}

// Get returns the controller for id.
func (m *ControllerMap) Get(id ControllerID) (SavedController, bool) {
	if i, ok := m.find(id); ok {
		return m.entries[i].controller, true
	}
	return SavedController{}, false
}

// Set inserts or replaces one controller, keeping the map ordered.
func (m *ControllerMap) Set(id ControllerID, controller SavedController) {
	i, ok := m.find(id)
	if ok {
		m.entries[i].controller = controller
		return
	}
	m.entries = append(m.entries, controllerEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = controllerEntry{id: id, controller: controller}
}

// Delete removes one controller.
func (m *ControllerMap) Delete(id ControllerID) {
	if i, ok := m.find(id); ok {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
	}
}

// IDs returns every controller id in Compare order.
func (m *ControllerMap) IDs() []ControllerID {
	ids := make([]ControllerID, len(m.entries))
	for i, e := range m.entries {
		ids[i] = e.id
	}
	return ids
}

// Each calls fn for every controller in Compare order.
func (m *ControllerMap) Each(fn func(id ControllerID, controller SavedController)) {
	for _, e := range m.entries {
		fn(e.id, e.controller)
	}
}

// SetSelection updates one controller's selection after validating it
// against the controller's current availability.
func (m *ControllerMap) SetSelection(id ControllerID, sel Selection) error {
	i, ok := m.find(id)
	if !ok {
		return fmt.Errorf("set selection: unknown controller %v", id)
	}
	entry := &m.entries[i]
	if entry.controller.GrayedOut {
		return fmt.Errorf("set selection: controller %v is grayed out", id)
	}
	if err := entry.controller.Available.Validate(sel); err != nil {
		return err
	}
	entry.controller.Selection = sel
	return nil
}

// savedControllerWire is the second element of each wire pair: the selection
// plus the availability parameters. grayedOut and resetOnPhaseStart live
// inside availableAbilityData, next to the selection constraint itself.
type savedControllerWire struct {
	Selection json.RawMessage          `json:"selection"`
	Available controllerParametersWire `json:"availableAbilityData"`
}

type controllerParametersWire struct {
	Available         json.RawMessage `json:"available"`
	GrayedOut         bool            `json:"grayedOut"`
	ResetOnPhaseStart *game.PhaseType `json:"resetOnPhaseStart"`
}

// DecodeControllerMap parses the server's full controller replacement. The
// wire form is a list of [id, controller] pairs because controller ids are
// structured keys.
func DecodeControllerMap(raw json.RawMessage) (*ControllerMap, error) {
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("decode controller map: %w", err)
	}
	m := NewControllerMap()
	for _, pair := range pairs {
		id, err := DecodeControllerID(pair[0])
		if err != nil {
			return nil, err
		}
		var wire savedControllerWire
		if err := json.Unmarshal(pair[1], &wire); err != nil {
			return nil, fmt.Errorf("decode controller map: %w", err)
		}
		available, err := DecodeAvailable(wire.Available.Available)
		if err != nil {
			return nil, err
		}
		var selection Selection
		if len(wire.Selection) != 0 && string(wire.Selection) != "null" {
			selection, err = DecodeSelection(wire.Selection)
			if err != nil {
				return nil, err
			}
		} else {
			selection = EmptySelection(available)
		}
		if selection.SelectionKind() != available.SelectionKind() {
			return nil, fmt.Errorf("decode controller map: selection %q does not match availability %q",
				selection.SelectionKind(), available.SelectionKind())
		}
		m.Set(id, SavedController{
			Selection:         selection,
			Available:         available,
			GrayedOut:         wire.Available.GrayedOut,
			ResetOnPhaseStart: wire.Available.ResetOnPhaseStart,
		})
	}
	return m, nil
}

// EncodeControllerMap renders the map back to its pair-list wire form.
func EncodeControllerMap(m *ControllerMap) ([]byte, error) {
	pairs := make([][2]json.RawMessage, 0, m.Len())
	var encodeErr error
	m.Each(func(id ControllerID, controller SavedController) {
		if encodeErr != nil {
			return
		}
		rawID, err := EncodeControllerID(id)
		if err != nil {
			encodeErr = err
			return
		}
		rawSel, err := EncodeSelection(controller.Selection)
		if err != nil {
			encodeErr = err
			return
		}
		rawAv, err := EncodeAvailable(controller.Available)
		if err != nil {
			encodeErr = err
			return
		}
		body, err := json.Marshal(savedControllerWire{
			Selection: rawSel,
			Available: controllerParametersWire{
				Available:         rawAv,
				GrayedOut:         controller.GrayedOut,
				ResetOnPhaseStart: controller.ResetOnPhaseStart,
			},
		})
		if err != nil {
			encodeErr = err
			return
		}
		pairs = append(pairs, [2]json.RawMessage{rawID, body})
	})
	if encodeErr != nil {
		return nil, encodeErr
	}
	return json.Marshal(pairs)
}
