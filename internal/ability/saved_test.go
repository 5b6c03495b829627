package ability

import (
	"encoding/json"
	"errors"
	"testing"

	"nightfall/client/internal/game"
)

func TestDecodeControllerMap(t *testing.T) {
	raw := `[
		[
			{"type":"role","player":2,"role":"vigilante","abilityId":0},
			{
				"selection": {"type":"onePlayerOption","selection":5},
				"availableAbilityData": {
					"available": {"type":"onePlayerOption","availablePlayers":[1,5,6],"canChooseNone":true},
					"grayedOut": false,
					"resetOnPhaseStart": "obituary"
				}
			}
		],
		[
			{"type":"forfeitVote","player":2},
			{
				"selection": null,
				"availableAbilityData": {
					"available": {"type":"boolean"},
					"grayedOut": true,
					"resetOnPhaseStart": null
				}
			}
		]
	]`
	m, err := DecodeControllerMap(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("expected controller map, got error %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 controllers, got %d", m.Len())
	}

	vig, ok := m.Get(RoleControllerID{Player: 2, Role: game.RoleVigilante, ID: 0})
	if !ok {
		t.Fatalf("expected vigilante controller")
	}
	sel := vig.Selection.(OnePlayerOptionSelection)
	if sel.Player == nil || *sel.Player != 5 {
		t.Fatalf("expected selection 5, got %v", sel.Player)
	}
	if vig.ResetOnPhaseStart == nil || *vig.ResetOnPhaseStart != game.PhaseObituary {
		t.Fatalf("expected resetOnPhaseStart obituary, got %v", vig.ResetOnPhaseStart)
	}

	forfeit, ok := m.Get(ForfeitVoteID{Player: 2})
	if !ok {
		t.Fatalf("expected forfeit controller")
	}
	if !forfeit.GrayedOut {
		t.Fatalf("expected grayed out controller")
	}
	if forfeit.ResetOnPhaseStart != nil {
		t.Fatalf("expected nil resetOnPhaseStart, got %v", *forfeit.ResetOnPhaseStart)
	}
	if _, ok := forfeit.Selection.(BooleanSelection); !ok {
		t.Fatalf("expected null selection to default to empty boolean, got %T", forfeit.Selection)
	}
}

// The server serializes its controller map as bare [id, controller] tuples,
// with extra availability parameters the client does not track. Both must
// decode.
func TestDecodeControllerMapServerShape(t *testing.T) {
	raw := `[[
		{"type":"role","player":0,"role":"doctor","abilityId":0},
		{
			"selection": {"type":"onePlayerOption","selection":null},
			"availableAbilityData": {
				"available": {"type":"onePlayerOption","availablePlayers":[1,2,3],"canChooseNone":true},
				"grayedOut": false,
				"resetOnPhaseStart": "night",
				"dontSave": false,
				"defaultSelection": {"type":"onePlayerOption","selection":null},
				"allowedPlayers": [0]
			}
		}
	]]`
	m, err := DecodeControllerMap(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("expected controller map, got error %v", err)
	}
	doc, ok := m.Get(RoleControllerID{Player: 0, Role: game.RoleDoctor, ID: 0})
	if !ok {
		t.Fatalf("expected doctor controller")
	}
	av := doc.Available.(AvailableOnePlayerOption)
	if len(av.Players) != 3 || !av.AllowNone {
		t.Fatalf("unexpected availability %+v", av)
	}
	if doc.ResetOnPhaseStart == nil || *doc.ResetOnPhaseStart != game.PhaseNight {
		t.Fatalf("expected resetOnPhaseStart night, got %v", doc.ResetOnPhaseStart)
	}
}

func TestDecodeControllerMapRejectsKindMismatch(t *testing.T) {
	raw := `[[
		{"type":"forfeitVote","player":0},
		{
			"selection": {"type":"string","selection":"x"},
			"availableAbilityData": {
				"available": {"type":"boolean"},
				"grayedOut": false,
				"resetOnPhaseStart": null
			}
		}
	]]`
	if _, err := DecodeControllerMap(json.RawMessage(raw)); err == nil {
		t.Fatalf("expected error for selection/availability mismatch, got nil")
	}
}

func TestControllerMapSetSelection(t *testing.T) {
	m := NewControllerMap()
	id := RoleControllerID{Player: 0, Role: game.RoleDoctor, ID: 0}
	m.Set(id, SavedController{
		Selection: OnePlayerOptionSelection{},
		Available: AvailableOnePlayerOption{Players: []game.PlayerIndex{1, 2}, AllowNone: true},
	})

	if err := m.SetSelection(id, OnePlayerOptionSelection{Player: player(2)}); err != nil {
		t.Fatalf("expected selection to apply, got %v", err)
	}
	saved, _ := m.Get(id)
	if got := saved.Selection.(OnePlayerOptionSelection); got.Player == nil || *got.Player != 2 {
		t.Fatalf("expected stored selection 2, got %v", got.Player)
	}

	if err := m.SetSelection(id, OnePlayerOptionSelection{Player: player(9)}); !errors.Is(err, ErrPlayerNotOffered) {
		t.Fatalf("expected ErrPlayerNotOffered, got %v", err)
	}
}

func TestControllerMapSetSelectionGrayedOut(t *testing.T) {
	m := NewControllerMap()
	id := ForfeitVoteID{Player: 1}
	m.Set(id, SavedController{
		Selection: BooleanSelection{},
		Available: AvailableBoolean{},
		GrayedOut: true,
	})
	if err := m.SetSelection(id, BooleanSelection{Value: true}); err == nil {
		t.Fatalf("expected error for grayed out controller, got nil")
	}
}

func TestControllerMapRoundTrip(t *testing.T) {
	dusk := game.PhaseDusk
	m := NewControllerMap()
	m.Set(SyndicateGunShootID{}, SavedController{
		Selection: OnePlayerOptionSelection{Player: player(3)},
		Available: AvailableOnePlayerOption{Players: []game.PlayerIndex{3, 4}, AllowNone: true},
	})
	m.Set(NominateID{Player: 0}, SavedController{
		Selection:         PlayerListSelection{Players: []game.PlayerIndex{6}},
		Available:         AvailablePlayerList{Players: []game.PlayerIndex{5, 6}},
		ResetOnPhaseStart: &dusk,
	})

	raw, err := EncodeControllerMap(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeControllerMap(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Len() != 2 {
		t.Fatalf("expected 2 controllers after round trip, got %d", back.Len())
	}
	nom, ok := back.Get(NominateID{Player: 0})
	if !ok {
		t.Fatalf("expected nominate controller after round trip")
	}
	list := nom.Selection.(PlayerListSelection)
	if len(list.Players) != 1 || list.Players[0] != 6 {
		t.Fatalf("expected selection [6], got %v", list.Players)
	}
	if nom.ResetOnPhaseStart == nil || *nom.ResetOnPhaseStart != game.PhaseDusk {
		t.Fatalf("expected resetOnPhaseStart dusk after round trip, got %v", nom.ResetOnPhaseStart)
	}
}
