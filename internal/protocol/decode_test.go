package protocol

import (
	"testing"

	"nightfall/client/internal/ability"
	"nightfall/client/internal/game"
)

func TestDecodeRoutesByTag(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want EventTag
	}{
		{name: "pong", raw: `{"type":"pong"}`, want: EventPong},
		{name: "acceptJoin", raw: `{"type":"acceptJoin","roomCode":42,"inGame":false,"playerId":5,"spectator":false}`, want: EventAcceptJoin},
		{name: "gamePlayers", raw: `{"type":"gamePlayers","players":["ana","bo"]}`, want: EventGamePlayers},
		{name: "phaseTimeLeft", raw: `{"type":"phaseTimeLeft","timeLeftMs":3000}`, want: EventPhaseTimeLeft},
		{name: "gameOver", raw: `{"type":"gameOver","reason":"draw"}`, want: EventGameOver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := Decode([]byte(tc.raw))
			if err != nil {
				t.Fatalf("expected event, got error %v", err)
			}
			if event.Tag() != tc.want {
				t.Fatalf("expected tag %q, got %q", tc.want, event.Tag())
			}
		})
	}
}

func TestDecodeAcceptJoinFields(t *testing.T) {
	event, err := Decode([]byte(`{"type":"acceptJoin","roomCode":42,"inGame":true,"playerId":5,"spectator":true}`))
	if err != nil {
		t.Fatalf("expected event, got error %v", err)
	}
	accept := event.(AcceptJoin)
	if accept.RoomCode != 42 || accept.PlayerID != 5 || !accept.InGame || !accept.Spectator {
		t.Fatalf("unexpected acceptJoin %#v", accept)
	}
}

func TestDecodeUnknownTagIsNotAnError(t *testing.T) {
	event, err := Decode([]byte(`{"type":"solarEclipse","duration":90}`))
	if err != nil {
		t.Fatalf("expected unknown event, got error %v", err)
	}
	unknown, ok := event.(UnknownEvent)
	if !ok {
		t.Fatalf("expected UnknownEvent, got %T", event)
	}
	if unknown.EventTag != EventTag("solarEclipse") {
		t.Fatalf("expected tag solarEclipse, got %q", unknown.EventTag)
	}
	if len(unknown.Raw) == 0 {
		t.Fatalf("expected raw frame to be preserved")
	}
}

func TestDecodeMalformedFrameIsAnError(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected error for malformed frame, got nil")
	}
	if _, err := Decode([]byte(`{"roomCode":42}`)); err == nil {
		t.Fatalf("expected error for missing tag, got nil")
	}
}

func TestDecodePhaseEvent(t *testing.T) {
	raw := `{"type":"phase","phase":{"type":"judgement","trialsLeft":2,"playerOnTrial":3},"dayNumber":4}`
	event, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected event, got error %v", err)
	}
	phase := event.(PhaseEvent)
	if phase.DayNumber != 4 {
		t.Fatalf("expected day 4, got %d", phase.DayNumber)
	}
	judgement, ok := phase.Phase.(game.Judgement)
	if !ok {
		t.Fatalf("expected judgement phase, got %T", phase.Phase)
	}
	if judgement.PlayerOnTrial != 3 || judgement.TrialsLeft != 2 {
		t.Fatalf("unexpected judgement %#v", judgement)
	}
}

func TestDecodePlayerVotesParsesIndexKeys(t *testing.T) {
	raw := `{"type":"playerVotes","votesForPlayer":{"0":2,"3":1}}`
	event, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected event, got error %v", err)
	}
	votes := event.(PlayerVotes)
	if votes.Votes[0] != 2 || votes.Votes[3] != 1 {
		t.Fatalf("unexpected votes %#v", votes.Votes)
	}
}

func TestDecodeYourAllowedControllers(t *testing.T) {
	raw := `{"type":"yourAllowedControllers","save":[
		[
			{"type":"nominate","player":1},
			{
				"selection": {"type":"playerList","selection":[4]},
				"availableAbilityData": {
					"available": {"type":"playerList","availablePlayers":[2,4],"canChooseDuplicates":false},
					"grayedOut": false,
					"resetOnPhaseStart": "obituary"
				}
			}
		]
	]}`
	event, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected event, got error %v", err)
	}
	controllers := event.(YourAllowedControllers).Controllers
	saved, ok := controllers.Get(ability.NominateID{Player: 1})
	if !ok {
		t.Fatalf("expected nominate controller")
	}
	sel := saved.Selection.(ability.PlayerListSelection)
	if len(sel.Players) != 1 || sel.Players[0] != 4 {
		t.Fatalf("unexpected selection %#v", sel)
	}
}

func TestDecodeLobbyList(t *testing.T) {
	raw := `{"type":"lobbyList","lobbies":{"7":{"name":"town","inGame":false,"players":["ana"]}}}`
	event, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected event, got error %v", err)
	}
	list := event.(LobbyList)
	preview, ok := list.Lobbies[7]
	if !ok {
		t.Fatalf("expected room 7, got %#v", list.Lobbies)
	}
	if preview.Name != "town" || len(preview.Players) != 1 {
		t.Fatalf("unexpected preview %#v", preview)
	}
}

func TestDecodeAddChatMessages(t *testing.T) {
	raw := `{"type":"addChatMessages","chatMessages":[
		{"variant":{"type":"normal","messageSender":0,"text":"gm","block":false},"chatGroup":"all"},
		{"variant":{"type":"unmappedFutureVariant","x":1}}
	]}`
	event, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("expected event, got error %v", err)
	}
	messages := event.(AddChatMessages).Messages
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if _, ok := messages[0].Variant.(game.NormalMessage); !ok {
		t.Fatalf("expected normal message, got %T", messages[0].Variant)
	}
	if _, ok := messages[1].Variant.(game.UnknownChatVariant); !ok {
		t.Fatalf("expected unknown variant to be tolerated, got %T", messages[1].Variant)
	}
}
