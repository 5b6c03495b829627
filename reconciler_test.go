package client

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nightfall/client/internal/ability"
	"nightfall/client/internal/game"
	"nightfall/client/internal/protocol"
)

// exportAll lets cmp walk the ordered containers' internals.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func ms(v int64) *int64 { return &v }

func testGame() Game {
	return Game{
		RoomCode:    42,
		MyID:        5,
		Initialized: true,
		Players: []game.Player{
			game.NewPlayer("ana", 0),
			game.NewPlayer("bo", 1),
			game.NewPlayer("cy", 2),
		},
		Phase:      game.Discussion{},
		DayNumber:  1,
		TimeLeftMs: ms(30000),
		Ticking:    true,
		PhaseTimes: game.DefaultPhaseTimes(),
		ClientRole: &Participant{MyIndex: 1},
	}
}

func TestGameScopedEventsAreNoOpsOutsideGame(t *testing.T) {
	events := []protocol.Event{
		protocol.GamePlayers{Players: []string{"ana"}},
		protocol.PhaseEvent{Phase: game.Night{}, DayNumber: 2},
		protocol.PhaseTimeLeft{Milliseconds: ms(1000)},
		protocol.PlayerAlive{Alive: []bool{true}},
		protocol.PlayerVotes{Votes: map[game.PlayerIndex]uint8{0: 1}},
		protocol.YourRoleState{RoleState: game.BasicState{RoleName: game.RoleVillager}},
		protocol.YourJudgement{Verdict: game.VerdictGuilty},
		protocol.AddGrave{Grave: game.Grave{Player: 0}},
		protocol.GameInitializationComplete{},
		protocol.YourVoteFastForwardPhase{FastForward: true},
	}
	roots := []SessionState{
		Disconnected{},
		Lobby{RoomCode: 42, MyID: 5, Clients: game.NewClientList()},
	}
	for _, root := range roots {
		for _, ev := range events {
			got := Reduce(root, ev)
			if diff := cmp.Diff(root, got, exportAll); diff != "" {
				t.Fatalf("expected %s on %s root to be a no-op, diff:\n%s", ev.Tag(), root.Kind(), diff)
			}
		}
	}
}

func TestGamePlayersUnchangedNamesKeepsSlice(t *testing.T) {
	g := testGame()
	got := Reduce(g, protocol.GamePlayers{Players: []string{"ana", "bo", "cy"}})
	next := got.(Game)
	if &next.Players[0] != &g.Players[0] {
		t.Fatalf("expected unchanged roster to keep the same players slice")
	}
}

func TestGamePlayersChangedNamesRebuilds(t *testing.T) {
	g := testGame()
	g.Players[2].Alive = false
	got := Reduce(g, protocol.GamePlayers{Players: []string{"ana", "dee", "cy"}}).(Game)
	if got.Players[1].Name != "dee" {
		t.Fatalf("expected new name dee, got %q", got.Players[1].Name)
	}
	if !got.Players[1].Alive {
		t.Fatalf("expected fresh player to be alive")
	}
	if got.Players[2].Alive {
		t.Fatalf("expected matching player to keep its state")
	}
	if g.Players[1].Name != "bo" {
		t.Fatalf("expected input state untouched, got %q", g.Players[1].Name)
	}
}

func TestStartGameCarriesLobbyIdentity(t *testing.T) {
	clients := game.NewClientList()
	clients.Set(5, game.LobbyClient{Ready: game.ReadyHost, Type: game.PlayerClient{Name: "ana"}})
	lobby := Lobby{
		RoomCode:   42,
		MyID:       5,
		Name:       "town of nightfall",
		Clients:    clients,
		PhaseTimes: game.DefaultPhaseTimes(),
		RoleList:   game.RoleList{{Options: []game.RoleOutlineOption{game.RoleSetOption{RoleSet: game.RoleSetAny}}}},
	}

	got := Reduce(lobby, protocol.StartGame{})
	g, ok := got.(Game)
	if !ok {
		t.Fatalf("expected Game root, got %T", got)
	}
	if g.RoomCode != 42 || g.MyID != 5 || g.LobbyName != "town of nightfall" {
		t.Fatalf("expected identity carried over, got %#v", g)
	}
	if g.Initialized {
		t.Fatalf("expected initialized=false until gameInitializationComplete")
	}
	if len(g.RoleList) != 1 {
		t.Fatalf("expected role list carried over")
	}
	if g.ClientRole.IsSpectator() {
		t.Fatalf("expected participant for a player client")
	}

	done := Reduce(g, protocol.GameInitializationComplete{}).(Game)
	if !done.Initialized {
		t.Fatalf("expected gameInitializationComplete to flip initialized")
	}
}

func TestStartGameSpectatorFromLobbyEntry(t *testing.T) {
	clients := game.NewClientList()
	clients.Set(5, game.LobbyClient{Ready: game.ReadyNotReady, Type: game.SpectatorClient{}})
	lobby := Lobby{RoomCode: 1, MyID: 5, Clients: clients}

	g := Reduce(lobby, protocol.StartGame{}).(Game)
	if !g.ClientRole.IsSpectator() {
		t.Fatalf("expected spectator role carried from lobby entry")
	}
}

func TestAcceptJoinRebuildsRoot(t *testing.T) {
	got := Reduce(Disconnected{}, protocol.AcceptJoin{RoomCode: 9, PlayerID: 3, InGame: false})
	lobby, ok := got.(Lobby)
	if !ok {
		t.Fatalf("expected Lobby root, got %T", got)
	}
	if lobby.RoomCode != 9 || lobby.MyID != 3 {
		t.Fatalf("unexpected lobby identity %#v", lobby)
	}

	got = Reduce(Disconnected{}, protocol.AcceptJoin{RoomCode: 9, PlayerID: 3, InGame: true, Spectator: true})
	g, ok := got.(Game)
	if !ok {
		t.Fatalf("expected Game root, got %T", got)
	}
	if !g.ClientRole.IsSpectator() {
		t.Fatalf("expected spectator game root")
	}
	if g.Initialized {
		t.Fatalf("expected uninitialized game root until snapshot completes")
	}
}

func TestBackToLobbyKeepsIdentityDropsGameData(t *testing.T) {
	g := testGame()
	g.LobbyName = "late night"
	g.Graves = []game.Grave{{Player: 0}}

	got := Reduce(g, protocol.BackToLobby{})
	lobby, ok := got.(Lobby)
	if !ok {
		t.Fatalf("expected Lobby root, got %T", got)
	}
	if lobby.RoomCode != 42 || lobby.MyID != 5 || lobby.Name != "late night" {
		t.Fatalf("unexpected lobby identity %#v", lobby)
	}
}

func TestPlayerVotesZeroThenApply(t *testing.T) {
	g := testGame()
	g.Players[0].NumVoted = 4
	g.Players[2].NumVoted = 2

	got := Reduce(g, protocol.PlayerVotes{Votes: map[game.PlayerIndex]uint8{1: 3, 9: 1}}).(Game)
	if got.Players[0].NumVoted != 0 || got.Players[2].NumVoted != 0 {
		t.Fatalf("expected old counts zeroed, got %#v", got.Players)
	}
	if got.Players[1].NumVoted != 3 {
		t.Fatalf("expected player 1 to have 3 votes, got %d", got.Players[1].NumVoted)
	}
}

func TestRoleLabelsClearThenApply(t *testing.T) {
	g := testGame()
	g.Players[0].RoleLabel = game.RoleDoctor

	got := Reduce(g, protocol.YourRoleLabels{Labels: map[game.PlayerIndex]game.Role{
		2: game.RoleMafioso,
		9: game.RoleJester,
	}}).(Game)
	if got.Players[0].RoleLabel != game.RoleNone {
		t.Fatalf("expected stale label cleared, got %q", got.Players[0].RoleLabel)
	}
	if got.Players[2].RoleLabel != game.RoleMafioso {
		t.Fatalf("expected new label applied, got %q", got.Players[2].RoleLabel)
	}
}

func TestPlayerTagsClearThenApply(t *testing.T) {
	g := testGame()
	g.Players[1].Tags = []game.Tag{game.TagFrame}

	got := Reduce(g, protocol.YourPlayerTags{Tags: map[game.PlayerIndex][]game.Tag{
		0: {game.TagDoused},
	}}).(Game)
	if got.Players[1].Tags != nil {
		t.Fatalf("expected stale tags cleared, got %v", got.Players[1].Tags)
	}
	if len(got.Players[0].Tags) != 1 || got.Players[0].Tags[0] != game.TagDoused {
		t.Fatalf("expected doused tag applied, got %v", got.Players[0].Tags)
	}
}

func TestYourRoleStateReplacesWholeVariant(t *testing.T) {
	g := testGame()
	p := g.Participant()
	p.RoleState = game.JailorState{ExecutionsRemaining: 3}

	got := Reduce(g, protocol.YourRoleState{RoleState: game.VigilanteState{Bullets: 2}}).(Game)
	state, ok := got.Participant().RoleState.(game.VigilanteState)
	if !ok {
		t.Fatalf("expected vigilante state, got %T", got.Participant().RoleState)
	}
	if state.Bullets != 2 {
		t.Fatalf("expected 2 bullets, got %d", state.Bullets)
	}
}

func TestGameOverStopsTicking(t *testing.T) {
	g := testGame()
	got := Reduce(g, protocol.GameOver{Reason: protocol.GameOverDraw}).(Game)
	if got.Ticking {
		t.Fatalf("expected ticking stopped after game over")
	}
	if got.TimeLeftMs == nil || *got.TimeLeftMs != 30000 {
		t.Fatalf("expected countdown frozen, got %v", got.TimeLeftMs)
	}
}

func TestForcedTransitions(t *testing.T) {
	if _, ok := Reduce(testGame(), protocol.ForcedOutsideLobby{}).(Browsing); !ok {
		t.Fatalf("expected forcedOutsideLobby to produce Browsing")
	}
	if _, ok := Reduce(testGame(), protocol.ForcedDisconnect{}).(Disconnected); !ok {
		t.Fatalf("expected forcedDisconnect to produce Disconnected")
	}
}

func TestAddChatMessagesRecordsMissedWhispers(t *testing.T) {
	g := testGame()
	toMe := game.ChatMessage{Variant: game.WhisperMessage{From: 0, To: 1, Text: "psst"}}
	toOther := game.ChatMessage{Variant: game.WhisperMessage{From: 0, To: 2, Text: "nope"}}

	got := Reduce(g, protocol.AddChatMessages{Messages: []game.ChatMessage{toMe, toOther}}).(Game)
	if len(got.ChatMessages) != 2 {
		t.Fatalf("expected both messages in the log, got %d", len(got.ChatMessages))
	}
	missed := got.Participant().MissedWhispers
	if len(missed) != 1 {
		t.Fatalf("expected 1 missed whisper, got %d", len(missed))
	}
	if w := missed[0].Variant.(game.WhisperMessage); w.Text != "psst" {
		t.Fatalf("expected the whisper addressed to me, got %q", w.Text)
	}
}

func TestAddChatMessagesSetsMissedFlag(t *testing.T) {
	g := testGame()
	msg := game.ChatMessage{Variant: game.NormalMessage{Sender: 0, Text: "hi"}}

	got := Reduce(g, protocol.AddChatMessages{Messages: []game.ChatMessage{msg}}).(Game)
	if !got.MissedChatMessages {
		t.Fatalf("expected missed chat flag after new messages")
	}

	got = Reduce(g, protocol.AddChatMessages{}).(Game)
	if got.MissedChatMessages {
		t.Fatalf("expected no missed chat flag for an empty batch")
	}
}

func TestLobbyReadyAndHostPatches(t *testing.T) {
	clients := game.NewClientList()
	clients.Set(1, game.LobbyClient{Ready: game.ReadyHost, Type: game.PlayerClient{Name: "ana"}})
	clients.Set(2, game.LobbyClient{Ready: game.ReadyNotReady, Type: game.PlayerClient{Name: "bo"}})
	lobby := Lobby{RoomCode: 1, MyID: 2, Clients: clients}

	next := Reduce(lobby, protocol.PlayersHost{Hosts: []game.LobbyClientID{2}}).(Lobby)
	if c, _ := next.Clients.Get(2); c.Ready != game.ReadyHost {
		t.Fatalf("expected client 2 promoted to host, got %q", c.Ready)
	}
	if c, _ := next.Clients.Get(1); c.Ready != game.ReadyNotReady {
		t.Fatalf("expected client 1 demoted, got %q", c.Ready)
	}

	next = Reduce(next, protocol.PlayersReady{Ready: []game.LobbyClientID{1}}).(Lobby)
	if c, _ := next.Clients.Get(1); c.Ready != game.ReadyReady {
		t.Fatalf("expected client 1 ready, got %q", c.Ready)
	}
	if c, _ := next.Clients.Get(2); c.Ready != game.ReadyHost {
		t.Fatalf("expected host untouched by ready patch, got %q", c.Ready)
	}

	next = Reduce(next, protocol.PlayersLostConnection{Lost: []game.LobbyClientID{1}}).(Lobby)
	if c, _ := next.Clients.Get(1); c.Connection != game.ConnectionCouldReconnect {
		t.Fatalf("expected client 1 marked couldReconnect, got %q", c.Connection)
	}

	// patches never reorder the roster
	ids := next.Clients.IDs()
	if ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("expected roster order preserved, got %v", ids)
	}
}

func TestControllerReplaceIsWholesale(t *testing.T) {
	g := testGame()
	old := ability.NewControllerMap()
	old.Set(ability.NominateID{Player: 1}, ability.SavedController{
		Selection: ability.PlayerListSelection{Players: []game.PlayerIndex{0}},
		Available: ability.AvailablePlayerList{Players: []game.PlayerIndex{0, 2}},
	})
	g.Participant().Controllers = old

	fresh := ability.NewControllerMap()
	fresh.Set(ability.ForfeitVoteID{Player: 1}, ability.SavedController{
		Selection: ability.BooleanSelection{},
		Available: ability.AvailableBoolean{},
	})
	got := Reduce(g, protocol.YourAllowedControllers{Controllers: fresh}).(Game)
	controllers := got.Participant().Controllers
	if controllers.Len() != 1 {
		t.Fatalf("expected wholesale replacement, got %d controllers", controllers.Len())
	}
	if _, ok := controllers.Get(ability.NominateID{Player: 1}); ok {
		t.Fatalf("expected old controller gone")
	}
}
