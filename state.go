// Package client is the state-reconciliation core for a social-deduction
// game client. It consumes the server's ordered event stream, folds each
// event into an authoritative local session state, and fans change
// notifications out to whatever front end sits on top. The server is always
// right: nothing here predicts, interpolates or rolls back.
package client

import (
	"nightfall/client/internal/ability"
	"nightfall/client/internal/game"
)

// StateKind tags the four root states.
type StateKind string

const (
	KindDisconnected StateKind = "disconnected"
	KindBrowsing     StateKind = "browsing"
	KindLobby        StateKind = "lobby"
	KindGame         StateKind = "game"
)

// SessionState is the root of everything the client knows. Exactly one
// variant is live at a time; transitions replace the whole root.
type SessionState interface {
	Kind() StateKind
}

// Disconnected is the root before a connection exists or after it is gone.
type Disconnected struct{}

// Browsing is the room browser, outside any room.
type Browsing struct {
	Lobbies map[game.RoomCode]game.LobbyPreview
}

// Lobby is a joined room before the game starts.
type Lobby struct {
	RoomCode game.RoomCode
	MyID     game.LobbyClientID
	Name     string
	Clients  *game.ClientList

	RoleList         game.RoleList
	PhaseTimes       game.PhaseTimes
	EnabledRoles     []game.Role
	EnabledModifiers []game.ModifierType

	ChatMessages []game.ChatMessage
	// HostView is the host-only roster detail, present only after a
	// hostData response.
	HostView *game.ClientList
}

// Game is a running game, either as a seated participant or a spectator.
type Game struct {
	RoomCode  game.RoomCode
	MyID      game.LobbyClientID
	LobbyName string

	// Initialized flips exactly once, on gameInitializationComplete. Until
	// then the snapshot is still streaming in and the UI shows a loading
	// screen.
	Initialized bool

	Players []game.Player
	Graves  []game.Grave

	ChatMessages []game.ChatMessage
	// MissedChatMessages is the chat notification dot: set whenever messages
	// arrive in game, cleared by MarkChatRead when the front end opens chat.
	MissedChatMessages bool
	// NightSummary is the batch of night results shown at dawn, replaced
	// wholesale each obituary.
	NightSummary []game.ChatMessage

	Phase      game.PhaseState
	DayNumber  uint8
	TimeLeftMs *int64
	// Ticking is cleared by gameOver so the countdown freezes on the final
	// screen.
	Ticking     bool
	FastForward bool

	PhaseTimes       game.PhaseTimes
	RoleList         game.RoleList
	EnabledRoles     []game.Role
	EnabledModifiers []game.ModifierType

	ClientRole ClientRole
}

func (Disconnected) Kind() StateKind { return KindDisconnected }
func (Browsing) Kind() StateKind     { return KindBrowsing }
func (Lobby) Kind() StateKind        { return KindLobby }
func (Game) Kind() StateKind         { return KindGame }

// ClientRole is how this client participates in a running game.
type ClientRole interface {
	IsSpectator() bool
}

// Spectator watches; no seat, no private state.
type Spectator struct{}

func (Spectator) IsSpectator() bool { return true }

// Participant is a seated player's private state.
type Participant struct {
	MyIndex game.PlayerIndex

	RoleState game.RoleState

	Will               string
	Notes              []string
	CrossedOutOutlines []uint8
	DeathNote          string

	Judgement game.Verdict

	Controllers *ability.ControllerMap

	SendChatGroups []game.ChatGroup
	InsiderGroups  []game.InsiderGroup
	FellowInsiders []game.PlayerIndex

	// MissedWhispers collects whispers addressed to me that arrived while
	// the chat panel may not have been watching.
	MissedWhispers []game.ChatMessage
}

func (*Participant) IsSpectator() bool { return false }

// Participant returns the participant state, or nil when spectating or not
// in a game.
func (g Game) Participant() *Participant {
	if p, ok := g.ClientRole.(*Participant); ok {
		return p
	}
	return nil
}
