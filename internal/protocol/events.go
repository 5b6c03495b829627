// Package protocol is the wire layer: the closed unions of server events and
// client intents, and the envelope codec that routes between JSON and them.
// It knows nothing about session state; it only names what can be said.
package protocol

import (
	"encoding/json"

	"nightfall/client/internal/ability"
	"nightfall/client/internal/game"
)

// EventTag discriminates server-to-client messages.
type EventTag string

const (
	EventPong                       EventTag = "pong"
	EventRateLimitExceeded          EventTag = "rateLimitExceeded"
	EventForcedOutsideLobby         EventTag = "forcedOutsideLobby"
	EventForcedDisconnect           EventTag = "forcedDisconnect"
	EventLobbyList                  EventTag = "lobbyList"
	EventAcceptJoin                 EventTag = "acceptJoin"
	EventRejectJoin                 EventTag = "rejectJoin"
	EventRejectStart                EventTag = "rejectStart"
	EventPlayersHost                EventTag = "playersHost"
	EventPlayersReady               EventTag = "playersReady"
	EventPlayersLostConnection      EventTag = "playersLostConnection"
	EventYourID                     EventTag = "yourId"
	EventYourPlayerIndex            EventTag = "yourPlayerIndex"
	EventYourFellowInsiders         EventTag = "yourFellowInsiders"
	EventLobbyClients               EventTag = "lobbyClients"
	EventHostData                   EventTag = "hostData"
	EventLobbyName                  EventTag = "lobbyName"
	EventStartGame                  EventTag = "startGame"
	EventGameInitializationComplete EventTag = "gameInitializationComplete"
	EventBackToLobby                EventTag = "backToLobby"
	EventGamePlayers                EventTag = "gamePlayers"
	EventRoleList                   EventTag = "roleList"
	EventRoleOutline                EventTag = "roleOutline"
	EventPhaseTime                  EventTag = "phaseTime"
	EventPhaseTimes                 EventTag = "phaseTimes"
	EventEnabledRoles               EventTag = "enabledRoles"
	EventEnabledModifiers           EventTag = "enabledModifiers"
	EventPhase                      EventTag = "phase"
	EventPhaseTimeLeft              EventTag = "phaseTimeLeft"
	EventPlayerAlive                EventTag = "playerAlive"
	EventPlayerVotes                EventTag = "playerVotes"
	EventYourSendChatGroups         EventTag = "yourSendChatGroups"
	EventYourInsiderGroups          EventTag = "yourInsiderGroups"
	EventYourAllowedControllers     EventTag = "yourAllowedControllers"
	EventYourRoleLabels             EventTag = "yourRoleLabels"
	EventYourPlayerTags             EventTag = "yourPlayerTags"
	EventYourWill                   EventTag = "yourWill"
	EventYourNotes                  EventTag = "yourNotes"
	EventYourCrossedOutOutlines     EventTag = "yourCrossedOutOutlines"
	EventYourDeathNote              EventTag = "yourDeathNote"
	EventYourRoleState              EventTag = "yourRoleState"
	EventYourJudgement              EventTag = "yourJudgement"
	EventYourVoteFastForwardPhase   EventTag = "yourVoteFastForwardPhase"
	EventAddChatMessages            EventTag = "addChatMessages"
	EventNightMessages              EventTag = "nightMessages"
	EventAddGrave                   EventTag = "addGrave"
	EventGameOver                   EventTag = "gameOver"
)

// Event is one server-to-client message. The union is closed except for
// UnknownEvent, which absorbs tags newer than this client.
type Event interface {
	Tag() EventTag
}

// RejectJoinReason says why a join or rejoin was refused. Unknown codes are
// carried verbatim.
type RejectJoinReason string

const (
	RejectRoomDoesntExist    RejectJoinReason = "roomDoesntExist"
	RejectGameAlreadyStarted RejectJoinReason = "gameAlreadyStarted"
	RejectRoomFull           RejectJoinReason = "roomFull"
	RejectServerBusy         RejectJoinReason = "serverBusy"
	RejectPlayerTaken        RejectJoinReason = "playerTaken"
	RejectPlayerDoesntExist  RejectJoinReason = "playerDoesntExist"
)

// RejectStartReason says why the host's start request was refused.
type RejectStartReason string

const (
	RejectGameEndsInstantly    RejectStartReason = "gameEndsInstantly"
	RejectRoleListTooSmall     RejectStartReason = "roleListTooSmall"
	RejectRoleListCannotCreate RejectStartReason = "roleListCannotCreateRoles"
	RejectZeroTimeGame         RejectStartReason = "zeroTimeGame"
	RejectTooManyClients       RejectStartReason = "tooManyClients"
)

// GameOverReason says how the game ended.
type GameOverReason string

const (
	GameOverReachedMaxDay GameOverReason = "reachedMaxDay"
	GameOverDraw          GameOverReason = "draw"
)

type (
	// Pong answers a ping.
	Pong struct{}
	// RateLimitExceeded warns that the server is dropping this client's sends.
	RateLimitExceeded struct{}
	// ForcedOutsideLobby kicks this client back to the room browser.
	ForcedOutsideLobby struct{}
	// ForcedDisconnect ends the connection server-side.
	ForcedDisconnect struct{}
	// LobbyList is the public room browser contents.
	LobbyList struct {
		Lobbies map[game.RoomCode]game.LobbyPreview
	}
	// AcceptJoin confirms a join/host/rejoin and anchors room identity.
	AcceptJoin struct {
		RoomCode  game.RoomCode      `json:"roomCode"`
		InGame    bool               `json:"inGame"`
		PlayerID  game.LobbyClientID `json:"playerId"`
		Spectator bool               `json:"spectator"`
	}
	// RejectJoin refuses a join/host/rejoin.
	RejectJoin struct {
		Reason RejectJoinReason `json:"reason"`
	}
	// RejectStart refuses the host's start request.
	RejectStart struct {
		Reason RejectStartReason `json:"reason"`
	}
	// PlayersHost replaces the set of hosts.
	PlayersHost struct {
		Hosts []game.LobbyClientID `json:"hosts"`
	}
	// PlayersReady replaces the set of ready clients.
	PlayersReady struct {
		Ready []game.LobbyClientID `json:"ready"`
	}
	// PlayersLostConnection marks clients whose link dropped.
	PlayersLostConnection struct {
		Lost []game.LobbyClientID `json:"lostConnection"`
	}
	// YourID tells this client its lobby client id.
	YourID struct {
		ID game.LobbyClientID `json:"id"`
	}
	// YourPlayerIndex tells this client its seat.
	YourPlayerIndex struct {
		Index game.PlayerIndex `json:"playerIndex"`
	}
	// YourFellowInsiders lists the seats sharing an insider group with you.
	YourFellowInsiders struct {
		Players []game.PlayerIndex `json:"fellowInsiders"`
	}
	// LobbyClients replaces the room roster.
	LobbyClients struct {
		Clients *game.ClientList
	}
	// HostData is the host-only roster view.
	HostData struct {
		Clients *game.ClientList
	}
	// LobbyName renames the room.
	LobbyName struct {
		Name string `json:"name"`
	}
	// StartGame moves the room from lobby to game.
	StartGame struct{}
	// GameInitializationComplete marks the initial game snapshot as complete.
	GameInitializationComplete struct{}
	// BackToLobby moves the room from game back to lobby.
	BackToLobby struct{}
	// GamePlayers replaces the seat roster names.
	GamePlayers struct {
		Players []string `json:"players"`
	}
	// RoleListEvent replaces the room's role list.
	RoleListEvent struct {
		RoleList game.RoleList
	}
	// RoleOutlineEvent replaces one role list slot.
	RoleOutlineEvent struct {
		Index   uint8
		Outline game.RoleOutline
	}
	// PhaseTime sets one phase's configured length.
	PhaseTime struct {
		Phase game.PhaseType `json:"phase"`
		Time  uint64         `json:"time"`
	}
	// PhaseTimesEvent replaces all configured phase lengths.
	PhaseTimesEvent struct {
		Times game.PhaseTimes `json:"phaseTimeSettings"`
	}
	// EnabledRoles replaces the enabled role set.
	EnabledRoles struct {
		Roles []game.Role `json:"roles"`
	}
	// EnabledModifiers replaces the enabled modifier set.
	EnabledModifiers struct {
		Modifiers []game.ModifierType `json:"modifiers"`
	}
	// PhaseEvent is a server-driven phase transition.
	PhaseEvent struct {
		Phase     game.PhaseState
		DayNumber uint8
	}
	// PhaseTimeLeft resets the countdown; nil means the phase is untimed.
	PhaseTimeLeft struct {
		Milliseconds *int64 `json:"timeLeftMs"`
	}
	// PlayerAlive replaces every seat's alive flag.
	PlayerAlive struct {
		Alive []bool `json:"alive"`
	}
	// PlayerVotes zeroes all vote counts then applies the sent ones.
	PlayerVotes struct {
		Votes map[game.PlayerIndex]uint8
	}
	// YourSendChatGroups replaces the channels this client may send to.
	YourSendChatGroups struct {
		Groups []game.ChatGroup `json:"sendChatGroups"`
	}
	// YourInsiderGroups replaces this client's insider groups.
	YourInsiderGroups struct {
		Groups []game.InsiderGroup `json:"insiderGroups"`
	}
	// YourAllowedControllers replaces the whole controller map.
	YourAllowedControllers struct {
		Controllers *ability.ControllerMap
	}
	// YourRoleLabels replaces every role label visible to this client.
	YourRoleLabels struct {
		Labels map[game.PlayerIndex]game.Role
	}
	// YourPlayerTags replaces every nameplate tag visible to this client.
	YourPlayerTags struct {
		Tags map[game.PlayerIndex][]game.Tag
	}
	// YourWill is the server-acknowledged will text.
	YourWill struct {
		Will string `json:"will"`
	}
	// YourNotes is the server-acknowledged notes pages.
	YourNotes struct {
		Notes []string `json:"notes"`
	}
	// YourCrossedOutOutlines is the server-acknowledged strike list.
	YourCrossedOutOutlines struct {
		Outlines []uint8 `json:"crossedOutOutlines"`
	}
	// YourDeathNote is the server-acknowledged death note.
	YourDeathNote struct {
		DeathNote string `json:"deathNote"`
	}
	// YourRoleState replaces this client's private role state.
	YourRoleState struct {
		RoleState game.RoleState
	}
	// YourJudgement is this client's current judgement vote.
	YourJudgement struct {
		Verdict game.Verdict `json:"verdict"`
	}
	// YourVoteFastForwardPhase toggles this client's fast-forward vote.
	YourVoteFastForwardPhase struct {
		FastForward bool `json:"fastForward"`
	}
	// AddChatMessages appends to the chat log.
	AddChatMessages struct {
		Messages []game.ChatMessage
	}
	// NightMessages is the night summary shown at dawn.
	NightMessages struct {
		Messages []game.ChatMessage
	}
	// AddGrave appends a headstone.
	AddGrave struct {
		Grave game.Grave
	}
	// GameOver ends the game without a back-to-lobby.
	GameOver struct {
		Reason GameOverReason `json:"reason"`
	}
	// UnknownEvent is any tag this client does not know. Dropped after
	// logging; never an error.
	UnknownEvent struct {
		EventTag EventTag
		Raw      json.RawMessage
	}
)

func (Pong) Tag() EventTag                       { return EventPong }
func (RateLimitExceeded) Tag() EventTag          { return EventRateLimitExceeded }
func (ForcedOutsideLobby) Tag() EventTag         { return EventForcedOutsideLobby }
func (ForcedDisconnect) Tag() EventTag           { return EventForcedDisconnect }
func (LobbyList) Tag() EventTag                  { return EventLobbyList }
func (AcceptJoin) Tag() EventTag                 { return EventAcceptJoin }
func (RejectJoin) Tag() EventTag                 { return EventRejectJoin }
func (RejectStart) Tag() EventTag                { return EventRejectStart }
func (PlayersHost) Tag() EventTag                { return EventPlayersHost }
func (PlayersReady) Tag() EventTag               { return EventPlayersReady }
func (PlayersLostConnection) Tag() EventTag      { return EventPlayersLostConnection }
func (YourID) Tag() EventTag                     { return EventYourID }
func (YourPlayerIndex) Tag() EventTag            { return EventYourPlayerIndex }
func (YourFellowInsiders) Tag() EventTag         { return EventYourFellowInsiders }
func (LobbyClients) Tag() EventTag               { return EventLobbyClients }
func (HostData) Tag() EventTag                   { return EventHostData }
func (LobbyName) Tag() EventTag                  { return EventLobbyName }
func (StartGame) Tag() EventTag                  { return EventStartGame }
func (GameInitializationComplete) Tag() EventTag { return EventGameInitializationComplete }
func (BackToLobby) Tag() EventTag                { return EventBackToLobby }
func (GamePlayers) Tag() EventTag                { return EventGamePlayers }
func (RoleListEvent) Tag() EventTag              { return EventRoleList }
func (RoleOutlineEvent) Tag() EventTag           { return EventRoleOutline }
func (PhaseTime) Tag() EventTag                  { return EventPhaseTime }
func (PhaseTimesEvent) Tag() EventTag            { return EventPhaseTimes }
func (EnabledRoles) Tag() EventTag               { return EventEnabledRoles }
func (EnabledModifiers) Tag() EventTag           { return EventEnabledModifiers }
func (PhaseEvent) Tag() EventTag                 { return EventPhase }
func (PhaseTimeLeft) Tag() EventTag              { return EventPhaseTimeLeft }
func (PlayerAlive) Tag() EventTag                { return EventPlayerAlive }
func (PlayerVotes) Tag() EventTag                { return EventPlayerVotes }
func (YourSendChatGroups) Tag() EventTag         { return EventYourSendChatGroups }
func (YourInsiderGroups) Tag() EventTag          { return EventYourInsiderGroups }
func (YourAllowedControllers) Tag() EventTag     { return EventYourAllowedControllers }
func (YourRoleLabels) Tag() EventTag             { return EventYourRoleLabels }
func (YourPlayerTags) Tag() EventTag             { return EventYourPlayerTags }
func (YourWill) Tag() EventTag                   { return EventYourWill }
func (YourNotes) Tag() EventTag                  { return EventYourNotes }
func (YourCrossedOutOutlines) Tag() EventTag     { return EventYourCrossedOutOutlines }
func (YourDeathNote) Tag() EventTag              { return EventYourDeathNote }
func (YourRoleState) Tag() EventTag              { return EventYourRoleState }
func (YourJudgement) Tag() EventTag              { return EventYourJudgement }
func (YourVoteFastForwardPhase) Tag() EventTag   { return EventYourVoteFastForwardPhase }
func (AddChatMessages) Tag() EventTag            { return EventAddChatMessages }
func (NightMessages) Tag() EventTag              { return EventNightMessages }
func (AddGrave) Tag() EventTag                   { return EventAddGrave }
func (GameOver) Tag() EventTag                   { return EventGameOver }
func (u UnknownEvent) Tag() EventTag             { return u.EventTag }
