package protocol

import (
	"encoding/json"
	"fmt"

	"nightfall/client/internal/ability"
	"nightfall/client/internal/game"
)

// IntentTag discriminates client-to-server messages.
type IntentTag string

const (
	IntentPing                   IntentTag = "ping"
	IntentLobbyListRequest       IntentTag = "lobbyListRequest"
	IntentReJoin                 IntentTag = "reJoin"
	IntentJoin                   IntentTag = "join"
	IntentHost                   IntentTag = "host"
	IntentLeave                  IntentTag = "leave"
	IntentKick                   IntentTag = "kick"
	IntentSetPlayerHost          IntentTag = "setPlayerHost"
	IntentRelinquishHost         IntentTag = "relinquishHost"
	IntentSetSpectator           IntentTag = "setSpectator"
	IntentSetName                IntentTag = "setName"
	IntentReadyUp                IntentTag = "readyUp"
	IntentSetLobbyName           IntentTag = "setLobbyName"
	IntentSendLobbyMessage       IntentTag = "sendLobbyMessage"
	IntentStartGame              IntentTag = "startGame"
	IntentBackToLobby            IntentTag = "backToLobby"
	IntentSetPhaseTime           IntentTag = "setPhaseTime"
	IntentSetPhaseTimes          IntentTag = "setPhaseTimes"
	IntentSetRoleList            IntentTag = "setRoleList"
	IntentSetRoleOutline         IntentTag = "setRoleOutline"
	IntentSimplifyRoleList       IntentTag = "simplifyRoleList"
	IntentSetEnabledRoles        IntentTag = "setEnabledRoles"
	IntentSetEnabledModifiers    IntentTag = "setEnabledModifiers"
	IntentVote                   IntentTag = "vote"
	IntentJudgement              IntentTag = "judgement"
	IntentSaveWill               IntentTag = "saveWill"
	IntentSaveNotes              IntentTag = "saveNotes"
	IntentSaveCrossedOutOutlines IntentTag = "saveCrossedOutOutlines"
	IntentSaveDeathNote          IntentTag = "saveDeathNote"
	IntentSendMessage            IntentTag = "sendMessage"
	IntentSendWhisper            IntentTag = "sendWhisper"
	IntentAbilityInput           IntentTag = "abilityInput"
	IntentVoteFastForwardPhase   IntentTag = "voteFastForwardPhase"
	IntentHostDataRequest        IntentTag = "hostDataRequest"
	IntentHostEndGame            IntentTag = "hostEndGame"
	IntentHostSkipPhase          IntentTag = "hostSkipPhase"
	IntentHostForceSetPlayerName IntentTag = "hostForceSetPlayerName"
)

// Intent is one client-to-server message. The union is closed; the client
// never sends anything it cannot name.
type Intent interface {
	IntentTag() IntentTag
}

type (
	// PingIntent keeps the connection warm.
	PingIntent struct{}
	// LobbyListRequestIntent asks for the room browser contents.
	LobbyListRequestIntent struct{}
	// ReJoinIntent resumes a seat with a reconnect identity.
	ReJoinIntent struct {
		RoomCode game.RoomCode      `json:"roomCode"`
		PlayerID game.LobbyClientID `json:"playerId"`
	}
	// JoinIntent enters an existing room.
	JoinIntent struct {
		RoomCode game.RoomCode `json:"roomCode"`
	}
	// HostIntent creates a room.
	HostIntent struct{}
	// LeaveIntent abandons the current room.
	LeaveIntent struct{}
	// KickIntent ejects another client (host only).
	KickIntent struct {
		PlayerID game.LobbyClientID `json:"playerId"`
	}
	// SetPlayerHostIntent grants host to another client.
	SetPlayerHostIntent struct {
		PlayerID game.LobbyClientID `json:"playerId"`
	}
	// RelinquishHostIntent gives up host without naming a successor.
	RelinquishHostIntent struct{}
	// SetSpectatorIntent switches between playing and spectating.
	SetSpectatorIntent struct {
		Spectator bool `json:"spectator"`
	}
	// SetNameIntent renames this client.
	SetNameIntent struct {
		Name string `json:"name"`
	}
	// ReadyUpIntent toggles readiness.
	ReadyUpIntent struct {
		Ready bool `json:"ready"`
	}
	// SetLobbyNameIntent renames the room (host only).
	SetLobbyNameIntent struct {
		Name string `json:"name"`
	}
	// SendLobbyMessageIntent sends pre-game chat.
	SendLobbyMessageIntent struct {
		Text string `json:"text"`
	}
	// StartGameIntent starts the game (host only).
	StartGameIntent struct{}
	// BackToLobbyIntent returns the room to the lobby (host only).
	BackToLobbyIntent struct{}
	// SetPhaseTimeIntent sets one phase length (host only).
	SetPhaseTimeIntent struct {
		Phase game.PhaseType `json:"phase"`
		Time  uint64         `json:"time"`
	}
	// SetPhaseTimesIntent sets all phase lengths (host only).
	SetPhaseTimesIntent struct {
		Times game.PhaseTimes `json:"phaseTimeSettings"`
	}
	// SetRoleListIntent replaces the role list (host only).
	SetRoleListIntent struct {
		RoleList game.RoleList
	}
	// SetRoleOutlineIntent replaces one role list slot (host only).
	SetRoleOutlineIntent struct {
		Index   uint8
		Outline game.RoleOutline
	}
	// SimplifyRoleListIntent collapses redundant outline options (host only).
	SimplifyRoleListIntent struct{}
	// SetEnabledRolesIntent replaces the enabled role set (host only).
	SetEnabledRolesIntent struct {
		Roles []game.Role `json:"roles"`
	}
	// SetEnabledModifiersIntent replaces the modifier set (host only).
	SetEnabledModifiersIntent struct {
		Modifiers []game.ModifierType `json:"modifiers"`
	}
	// VoteIntent casts or retracts a nomination vote.
	VoteIntent struct {
		Player *game.PlayerIndex `json:"player"`
	}
	// JudgementIntent casts a judgement vote.
	JudgementIntent struct {
		Verdict game.Verdict `json:"verdict"`
	}
	// SaveWillIntent persists the will text.
	SaveWillIntent struct {
		Will string `json:"will"`
	}
	// SaveNotesIntent persists the notes pages.
	SaveNotesIntent struct {
		Notes []string `json:"notes"`
	}
	// SaveCrossedOutOutlinesIntent persists the strike list.
	SaveCrossedOutOutlinesIntent struct {
		Outlines []uint8 `json:"crossedOutOutlines"`
	}
	// SaveDeathNoteIntent persists the death note.
	SaveDeathNoteIntent struct {
		DeathNote string `json:"deathNote"`
	}
	// SendMessageIntent sends in-game chat.
	SendMessageIntent struct {
		Text  string `json:"text"`
		Block bool   `json:"block"`
	}
	// SendWhisperIntent whispers to one player.
	SendWhisperIntent struct {
		Player game.PlayerIndex `json:"playerIndex"`
		Text   string           `json:"text"`
	}
	// AbilityInputIntent submits one controller selection.
	AbilityInputIntent struct {
		ID        ability.ControllerID
		Selection ability.Selection
	}
	// VoteFastForwardPhaseIntent toggles the fast-forward vote.
	VoteFastForwardPhaseIntent struct {
		FastForward bool `json:"fastForward"`
	}
	// HostDataRequestIntent asks for the host-only roster view.
	HostDataRequestIntent struct{}
	// HostEndGameIntent ends the game immediately (host only).
	HostEndGameIntent struct{}
	// HostSkipPhaseIntent skips the current phase (host only).
	HostSkipPhaseIntent struct{}
	// HostForceSetPlayerNameIntent renames another client (host only).
	HostForceSetPlayerNameIntent struct {
		PlayerID game.LobbyClientID `json:"playerId"`
		Name     string             `json:"name"`
	}
)

func (PingIntent) IntentTag() IntentTag                   { return IntentPing }
func (LobbyListRequestIntent) IntentTag() IntentTag       { return IntentLobbyListRequest }
func (ReJoinIntent) IntentTag() IntentTag                 { return IntentReJoin }
func (JoinIntent) IntentTag() IntentTag                   { return IntentJoin }
func (HostIntent) IntentTag() IntentTag                   { return IntentHost }
func (LeaveIntent) IntentTag() IntentTag                  { return IntentLeave }
func (KickIntent) IntentTag() IntentTag                   { return IntentKick }
func (SetPlayerHostIntent) IntentTag() IntentTag          { return IntentSetPlayerHost }
func (RelinquishHostIntent) IntentTag() IntentTag         { return IntentRelinquishHost }
func (SetSpectatorIntent) IntentTag() IntentTag           { return IntentSetSpectator }
func (SetNameIntent) IntentTag() IntentTag                { return IntentSetName }
func (ReadyUpIntent) IntentTag() IntentTag                { return IntentReadyUp }
func (SetLobbyNameIntent) IntentTag() IntentTag           { return IntentSetLobbyName }
func (SendLobbyMessageIntent) IntentTag() IntentTag       { return IntentSendLobbyMessage }
func (StartGameIntent) IntentTag() IntentTag              { return IntentStartGame }
func (BackToLobbyIntent) IntentTag() IntentTag            { return IntentBackToLobby }
func (SetPhaseTimeIntent) IntentTag() IntentTag           { return IntentSetPhaseTime }
func (SetPhaseTimesIntent) IntentTag() IntentTag          { return IntentSetPhaseTimes }
func (SetRoleListIntent) IntentTag() IntentTag            { return IntentSetRoleList }
func (SetRoleOutlineIntent) IntentTag() IntentTag         { return IntentSetRoleOutline }
func (SimplifyRoleListIntent) IntentTag() IntentTag       { return IntentSimplifyRoleList }
func (SetEnabledRolesIntent) IntentTag() IntentTag        { return IntentSetEnabledRoles }
func (SetEnabledModifiersIntent) IntentTag() IntentTag    { return IntentSetEnabledModifiers }
func (VoteIntent) IntentTag() IntentTag                   { return IntentVote }
func (JudgementIntent) IntentTag() IntentTag              { return IntentJudgement }
func (SaveWillIntent) IntentTag() IntentTag               { return IntentSaveWill }
func (SaveNotesIntent) IntentTag() IntentTag              { return IntentSaveNotes }
func (SaveCrossedOutOutlinesIntent) IntentTag() IntentTag { return IntentSaveCrossedOutOutlines }
func (SaveDeathNoteIntent) IntentTag() IntentTag          { return IntentSaveDeathNote }
func (SendMessageIntent) IntentTag() IntentTag            { return IntentSendMessage }
func (SendWhisperIntent) IntentTag() IntentTag            { return IntentSendWhisper }
func (AbilityInputIntent) IntentTag() IntentTag           { return IntentAbilityInput }
func (VoteFastForwardPhaseIntent) IntentTag() IntentTag   { return IntentVoteFastForwardPhase }
func (HostDataRequestIntent) IntentTag() IntentTag        { return IntentHostDataRequest }
func (HostEndGameIntent) IntentTag() IntentTag            { return IntentHostEndGame }
func (HostSkipPhaseIntent) IntentTag() IntentTag          { return IntentHostSkipPhase }
func (HostForceSetPlayerNameIntent) IntentTag() IntentTag { return IntentHostForceSetPlayerName }

// Encode marshals an intent with its type discriminator injected.
func Encode(intent Intent) ([]byte, error) {
	body, err := marshalIntentBody(intent)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", intent.IntentTag(), err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	tag, err := json.Marshal(intent.IntentTag())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}

func marshalIntentBody(intent Intent) ([]byte, error) {
	switch v := intent.(type) {
	case SetRoleListIntent:
		list, err := game.EncodeRoleList(v.RoleList)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]json.RawMessage{"roleList": list})
	case SetRoleOutlineIntent:
		outline, err := game.EncodeRoleOutline(v.Outline)
		if err != nil {
			return nil, err
		}
		index, err := json.Marshal(v.Index)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]json.RawMessage{"index": index, "roleOutline": outline})
	case AbilityInputIntent:
		id, err := ability.EncodeControllerID(v.ID)
		if err != nil {
			return nil, err
		}
		selection, err := ability.EncodeSelection(v.Selection)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]json.RawMessage{"id": id, "selection": selection})
	default:
		body, err := json.Marshal(intent)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", intent.IntentTag(), err)
		}
		return body, nil
	}
}

// AbilityInput validates a selection against its controller's availability
// and returns the outbound intent only on success. Invalid selections never
// reach the wire.
func AbilityInput(id ability.ControllerID, sel ability.Selection, avail ability.Available) (AbilityInputIntent, error) {
	if err := avail.Validate(sel); err != nil {
		return AbilityInputIntent{}, err
	}
	return AbilityInputIntent{ID: id, Selection: sel}, nil
}
