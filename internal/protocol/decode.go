package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"

	"nightfall/client/internal/ability"
	"nightfall/client/internal/game"
)

// Decode routes one inbound frame to its event struct. Unknown tags return
// UnknownEvent and no error; malformed frames return an error and no event.
func Decode(raw []byte) (Event, error) {
	var envelope struct {
		Type EventTag `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("decode event: missing type tag")
	}

	switch envelope.Type {
	case EventPong:
		return Pong{}, nil
	case EventRateLimitExceeded:
		return RateLimitExceeded{}, nil
	case EventForcedOutsideLobby:
		return ForcedOutsideLobby{}, nil
	case EventForcedDisconnect:
		return ForcedDisconnect{}, nil
	case EventLobbyList:
		return decodeLobbyList(raw)
	case EventAcceptJoin:
		return unmarshalEvent(raw, &AcceptJoin{})
	case EventRejectJoin:
		return unmarshalEvent(raw, &RejectJoin{})
	case EventRejectStart:
		return unmarshalEvent(raw, &RejectStart{})
	case EventPlayersHost:
		return unmarshalEvent(raw, &PlayersHost{})
	case EventPlayersReady:
		return unmarshalEvent(raw, &PlayersReady{})
	case EventPlayersLostConnection:
		return unmarshalEvent(raw, &PlayersLostConnection{})
	case EventYourID:
		return unmarshalEvent(raw, &YourID{})
	case EventYourPlayerIndex:
		return unmarshalEvent(raw, &YourPlayerIndex{})
	case EventYourFellowInsiders:
		return unmarshalEvent(raw, &YourFellowInsiders{})
	case EventLobbyClients:
		clients, err := decodeClientsField(raw)
		if err != nil {
			return nil, err
		}
		return LobbyClients{Clients: clients}, nil
	case EventHostData:
		clients, err := decodeClientsField(raw)
		if err != nil {
			return nil, err
		}
		return HostData{Clients: clients}, nil
	case EventLobbyName:
		return unmarshalEvent(raw, &LobbyName{})
	case EventStartGame:
		return StartGame{}, nil
	case EventGameInitializationComplete:
		return GameInitializationComplete{}, nil
	case EventBackToLobby:
		return BackToLobby{}, nil
	case EventGamePlayers:
		return unmarshalEvent(raw, &GamePlayers{})
	case EventRoleList:
		var wire struct {
			RoleList json.RawMessage `json:"roleList"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decode roleList: %w", err)
		}
		list, err := game.DecodeRoleList(wire.RoleList)
		if err != nil {
			return nil, err
		}
		return RoleListEvent{RoleList: list}, nil
	case EventRoleOutline:
		var wire struct {
			Index   uint8           `json:"index"`
			Outline json.RawMessage `json:"roleOutline"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decode roleOutline: %w", err)
		}
		outline, err := game.DecodeRoleOutline(wire.Outline)
		if err != nil {
			return nil, err
		}
		return RoleOutlineEvent{Index: wire.Index, Outline: outline}, nil
	case EventPhaseTime:
		return unmarshalEvent(raw, &PhaseTime{})
	case EventPhaseTimes:
		return unmarshalEvent(raw, &PhaseTimesEvent{})
	case EventEnabledRoles:
		return unmarshalEvent(raw, &EnabledRoles{})
	case EventEnabledModifiers:
		return unmarshalEvent(raw, &EnabledModifiers{})
	case EventPhase:
		var wire struct {
			Phase     json.RawMessage `json:"phase"`
			DayNumber uint8           `json:"dayNumber"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decode phase: %w", err)
		}
		phase, err := game.DecodePhaseState(wire.Phase)
		if err != nil {
			return nil, err
		}
		return PhaseEvent{Phase: phase, DayNumber: wire.DayNumber}, nil
	case EventPhaseTimeLeft:
		return unmarshalEvent(raw, &PhaseTimeLeft{})
	case EventPlayerAlive:
		return unmarshalEvent(raw, &PlayerAlive{})
	case EventPlayerVotes:
		return decodePlayerVotes(raw)
	case EventYourSendChatGroups:
		return unmarshalEvent(raw, &YourSendChatGroups{})
	case EventYourInsiderGroups:
		return unmarshalEvent(raw, &YourInsiderGroups{})
	case EventYourAllowedControllers:
		var wire struct {
			Controllers json.RawMessage `json:"save"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decode yourAllowedControllers: %w", err)
		}
		controllers, err := ability.DecodeControllerMap(wire.Controllers)
		if err != nil {
			return nil, err
		}
		return YourAllowedControllers{Controllers: controllers}, nil
	case EventYourRoleLabels:
		return decodeRoleLabels(raw)
	case EventYourPlayerTags:
		return decodePlayerTags(raw)
	case EventYourWill:
		return unmarshalEvent(raw, &YourWill{})
	case EventYourNotes:
		return unmarshalEvent(raw, &YourNotes{})
	case EventYourCrossedOutOutlines:
		return unmarshalEvent(raw, &YourCrossedOutOutlines{})
	case EventYourDeathNote:
		return unmarshalEvent(raw, &YourDeathNote{})
	case EventYourRoleState:
		var wire struct {
			RoleState json.RawMessage `json:"roleState"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decode yourRoleState: %w", err)
		}
		state, err := game.DecodeRoleState(wire.RoleState)
		if err != nil {
			return nil, err
		}
		return YourRoleState{RoleState: state}, nil
	case EventYourJudgement:
		return unmarshalEvent(raw, &YourJudgement{})
	case EventYourVoteFastForwardPhase:
		return unmarshalEvent(raw, &YourVoteFastForwardPhase{})
	case EventAddChatMessages:
		messages, err := decodeChatMessages(raw, "chatMessages")
		if err != nil {
			return nil, err
		}
		return AddChatMessages{Messages: messages}, nil
	case EventNightMessages:
		messages, err := decodeChatMessages(raw, "chatMessages")
		if err != nil {
			return nil, err
		}
		return NightMessages{Messages: messages}, nil
	case EventAddGrave:
		var wire struct {
			Grave json.RawMessage `json:"grave"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decode addGrave: %w", err)
		}
		grave, err := game.DecodeGrave(wire.Grave)
		if err != nil {
			return nil, err
		}
		return AddGrave{Grave: grave}, nil
	case EventGameOver:
		return unmarshalEvent(raw, &GameOver{})
	default:
		return UnknownEvent{
			EventTag: envelope.Type,
			Raw:      append(json.RawMessage(nil), raw...),
		}, nil
	}
}

func unmarshalEvent[T Event](raw []byte, dst *T) (Event, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("decode %s: %w", (*dst).Tag(), err)
	}
	return *dst, nil
}

func decodeLobbyList(raw []byte) (Event, error) {
	var wire struct {
		Lobbies map[string]game.LobbyPreview `json:"lobbies"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode lobbyList: %w", err)
	}
	lobbies := make(map[game.RoomCode]game.LobbyPreview, len(wire.Lobbies))
	for key, preview := range wire.Lobbies {
		code, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("decode lobbyList: bad room code %q", key)
		}
		lobbies[game.RoomCode(code)] = preview
	}
	return LobbyList{Lobbies: lobbies}, nil
}

func decodeClientsField(raw []byte) (*game.ClientList, error) {
	var wire struct {
		Clients json.RawMessage `json:"clients"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	return game.DecodeClientList(wire.Clients)
}

func decodePlayerVotes(raw []byte) (Event, error) {
	var wire struct {
		Votes map[string]uint8 `json:"votesForPlayer"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode playerVotes: %w", err)
	}
	votes := make(map[game.PlayerIndex]uint8, len(wire.Votes))
	for key, count := range wire.Votes {
		idx, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("decode playerVotes: bad player index %q", key)
		}
		votes[game.PlayerIndex(idx)] = count
	}
	return PlayerVotes{Votes: votes}, nil
}

func decodeRoleLabels(raw []byte) (Event, error) {
	var wire struct {
		Labels map[string]game.Role `json:"roleLabels"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode yourRoleLabels: %w", err)
	}
	labels := make(map[game.PlayerIndex]game.Role, len(wire.Labels))
	for key, role := range wire.Labels {
		idx, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("decode yourRoleLabels: bad player index %q", key)
		}
		labels[game.PlayerIndex(idx)] = role
	}
	return YourRoleLabels{Labels: labels}, nil
}

func decodePlayerTags(raw []byte) (Event, error) {
	var wire struct {
		Tags map[string][]game.Tag `json:"playerTags"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode yourPlayerTags: %w", err)
	}
	tags := make(map[game.PlayerIndex][]game.Tag, len(wire.Tags))
	for key, list := range wire.Tags {
		idx, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("decode yourPlayerTags: bad player index %q", key)
		}
		tags[game.PlayerIndex(idx)] = list
	}
	return YourPlayerTags{Tags: tags}, nil
}

func decodeChatMessages(raw []byte, field string) ([]game.ChatMessage, error) {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode chat messages: %w", err)
	}
	var entries []json.RawMessage
	if body, ok := wire[field]; ok {
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("decode chat messages: %w", err)
		}
	}
	messages := make([]game.ChatMessage, 0, len(entries))
	for _, entry := range entries {
		msg, err := game.DecodeChatMessage(entry)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
