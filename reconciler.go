package client

import (
	"nightfall/client/internal/game"
	"nightfall/client/internal/protocol"
)

// Reduce folds one server event into the session root and returns the next
// root. It is a pure function: the input state is never mutated, and events
// that do not apply to the current root variant return the input unchanged.
// The caller decides what to do about side effects (tokens, waiters, logs).
func Reduce(state SessionState, event protocol.Event) SessionState {
	switch ev := event.(type) {
	case protocol.ForcedOutsideLobby:
		return Browsing{}
	case protocol.ForcedDisconnect:
		return Disconnected{}
	case protocol.LobbyList:
		switch state.(type) {
		case Disconnected, Browsing:
			return Browsing{Lobbies: ev.Lobbies}
		}
		return state
	case protocol.AcceptJoin:
		return reduceAcceptJoin(ev)
	case protocol.PlayersHost:
		return reducePlayersHost(state, ev)
	case protocol.PlayersReady:
		return reducePlayersReady(state, ev)
	case protocol.PlayersLostConnection:
		return reducePlayersLostConnection(state, ev)
	case protocol.YourID:
		if lobby, ok := state.(Lobby); ok {
			lobby.MyID = ev.ID
			return lobby
		}
		return state
	case protocol.YourPlayerIndex:
		return withParticipant(state, func(p Participant) Participant {
			p.MyIndex = ev.Index
			return p
		})
	case protocol.YourFellowInsiders:
		return withParticipant(state, func(p Participant) Participant {
			p.FellowInsiders = ev.Players
			return p
		})
	case protocol.LobbyClients:
		if lobby, ok := state.(Lobby); ok {
			lobby.Clients = ev.Clients
			return lobby
		}
		return state
	case protocol.HostData:
		if lobby, ok := state.(Lobby); ok {
			lobby.HostView = ev.Clients
			return lobby
		}
		return state
	case protocol.LobbyName:
		switch s := state.(type) {
		case Lobby:
			s.Name = ev.Name
			return s
		case Game:
			s.LobbyName = ev.Name
			return s
		}
		return state
	case protocol.StartGame:
		return reduceStartGame(state)
	case protocol.GameInitializationComplete:
		if g, ok := state.(Game); ok {
			g.Initialized = true
			return g
		}
		return state
	case protocol.BackToLobby:
		return reduceBackToLobby(state)
	case protocol.GamePlayers:
		return reduceGamePlayers(state, ev)
	case protocol.RoleListEvent:
		switch s := state.(type) {
		case Lobby:
			s.RoleList = ev.RoleList
			return s
		case Game:
			s.RoleList = ev.RoleList
			return s
		}
		return state
	case protocol.RoleOutlineEvent:
		return reduceRoleOutline(state, ev)
	case protocol.PhaseTime:
		switch s := state.(type) {
		case Lobby:
			s.PhaseTimes.Set(ev.Phase, ev.Time)
			return s
		case Game:
			s.PhaseTimes.Set(ev.Phase, ev.Time)
			return s
		}
		return state
	case protocol.PhaseTimesEvent:
		switch s := state.(type) {
		case Lobby:
			s.PhaseTimes = ev.Times
			return s
		case Game:
			s.PhaseTimes = ev.Times
			return s
		}
		return state
	case protocol.EnabledRoles:
		switch s := state.(type) {
		case Lobby:
			s.EnabledRoles = ev.Roles
			return s
		case Game:
			s.EnabledRoles = ev.Roles
			return s
		}
		return state
	case protocol.EnabledModifiers:
		switch s := state.(type) {
		case Lobby:
			s.EnabledModifiers = ev.Modifiers
			return s
		case Game:
			s.EnabledModifiers = ev.Modifiers
			return s
		}
		return state
	case protocol.PhaseEvent:
		if g, ok := state.(Game); ok {
			g.Phase = ev.Phase
			g.DayNumber = ev.DayNumber
			return g
		}
		return state
	case protocol.PhaseTimeLeft:
		if g, ok := state.(Game); ok {
			g.TimeLeftMs = ev.Milliseconds
			g.Ticking = ev.Milliseconds != nil
			return g
		}
		return state
	case protocol.PlayerAlive:
		return reducePlayerAlive(state, ev)
	case protocol.PlayerVotes:
		return reducePlayerVotes(state, ev)
	case protocol.YourSendChatGroups:
		return withParticipant(state, func(p Participant) Participant {
			p.SendChatGroups = ev.Groups
			return p
		})
	case protocol.YourInsiderGroups:
		return withParticipant(state, func(p Participant) Participant {
			p.InsiderGroups = ev.Groups
			return p
		})
	case protocol.YourAllowedControllers:
		return withParticipant(state, func(p Participant) Participant {
			p.Controllers = ev.Controllers
			return p
		})
	case protocol.YourRoleLabels:
		return reduceRoleLabels(state, ev)
	case protocol.YourPlayerTags:
		return reducePlayerTags(state, ev)
	case protocol.YourWill:
		return withParticipant(state, func(p Participant) Participant {
			p.Will = ev.Will
			return p
		})
	case protocol.YourNotes:
		return withParticipant(state, func(p Participant) Participant {
			p.Notes = ev.Notes
			return p
		})
	case protocol.YourCrossedOutOutlines:
		return withParticipant(state, func(p Participant) Participant {
			p.CrossedOutOutlines = ev.Outlines
			return p
		})
	case protocol.YourDeathNote:
		return withParticipant(state, func(p Participant) Participant {
			p.DeathNote = ev.DeathNote
			return p
		})
	case protocol.YourRoleState:
		return withParticipant(state, func(p Participant) Participant {
			p.RoleState = ev.RoleState
			return p
		})
	case protocol.YourJudgement:
		return withParticipant(state, func(p Participant) Participant {
			p.Judgement = ev.Verdict
			return p
		})
	case protocol.YourVoteFastForwardPhase:
		if g, ok := state.(Game); ok {
			g.FastForward = ev.FastForward
			return g
		}
		return state
	case protocol.AddChatMessages:
		return reduceAddChatMessages(state, ev.Messages)
	case protocol.NightMessages:
		if g, ok := state.(Game); ok {
			g.NightSummary = ev.Messages
			return g
		}
		return state
	case protocol.AddGrave:
		if g, ok := state.(Game); ok {
			g.Graves = append(append([]game.Grave(nil), g.Graves...), ev.Grave)
			return g
		}
		return state
	case protocol.GameOver:
		if g, ok := state.(Game); ok {
			g.Ticking = false
			return g
		}
		return state
	default:
		// pong, rejects, rate limits and unknown tags carry no state.
		return state
	}
}

func reduceAcceptJoin(ev protocol.AcceptJoin) SessionState {
	if ev.InGame {
		g := Game{
			RoomCode:    ev.RoomCode,
			MyID:        ev.PlayerID,
			Initialized: false,
			Phase:       game.Recess{},
			PhaseTimes:  game.DefaultPhaseTimes(),
		}
		if ev.Spectator {
			g.ClientRole = Spectator{}
		} else {
			g.ClientRole = &Participant{}
		}
		return g
	}
	return Lobby{
		RoomCode:   ev.RoomCode,
		MyID:       ev.PlayerID,
		Clients:    game.NewClientList(),
		PhaseTimes: game.DefaultPhaseTimes(),
	}
}

func reduceStartGame(state SessionState) SessionState {
	lobby, ok := state.(Lobby)
	if !ok {
		return state
	}
	spectator := false
	if lobby.Clients != nil {
		if me, found := lobby.Clients.Get(lobby.MyID); found {
			_, isSpectator := me.Type.(game.SpectatorClient)
			spectator = isSpectator
		}
	}
	g := Game{
		RoomCode:         lobby.RoomCode,
		MyID:             lobby.MyID,
		LobbyName:        lobby.Name,
		Initialized:      false,
		Phase:            game.Recess{},
		PhaseTimes:       lobby.PhaseTimes,
		RoleList:         lobby.RoleList,
		EnabledRoles:     lobby.EnabledRoles,
		EnabledModifiers: lobby.EnabledModifiers,
	}
	if spectator {
		g.ClientRole = Spectator{}
	} else {
		g.ClientRole = &Participant{}
	}
	return g
}

func reduceBackToLobby(state SessionState) SessionState {
	g, ok := state.(Game)
	if !ok {
		return state
	}
	return Lobby{
		RoomCode:         g.RoomCode,
		MyID:             g.MyID,
		Name:             g.LobbyName,
		Clients:          game.NewClientList(),
		RoleList:         g.RoleList,
		PhaseTimes:       g.PhaseTimes,
		EnabledRoles:     g.EnabledRoles,
		EnabledModifiers: g.EnabledModifiers,
	}
}

func reduceGamePlayers(state SessionState, ev protocol.GamePlayers) SessionState {
	g, ok := state.(Game)
	if !ok {
		return state
	}
	if len(ev.Players) == len(g.Players) {
		same := true
		for i, name := range ev.Players {
			if g.Players[i].Name != name {
				same = false
				break
			}
		}
		if same {
			return state
		}
	}
	players := make([]game.Player, len(ev.Players))
	for i, name := range ev.Players {
		if i < len(g.Players) && g.Players[i].Name == name {
			players[i] = g.Players[i]
			continue
		}
		players[i] = game.NewPlayer(name, game.PlayerIndex(i))
	}
	g.Players = players
	return g
}

func reduceRoleOutline(state SessionState, ev protocol.RoleOutlineEvent) SessionState {
	replace := func(list game.RoleList) game.RoleList {
		if int(ev.Index) >= len(list) {
			return list
		}
		next := append(game.RoleList(nil), list...)
		next[ev.Index] = ev.Outline
		return next
	}
	switch s := state.(type) {
	case Lobby:
		s.RoleList = replace(s.RoleList)
		return s
	case Game:
		s.RoleList = replace(s.RoleList)
		return s
	}
	return state
}

func reducePlayersHost(state SessionState, ev protocol.PlayersHost) SessionState {
	return withClients(state, func(clients *game.ClientList) {
		hosts := make(map[game.LobbyClientID]bool, len(ev.Hosts))
		for _, id := range ev.Hosts {
			hosts[id] = true
		}
		clients.Each(func(id game.LobbyClientID, c game.LobbyClient) {
			switch {
			case hosts[id] && c.Ready != game.ReadyHost:
				c.Ready = game.ReadyHost
				clients.Set(id, c)
			case !hosts[id] && c.Ready == game.ReadyHost:
				c.Ready = game.ReadyNotReady
				clients.Set(id, c)
			}
		})
	})
}

func reducePlayersReady(state SessionState, ev protocol.PlayersReady) SessionState {
	return withClients(state, func(clients *game.ClientList) {
		ready := make(map[game.LobbyClientID]bool, len(ev.Ready))
		for _, id := range ev.Ready {
			ready[id] = true
		}
		clients.Each(func(id game.LobbyClientID, c game.LobbyClient) {
			if c.Ready == game.ReadyHost {
				return
			}
			want := game.ReadyNotReady
			if ready[id] {
				want = game.ReadyReady
			}
			if c.Ready != want {
				c.Ready = want
				clients.Set(id, c)
			}
		})
	})
}

func reducePlayersLostConnection(state SessionState, ev protocol.PlayersLostConnection) SessionState {
	return withClients(state, func(clients *game.ClientList) {
		for _, id := range ev.Lost {
			if c, ok := clients.Get(id); ok {
				c.Connection = game.ConnectionCouldReconnect
				clients.Set(id, c)
			}
		}
	})
}

func reducePlayerAlive(state SessionState, ev protocol.PlayerAlive) SessionState {
	g, ok := state.(Game)
	if !ok {
		return state
	}
	players := append([]game.Player(nil), g.Players...)
	for i := range players {
		if i < len(ev.Alive) {
			players[i].Alive = ev.Alive[i]
		}
	}
	g.Players = players
	return g
}

func reducePlayerVotes(state SessionState, ev protocol.PlayerVotes) SessionState {
	g, ok := state.(Game)
	if !ok {
		return state
	}
	players := append([]game.Player(nil), g.Players...)
	for i := range players {
		players[i].NumVoted = 0
	}
	for idx, count := range ev.Votes {
		if int(idx) < len(players) {
			players[idx].NumVoted = count
		}
	}
	g.Players = players
	return g
}

func reduceRoleLabels(state SessionState, ev protocol.YourRoleLabels) SessionState {
	g, ok := state.(Game)
	if !ok {
		return state
	}
	players := append([]game.Player(nil), g.Players...)
	for i := range players {
		players[i].RoleLabel = game.RoleNone
	}
	for idx, role := range ev.Labels {
		if int(idx) < len(players) {
			players[idx].RoleLabel = role
		}
	}
	g.Players = players
	return g
}

func reducePlayerTags(state SessionState, ev protocol.YourPlayerTags) SessionState {
	g, ok := state.(Game)
	if !ok {
		return state
	}
	players := append([]game.Player(nil), g.Players...)
	for i := range players {
		players[i].Tags = nil
	}
	for idx, tags := range ev.Tags {
		if int(idx) < len(players) {
			players[idx].Tags = tags
		}
	}
	g.Players = players
	return g
}

func reduceAddChatMessages(state SessionState, messages []game.ChatMessage) SessionState {
	switch s := state.(type) {
	case Lobby:
		s.ChatMessages = append(append([]game.ChatMessage(nil), s.ChatMessages...), messages...)
		return s
	case Game:
		s.ChatMessages = append(append([]game.ChatMessage(nil), s.ChatMessages...), messages...)
		if len(messages) != 0 {
			s.MissedChatMessages = true
		}
		if p := s.Participant(); p != nil {
			var missed []game.ChatMessage
			for _, msg := range messages {
				if w, ok := msg.Variant.(game.WhisperMessage); ok && w.To == p.MyIndex {
					missed = append(missed, msg)
				}
			}
			if len(missed) > 0 {
				next := *p
				next.MissedWhispers = append(append([]game.ChatMessage(nil), p.MissedWhispers...), missed...)
				s.ClientRole = &next
			}
		}
		return s
	}
	return state
}

// withParticipant applies fn to the participant state, copying on write.
// Spectators and non-game roots are no-ops.
func withParticipant(state SessionState, fn func(Participant) Participant) SessionState {
	g, ok := state.(Game)
	if !ok {
		return state
	}
	p := g.Participant()
	if p == nil {
		return state
	}
	next := fn(*p)
	g.ClientRole = &next
	return g
}

// withClients rebuilds the lobby roster through fn. Non-lobby roots are
// no-ops.
func withClients(state SessionState, fn func(*game.ClientList)) SessionState {
	lobby, ok := state.(Lobby)
	if !ok || lobby.Clients == nil {
		return state
	}
	clients := game.NewClientList()
	lobby.Clients.Each(func(id game.LobbyClientID, c game.LobbyClient) {
		clients.Set(id, c)
	})
	fn(clients)
	lobby.Clients = clients
	return lobby
}
