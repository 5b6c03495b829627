package game

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// Ready is a lobby client's readiness. The host slot doubles as a readiness
// state; a room always has exactly one host.
type Ready string

const (
	ReadyHost     Ready = "host"
	ReadyReady    Ready = "ready"
	ReadyNotReady Ready = "notReady"
)

// ClientConnection is the server's view of a lobby client's link.
type ClientConnection string

const (
	ConnectionConnected      ClientConnection = "connected"
	ConnectionCouldReconnect ClientConnection = "couldReconnect"
	ConnectionDisconnected   ClientConnection = "disconnected"
)

// ClientKind tags the two ways a client can occupy a room.
type ClientKind string

const (
	ClientKindPlayer    ClientKind = "player"
	ClientKindSpectator ClientKind = "spectator"
)

// ClientType is what a lobby client will be when the game starts.
type ClientType interface {
	ClientKind() ClientKind
}

// PlayerClient is a client that will take a seat.
type PlayerClient struct {
	Name string `json:"name"`
}

// SpectatorClient watches without a seat.
type SpectatorClient struct{}

func (PlayerClient) ClientKind() ClientKind    { return ClientKindPlayer }
func (SpectatorClient) ClientKind() ClientKind { return ClientKindSpectator }

// LobbyClient is one occupant of a room before (or outside) the game.
type LobbyClient struct {
	Ready      Ready
	Connection ClientConnection
	Type       ClientType
}

type lobbyClientWire struct {
	Ready      Ready            `json:"ready"`
	Connection ClientConnection `json:"connection"`
	ClientType json.RawMessage  `json:"clientType"`
}

// DecodeLobbyClient parses one room occupant.
func DecodeLobbyClient(raw json.RawMessage) (LobbyClient, error) {
	var wire lobbyClientWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return LobbyClient{}, fmt.Errorf("decode lobby client: %w", err)
	}
	var tag struct {
		Type ClientKind `json:"type"`
	}
	if err := json.Unmarshal(wire.ClientType, &tag); err != nil {
		return LobbyClient{}, fmt.Errorf("decode lobby client: %w", err)
	}
	client := LobbyClient{Ready: wire.Ready, Connection: wire.Connection}
	switch tag.Type {
	case ClientKindPlayer:
		var p PlayerClient
		if err := json.Unmarshal(wire.ClientType, &p); err != nil {
			return LobbyClient{}, fmt.Errorf("decode lobby client: %w", err)
		}
		client.Type = p
	case ClientKindSpectator:
		client.Type = SpectatorClient{}
	default:
		return LobbyClient{}, fmt.Errorf("decode lobby client: unknown client type %q", tag.Type)
	}
	return client, nil
}

// EncodeLobbyClient renders one room occupant.
func EncodeLobbyClient(c LobbyClient) ([]byte, error) {
	var clientType json.RawMessage
	switch t := c.Type.(type) {
	case PlayerClient:
		enc, err := json.Marshal(struct {
			Type ClientKind `json:"type"`
			Name string     `json:"name"`
		}{Type: ClientKindPlayer, Name: t.Name})
		if err != nil {
			return nil, err
		}
		clientType = enc
	case SpectatorClient, nil:
		enc, err := json.Marshal(struct {
			Type ClientKind `json:"type"`
		}{Type: ClientKindSpectator})
		if err != nil {
			return nil, err
		}
		clientType = enc
	default:
		return nil, fmt.Errorf("encode lobby client: unknown client type %T", c.Type)
	}
	return json.Marshal(lobbyClientWire{
		Ready:      c.Ready,
		Connection: c.Connection,
		ClientType: clientType,
	})
}

// ClientList is the room roster keyed by lobby client id. The server sends
// the roster in join order and the UI renders it that way, so iteration
// order must match insertion order.
type ClientList struct {
	clients *orderedmap.OrderedMap
}

// NewClientList returns an empty roster.
func NewClientList() *ClientList {
	return &ClientList{clients: orderedmap.New()}
}

func clientKey(id LobbyClientID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Set inserts or replaces one occupant, preserving its roster position if it
// already exists.
func (l *ClientList) Set(id LobbyClientID, client LobbyClient) {
	l.clients.Set(clientKey(id), client)
}

// Get returns the occupant for id.
func (l *ClientList) Get(id LobbyClientID) (LobbyClient, bool) {
	v, ok := l.clients.Get(clientKey(id))
	if !ok {
		return LobbyClient{}, false
	}
	return v.(LobbyClient), true
}

// Delete removes one occupant.
func (l *ClientList) Delete(id LobbyClientID) {
	l.clients.Delete(clientKey(id))
}

// Len reports the roster size.
func (l *ClientList) Len() int {
	return len(l.clients.Keys())
}

// IDs returns the client ids in roster order.
func (l *ClientList) IDs() []LobbyClientID {
	keys := l.clients.Keys()
	ids := make([]LobbyClientID, 0, len(keys))
	for _, key := range keys {
		n, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, LobbyClientID(n))
	}
	return ids
}

// Each calls fn for every occupant in roster order.
func (l *ClientList) Each(fn func(id LobbyClientID, client LobbyClient)) {
	for _, id := range l.IDs() {
		if client, ok := l.Get(id); ok {
			fn(id, client)
		}
	}
}

// Host returns the host's id, if one is present.
func (l *ClientList) Host() (LobbyClientID, bool) {
	for _, id := range l.IDs() {
		if client, ok := l.Get(id); ok && client.Ready == ReadyHost {
			return id, true
		}
	}
	return 0, false
}

// DecodeClientList parses a full roster replacement. Object key order on the
// wire is the roster order.
func DecodeClientList(raw json.RawMessage) (*ClientList, error) {
	wire := orderedmap.New()
	if err := json.Unmarshal(raw, wire); err != nil {
		return nil, fmt.Errorf("decode client list: %w", err)
	}
	list := NewClientList()
	for _, key := range wire.Keys() {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("decode client list: bad client id %q", key)
		}
		v, _ := wire.Get(key)
		body, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("decode client list: %w", err)
		}
		client, err := DecodeLobbyClient(body)
		if err != nil {
			return nil, err
		}
		list.Set(LobbyClientID(id), client)
	}
	return list, nil
}

// LobbyPreview is one row of the public room browser.
type LobbyPreview struct {
	Name    string   `json:"name"`
	InGame  bool     `json:"inGame"`
	Players []string `json:"players"`
}
