// Package game holds the client-side mirror of the server's domain types:
// players, phases, graves, chat messages, roles and the lobby roster. All of
// it is data the server owns; the client only decodes, stores and projects it.
package game

// PlayerIndex addresses a player by seat. Indices are assigned by the server
// when the game starts and never change for the lifetime of the game.
type PlayerIndex = uint8

// LobbyClientID identifies a client within a room. Unlike PlayerIndex it is
// stable across the lobby/game boundary and across reconnects.
type LobbyClientID = uint32

// RoomCode identifies a room on the server.
type RoomCode = uint32

// Verdict is a judgement-phase vote.
type Verdict string

const (
	VerdictInnocent Verdict = "innocent"
	VerdictGuilty   Verdict = "guilty"
	VerdictAbstain  Verdict = "abstain"
)

// Tag is a marker the server pins onto a player nameplate for this client
// only. Which tags are visible is part of the server's information model.
type Tag string

const (
	TagGodfatherBackup     Tag = "godfatherBackup"
	TagDoused              Tag = "doused"
	TagWerewolfTracked     Tag = "werewolfTracked"
	TagRevolutionaryTarget Tag = "revolutionaryTarget"
	TagLoveLinked          Tag = "loveLinked"
	TagSyndicateGun        Tag = "syndicateGun"
	TagFrame               Tag = "frame"
	TagForfeitVote         Tag = "forfeitVote"
	TagSpiraling           Tag = "spiraling"
	TagMorticianTagged     Tag = "morticianTagged"
	TagPuppeteerMarionette Tag = "puppeteerMarionette"
)

// ChatGroup is a channel the server may let this client send to.
type ChatGroup string

const (
	ChatGroupAll       ChatGroup = "all"
	ChatGroupDead      ChatGroup = "dead"
	ChatGroupMafia     ChatGroup = "mafia"
	ChatGroupCult      ChatGroup = "cult"
	ChatGroupJail      ChatGroup = "jail"
	ChatGroupKidnapped ChatGroup = "kidnapped"
	ChatGroupInterview ChatGroup = "interview"
	ChatGroupPuppeteer ChatGroup = "puppeteer"
)

// InsiderGroup is a faction whose membership is mutually revealed.
type InsiderGroup string

const (
	InsiderGroupMafia     InsiderGroup = "mafia"
	InsiderGroupCult      InsiderGroup = "cult"
	InsiderGroupPuppeteer InsiderGroup = "puppeteer"
)

// ModifierType toggles an optional rule for the room.
type ModifierType string

const (
	ModifierObscuredGraves      ModifierType = "obscuredGraves"
	ModifierSkipDay1            ModifierType = "skipDay1"
	ModifierDeadCanChat         ModifierType = "deadCanChat"
	ModifierNoAbstaining        ModifierType = "noAbstaining"
	ModifierNoDeathCause        ModifierType = "noDeathCause"
	ModifierRoleSetGraveKillers ModifierType = "roleSetGraveKillers"
	ModifierAutoGuilty          ModifierType = "autoGuilty"
	ModifierTwoThirdsMajority   ModifierType = "twoThirdsMajority"
	ModifierNoTrialPhases       ModifierType = "noTrialPhases"
	ModifierNoWhispers          ModifierType = "noWhispers"
	ModifierNoNightChat         ModifierType = "noNightChat"
	ModifierNoChat              ModifierType = "noChat"
)

// Player is one seat in a running game. Mutated in place by roster, vote,
// alive and tag events; never removed mid-game.
type Player struct {
	Name      string      `json:"name"`
	Index     PlayerIndex `json:"index"`
	Alive     bool        `json:"alive"`
	NumVoted  uint8       `json:"numVoted"`
	RoleLabel Role        `json:"roleLabel,omitempty"` // RoleNone unless revealed to this client
	Tags      []Tag       `json:"tags,omitempty"`
}

// NewPlayer returns a living, untagged player for a fresh roster.
func NewPlayer(name string, index PlayerIndex) Player {
	return Player{Name: name, Index: index, Alive: true}
}
