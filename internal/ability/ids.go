// Package ability models the ability-input side of the protocol: the
// controllers the server offers this client, what each controller currently
// allows, and the selections the client sends back. Controllers are keyed by
// structured ids, not strings, so two clients always agree on which ability
// a selection belongs to.
package ability

import (
	"encoding/json"
	"fmt"

	"nightfall/client/internal/game"
)

// AbilityID distinguishes multiple abilities on one role.
type AbilityID = uint8

// ControllerKind tags the id families.
type ControllerKind string

const (
	ControllerRole                  ControllerKind = "role"
	ControllerForfeitVote           ControllerKind = "forfeitVote"
	ControllerPitchforkVote         ControllerKind = "pitchforkVote"
	ControllerNominate              ControllerKind = "nominate"
	ControllerForwardMessage        ControllerKind = "forwardMessage"
	ControllerSyndicateGunShoot     ControllerKind = "syndicateGunItemShoot"
	ControllerSyndicateGunGive      ControllerKind = "syndicateGunItemGive"
	ControllerSyndicateChooseBackup ControllerKind = "syndicateChooseBackup"
	ControllerSyndicateBackupAttack ControllerKind = "syndicateBackupAttack"
	ControllerWardenLiveOrDie       ControllerKind = "wardenLiveOrDie"
)

// ControllerID names one ability controller. All variants are comparable
// structs; ids with equal fields are the same controller.
type ControllerID interface {
	Kind() ControllerKind
}

// RoleControllerID is an ability belonging to one player's role.
type RoleControllerID struct {
	Player game.PlayerIndex
	Role   game.Role
	ID     AbilityID
}

// ForfeitVoteID is the day decision to sit out the vote.
type ForfeitVoteID struct {
	Player game.PlayerIndex
}

// PitchforkVoteID is the town's collective pitchfork target.
type PitchforkVoteID struct {
	Player game.PlayerIndex
}

// NominateID is the nomination-phase vote.
type NominateID struct {
	Player game.PlayerIndex
}

// ForwardMessageID is the jailor-style message relay.
type ForwardMessageID struct {
	Player game.PlayerIndex
}

// SyndicateGunShootID is the shared syndicate gun's trigger.
type SyndicateGunShootID struct{}

// SyndicateGunGiveID passes the shared syndicate gun.
type SyndicateGunGiveID struct{}

// SyndicateChooseBackupID designates the syndicate backup.
type SyndicateChooseBackupID struct{}

// SyndicateBackupAttackID is the backup's attack while the killer lives.
type SyndicateBackupAttackID struct{}

// WardenLiveOrDieID is an imprisoned player's live-or-die choice, keyed by
// both the warden and the prisoner so two wardens never collide.
type WardenLiveOrDieID struct {
	Warden game.PlayerIndex
	Player game.PlayerIndex
}

func (RoleControllerID) Kind() ControllerKind        { return ControllerRole }
func (ForfeitVoteID) Kind() ControllerKind           { return ControllerForfeitVote }
func (PitchforkVoteID) Kind() ControllerKind         { return ControllerPitchforkVote }
func (NominateID) Kind() ControllerKind              { return ControllerNominate }
func (ForwardMessageID) Kind() ControllerKind        { return ControllerForwardMessage }
func (SyndicateGunShootID) Kind() ControllerKind     { return ControllerSyndicateGunShoot }
func (SyndicateGunGiveID) Kind() ControllerKind      { return ControllerSyndicateGunGive }
func (SyndicateChooseBackupID) Kind() ControllerKind { return ControllerSyndicateChooseBackup }
func (SyndicateBackupAttackID) Kind() ControllerKind { return ControllerSyndicateBackupAttack }
func (WardenLiveOrDieID) Kind() ControllerKind       { return ControllerWardenLiveOrDie }

var controllerKindRank = map[ControllerKind]int{
	ControllerRole:                  0,
	ControllerForfeitVote:           1,
	ControllerPitchforkVote:         2,
	ControllerNominate:              3,
	ControllerForwardMessage:        4,
	ControllerSyndicateGunShoot:     5,
	ControllerSyndicateGunGive:      6,
	ControllerSyndicateChooseBackup: 7,
	ControllerSyndicateBackupAttack: 8,
	ControllerWardenLiveOrDie:       9,
}

// Compare orders controller ids deterministically: by kind, then by owner,
// then by role and ability id. The UI relies on this to render controllers
// in a stable order no matter what order the server sent them in.
func Compare(a, b ControllerID) int {
	ra, rb := controllerKindRank[a.Kind()], controllerKindRank[b.Kind()]
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ai := a.(type) {
	case RoleControllerID:
		bi := b.(RoleControllerID)
		if ai.Player != bi.Player {
			return intCompare(int(ai.Player), int(bi.Player))
		}
		if ai.Role != bi.Role {
			if ai.Role < bi.Role {
				return -1
			}
			return 1
		}
		return intCompare(int(ai.ID), int(bi.ID))
	case ForfeitVoteID:
		return intCompare(int(ai.Player), int(b.(ForfeitVoteID).Player))
	case PitchforkVoteID:
		return intCompare(int(ai.Player), int(b.(PitchforkVoteID).Player))
	case NominateID:
		return intCompare(int(ai.Player), int(b.(NominateID).Player))
	case ForwardMessageID:
		return intCompare(int(ai.Player), int(b.(ForwardMessageID).Player))
	case WardenLiveOrDieID:
		bi := b.(WardenLiveOrDieID)
		if ai.Warden != bi.Warden {
			return intCompare(int(ai.Warden), int(bi.Warden))
		}
		return intCompare(int(ai.Player), int(bi.Player))
	default:
		return 0
	}
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

type controllerIDWire struct {
	Type      ControllerKind    `json:"type"`
	Player    *game.PlayerIndex `json:"player,omitempty"`
	Warden    *game.PlayerIndex `json:"warden,omitempty"`
	Role      *game.Role        `json:"role,omitempty"`
	AbilityID *AbilityID        `json:"abilityId,omitempty"`
}

// DecodeControllerID parses a tagged controller id.
func DecodeControllerID(raw json.RawMessage) (ControllerID, error) {
	var wire controllerIDWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode controller id: %w", err)
	}
	player := func() (game.PlayerIndex, error) {
		if wire.Player == nil {
			return 0, fmt.Errorf("decode controller id: %q requires a player", wire.Type)
		}
		return *wire.Player, nil
	}
	switch wire.Type {
	case ControllerRole:
		p, err := player()
		if err != nil {
			return nil, err
		}
		if wire.Role == nil || wire.AbilityID == nil {
			return nil, fmt.Errorf("decode controller id: role id requires role and abilityId")
		}
		return RoleControllerID{Player: p, Role: *wire.Role, ID: *wire.AbilityID}, nil
	case ControllerForfeitVote:
		p, err := player()
		if err != nil {
			return nil, err
		}
		return ForfeitVoteID{Player: p}, nil
	case ControllerPitchforkVote:
		p, err := player()
		if err != nil {
			return nil, err
		}
		return PitchforkVoteID{Player: p}, nil
	case ControllerNominate:
		p, err := player()
		if err != nil {
			return nil, err
		}
		return NominateID{Player: p}, nil
	case ControllerForwardMessage:
		p, err := player()
		if err != nil {
			return nil, err
		}
		return ForwardMessageID{Player: p}, nil
	case ControllerSyndicateGunShoot:
		return SyndicateGunShootID{}, nil
	case ControllerSyndicateGunGive:
		return SyndicateGunGiveID{}, nil
	case ControllerSyndicateChooseBackup:
		return SyndicateChooseBackupID{}, nil
	case ControllerSyndicateBackupAttack:
		return SyndicateBackupAttackID{}, nil
	case ControllerWardenLiveOrDie:
		p, err := player()
		if err != nil {
			return nil, err
		}
		if wire.Warden == nil {
			return nil, fmt.Errorf("decode controller id: wardenLiveOrDie requires a warden")
		}
		return WardenLiveOrDieID{Warden: *wire.Warden, Player: p}, nil
	default:
		return nil, fmt.Errorf("decode controller id: unknown kind %q", wire.Type)
	}
}

// EncodeControllerID renders a controller id with its type tag.
func EncodeControllerID(id ControllerID) ([]byte, error) {
	wire := controllerIDWire{Type: id.Kind()}
	setPlayer := func(p game.PlayerIndex) {
		wire.Player = &p
	}
	switch v := id.(type) {
	case RoleControllerID:
		setPlayer(v.Player)
		role := v.Role
		abilityID := v.ID
		wire.Role = &role
		wire.AbilityID = &abilityID
	case ForfeitVoteID:
		setPlayer(v.Player)
	case PitchforkVoteID:
		setPlayer(v.Player)
	case NominateID:
		setPlayer(v.Player)
	case ForwardMessageID:
		setPlayer(v.Player)
	case WardenLiveOrDieID:
		setPlayer(v.Player)
		warden := v.Warden
		wire.Warden = &warden
	case SyndicateGunShootID, SyndicateGunGiveID, SyndicateChooseBackupID, SyndicateBackupAttackID:
	default:
		return nil, fmt.Errorf("encode controller id: unknown kind %T", id)
	}
	return json.Marshal(wire)
}
