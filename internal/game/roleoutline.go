package game

import (
	"encoding/json"
	"fmt"
)

// RoleSet names a server-defined group of roles an outline slot may draw
// from. The groupings live on the server; the client treats them as opaque.
type RoleSet string

const (
	RoleSetAny               RoleSet = "any"
	RoleSetTown              RoleSet = "town"
	RoleSetTownCommon        RoleSet = "townCommon"
	RoleSetTownInvestigative RoleSet = "townInvestigative"
	RoleSetTownProtective    RoleSet = "townProtective"
	RoleSetTownKilling       RoleSet = "townKilling"
	RoleSetTownSupport       RoleSet = "townSupport"
	RoleSetMafia             RoleSet = "mafia"
	RoleSetMafiaKilling      RoleSet = "mafiaKilling"
	RoleSetMafiaSupport      RoleSet = "mafiaSupport"
	RoleSetCult              RoleSet = "cult"
	RoleSetFiends            RoleSet = "fiends"
	RoleSetNeutral           RoleSet = "neutral"
	RoleSetMinions           RoleSet = "minions"
)

// RoleOutlineOptionType tags one candidate in an outline slot.
type RoleOutlineOptionType string

const (
	OutlineOptionRole    RoleOutlineOptionType = "role"
	OutlineOptionRoleSet RoleOutlineOptionType = "roleSet"
)

// RoleOutlineOption is one candidate a slot may resolve to: a specific role
// or any role from a set.
type RoleOutlineOption interface {
	OutlineOptionType() RoleOutlineOptionType
}

// ExactRoleOption pins a slot to one role.
type ExactRoleOption struct {
	Role Role `json:"role"`
}

// RoleSetOption lets a slot resolve to any role in a set.
type RoleSetOption struct {
	RoleSet RoleSet `json:"roleSet"`
}

func (ExactRoleOption) OutlineOptionType() RoleOutlineOptionType { return OutlineOptionRole }
func (RoleSetOption) OutlineOptionType() RoleOutlineOptionType   { return OutlineOptionRoleSet }

// RoleOutline is one slot of the game's role list. At game start the server
// resolves each slot to a single role drawn from its options.
type RoleOutline struct {
	Options []RoleOutlineOption
}

// RoleList is the room's full slate of outline slots, one per seat.
type RoleList []RoleOutline

type roleOutlineOptionWire struct {
	Type    RoleOutlineOptionType `json:"type"`
	Role    *Role                 `json:"role,omitempty"`
	RoleSet *RoleSet              `json:"roleSet,omitempty"`
}

// DecodeRoleOutline parses one outline slot.
func DecodeRoleOutline(raw json.RawMessage) (RoleOutline, error) {
	var wire struct {
		Options []roleOutlineOptionWire `json:"options"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return RoleOutline{}, fmt.Errorf("decode role outline: %w", err)
	}
	outline := RoleOutline{Options: make([]RoleOutlineOption, 0, len(wire.Options))}
	for _, opt := range wire.Options {
		switch opt.Type {
		case OutlineOptionRole:
			if opt.Role == nil {
				return RoleOutline{}, fmt.Errorf("decode role outline: role option without role")
			}
			outline.Options = append(outline.Options, ExactRoleOption{Role: *opt.Role})
		case OutlineOptionRoleSet:
			if opt.RoleSet == nil {
				return RoleOutline{}, fmt.Errorf("decode role outline: roleSet option without set")
			}
			outline.Options = append(outline.Options, RoleSetOption{RoleSet: *opt.RoleSet})
		default:
			return RoleOutline{}, fmt.Errorf("decode role outline: unknown option type %q", opt.Type)
		}
	}
	return outline, nil
}

// DecodeRoleList parses the room's full role list.
func DecodeRoleList(raw json.RawMessage) (RoleList, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode role list: %w", err)
	}
	list := make(RoleList, 0, len(entries))
	for _, entry := range entries {
		outline, err := DecodeRoleOutline(entry)
		if err != nil {
			return nil, err
		}
		list = append(list, outline)
	}
	return list, nil
}

// EncodeRoleOutline renders one outline slot.
func EncodeRoleOutline(outline RoleOutline) ([]byte, error) {
	options := make([]roleOutlineOptionWire, 0, len(outline.Options))
	for _, opt := range outline.Options {
		switch o := opt.(type) {
		case ExactRoleOption:
			role := o.Role
			options = append(options, roleOutlineOptionWire{Type: OutlineOptionRole, Role: &role})
		case RoleSetOption:
			set := o.RoleSet
			options = append(options, roleOutlineOptionWire{Type: OutlineOptionRoleSet, RoleSet: &set})
		default:
			return nil, fmt.Errorf("encode role outline: unknown option type %T", opt)
		}
	}
	return json.Marshal(struct {
		Options []roleOutlineOptionWire `json:"options"`
	}{Options: options})
}

// EncodeRoleList renders the full role list.
func EncodeRoleList(list RoleList) ([]byte, error) {
	entries := make([]json.RawMessage, 0, len(list))
	for _, outline := range list {
		enc, err := EncodeRoleOutline(outline)
		if err != nil {
			return nil, err
		}
		entries = append(entries, enc)
	}
	return json.Marshal(entries)
}
