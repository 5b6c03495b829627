package ability

import (
	"encoding/json"
	"fmt"

	"nightfall/client/internal/game"
)

// OutlineIndex addresses one slot of the room's role list.
type OutlineIndex = uint8

// SelectionKind tags the selection shapes.
type SelectionKind string

const (
	SelectionUnit                 SelectionKind = "unit"
	SelectionBoolean              SelectionKind = "boolean"
	SelectionOnePlayerOption      SelectionKind = "onePlayerOption"
	SelectionTwoPlayerOption      SelectionKind = "twoPlayerOption"
	SelectionRoleOption           SelectionKind = "roleOption"
	SelectionTwoRoleOption        SelectionKind = "twoRoleOption"
	SelectionTwoRoleOutlineOption SelectionKind = "twoRoleOutlineOption"
	SelectionString               SelectionKind = "string"
	SelectionPlayerList           SelectionKind = "playerList"
	SelectionRoleList             SelectionKind = "roleList"
	SelectionKira                 SelectionKind = "kira"
)

// Selection is one ability input's current value. Every shape has an empty
// value, so "no choice yet" never needs a separate representation.
type Selection interface {
	SelectionKind() SelectionKind
}

type (
	// UnitSelection is a trigger with no parameters.
	UnitSelection struct{}
	// BooleanSelection is an on/off toggle.
	BooleanSelection struct {
		Value bool `json:"selection"`
	}
	// OnePlayerOptionSelection targets at most one player.
	OnePlayerOptionSelection struct {
		Player *game.PlayerIndex `json:"selection"`
	}
	// TwoPlayerOptionSelection targets an ordered pair of players.
	TwoPlayerOptionSelection struct {
		Players *[2]game.PlayerIndex `json:"selection"`
	}
	// RoleOptionSelection picks at most one role.
	RoleOptionSelection struct {
		Role *game.Role `json:"selection"`
	}
	// TwoRoleOptionSelection picks two independent optional roles.
	TwoRoleOptionSelection struct {
		First  *game.Role `json:"first"`
		Second *game.Role `json:"second"`
	}
	// TwoRoleOutlineOptionSelection picks up to two role list slots.
	TwoRoleOutlineOptionSelection struct {
		First  *OutlineIndex `json:"first"`
		Second *OutlineIndex `json:"second"`
	}
	// StringSelection is free text, e.g. a forged will.
	StringSelection struct {
		Value string `json:"selection"`
	}
	// PlayerListSelection is an ordered multi-target list.
	PlayerListSelection struct {
		Players []game.PlayerIndex `json:"selection"`
	}
	// RoleListSelection is an ordered multi-role list.
	RoleListSelection struct {
		Roles []game.Role `json:"selection"`
	}
	// KiraSelection is the kira guess grid.
	KiraSelection struct {
		Guesses []game.KiraGuessEntry `json:"selection"`
	}
)

func (UnitSelection) SelectionKind() SelectionKind            { return SelectionUnit }
func (BooleanSelection) SelectionKind() SelectionKind         { return SelectionBoolean }
func (OnePlayerOptionSelection) SelectionKind() SelectionKind { return SelectionOnePlayerOption }
func (TwoPlayerOptionSelection) SelectionKind() SelectionKind { return SelectionTwoPlayerOption }
func (RoleOptionSelection) SelectionKind() SelectionKind      { return SelectionRoleOption }
func (TwoRoleOptionSelection) SelectionKind() SelectionKind   { return SelectionTwoRoleOption }
func (TwoRoleOutlineOptionSelection) SelectionKind() SelectionKind {
	return SelectionTwoRoleOutlineOption
}
func (StringSelection) SelectionKind() SelectionKind     { return SelectionString }
func (PlayerListSelection) SelectionKind() SelectionKind { return SelectionPlayerList }
func (RoleListSelection) SelectionKind() SelectionKind   { return SelectionRoleList }
func (KiraSelection) SelectionKind() SelectionKind       { return SelectionKira }

// DecodeSelection parses a tagged selection payload.
func DecodeSelection(raw json.RawMessage) (Selection, error) {
	var tag struct {
		Type SelectionKind `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	switch tag.Type {
	case SelectionUnit:
		return UnitSelection{}, nil
	case SelectionBoolean:
		return unmarshalSelection(raw, &BooleanSelection{})
	case SelectionOnePlayerOption:
		return unmarshalSelection(raw, &OnePlayerOptionSelection{})
	case SelectionTwoPlayerOption:
		return unmarshalSelection(raw, &TwoPlayerOptionSelection{})
	case SelectionRoleOption:
		return unmarshalSelection(raw, &RoleOptionSelection{})
	case SelectionTwoRoleOption:
		return unmarshalSelection(raw, &TwoRoleOptionSelection{})
	case SelectionTwoRoleOutlineOption:
		return unmarshalSelection(raw, &TwoRoleOutlineOptionSelection{})
	case SelectionString:
		return unmarshalSelection(raw, &StringSelection{})
	case SelectionPlayerList:
		return unmarshalSelection(raw, &PlayerListSelection{})
	case SelectionRoleList:
		return unmarshalSelection(raw, &RoleListSelection{})
	case SelectionKira:
		return unmarshalSelection(raw, &KiraSelection{})
	default:
		return nil, fmt.Errorf("decode selection: unknown kind %q", tag.Type)
	}
}

func unmarshalSelection[T Selection](raw json.RawMessage, dst *T) (Selection, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}
	return *dst, nil
}

// EncodeSelection renders a selection with its type tag.
func EncodeSelection(sel Selection) ([]byte, error) {
	body, err := json.Marshal(sel)
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	tag, err := json.Marshal(sel.SelectionKind())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}

// SelectionsEqual reports structural equality of two selections.
func SelectionsEqual(a, b Selection) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.SelectionKind() != b.SelectionKind() {
		return false
	}
	ra, err := EncodeSelection(a)
	if err != nil {
		return false
	}
	rb, err := EncodeSelection(b)
	if err != nil {
		return false
	}
	return string(ra) == string(rb)
}
