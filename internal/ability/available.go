package ability

import (
	"encoding/json"
	"errors"
	"fmt"

	"nightfall/client/internal/game"
)

// Validation failures are sentinel errors so callers can distinguish "you
// picked something the server never offered" from "you picked too much".
var (
	ErrSelectionKindMismatch = errors.New("selection kind does not match controller")
	ErrPlayerNotOffered      = errors.New("player is not offered by this controller")
	ErrRoleNotOffered        = errors.New("role is not offered by this controller")
	ErrOutlineNotOffered     = errors.New("outline slot is not offered by this controller")
	ErrDuplicateSelection    = errors.New("duplicate choices are not allowed")
	ErrTooManyChosen         = errors.New("too many choices for this controller")
	ErrNoneNotAllowed        = errors.New("empty choice is not allowed")
)

// Available describes what one controller currently accepts. It always pairs
// with a Selection of the same kind.
type Available interface {
	SelectionKind() SelectionKind
	// Validate reports whether sel is currently legal for this controller.
	Validate(sel Selection) error
}

type (
	// AvailableUnit accepts only the unit trigger.
	AvailableUnit struct{}
	// AvailableBoolean accepts either toggle state.
	AvailableBoolean struct{}
	// AvailableOnePlayerOption accepts one of the offered players, or none.
	AvailableOnePlayerOption struct {
		Players   []game.PlayerIndex `json:"availablePlayers"`
		AllowNone bool               `json:"canChooseNone"`
	}
	// AvailableTwoPlayerOption accepts a pair drawn from two offer lists.
	AvailableTwoPlayerOption struct {
		First           []game.PlayerIndex `json:"availableFirstPlayers"`
		Second          []game.PlayerIndex `json:"availableSecondPlayers"`
		AllowNone       bool               `json:"canChooseNone"`
		AllowDuplicates bool               `json:"canChooseDuplicates"`
	}
	// AvailableRoleOption accepts one of the offered roles, or none.
	AvailableRoleOption struct {
		Roles     []game.Role `json:"availableRoles"`
		AllowNone bool        `json:"canChooseNone"`
	}
	// AvailableTwoRoleOption accepts two independent optional roles.
	AvailableTwoRoleOption struct {
		Roles           []game.Role `json:"availableRoles"`
		AllowDuplicates bool        `json:"canChooseDuplicates"`
	}
	// AvailableTwoRoleOutlineOption accepts up to two role list slots.
	AvailableTwoRoleOutlineOption struct {
		Outlines []OutlineIndex `json:"availableOutlines"`
	}
	// AvailableString accepts any text.
	AvailableString struct{}
	// AvailablePlayerList accepts an ordered subset of the offered players.
	AvailablePlayerList struct {
		Players         []game.PlayerIndex `json:"availablePlayers"`
		AllowDuplicates bool               `json:"canChooseDuplicates"`
		MaxPlayers      *uint8             `json:"maxPlayers,omitempty"`
	}
	// AvailableRoleList accepts an ordered subset of the offered roles.
	AvailableRoleList struct {
		Roles           []game.Role `json:"availableRoles"`
		AllowDuplicates bool        `json:"canChooseDuplicates"`
		MaxRoles        *uint8      `json:"maxRoles,omitempty"`
	}
	// AvailableKira accepts a guess for each listed player. With
	// CountMustGuess set, exactly that many players must carry a guess.
	AvailableKira struct {
		Players        []game.PlayerIndex `json:"availablePlayers"`
		CountMustGuess uint8              `json:"countMustGuess"`
	}
)

func (AvailableUnit) SelectionKind() SelectionKind            { return SelectionUnit }
func (AvailableBoolean) SelectionKind() SelectionKind         { return SelectionBoolean }
func (AvailableOnePlayerOption) SelectionKind() SelectionKind { return SelectionOnePlayerOption }
func (AvailableTwoPlayerOption) SelectionKind() SelectionKind { return SelectionTwoPlayerOption }
func (AvailableRoleOption) SelectionKind() SelectionKind      { return SelectionRoleOption }
func (AvailableTwoRoleOption) SelectionKind() SelectionKind   { return SelectionTwoRoleOption }
func (AvailableTwoRoleOutlineOption) SelectionKind() SelectionKind {
	return SelectionTwoRoleOutlineOption
}
func (AvailableString) SelectionKind() SelectionKind     { return SelectionString }
func (AvailablePlayerList) SelectionKind() SelectionKind { return SelectionPlayerList }
func (AvailableRoleList) SelectionKind() SelectionKind   { return SelectionRoleList }
func (AvailableKira) SelectionKind() SelectionKind       { return SelectionKira }

func kindMismatch(av Available, sel Selection) error {
	if sel == nil || av.SelectionKind() != sel.SelectionKind() {
		return fmt.Errorf("%w: controller wants %q", ErrSelectionKindMismatch, av.SelectionKind())
	}
	return nil
}

func containsPlayer(offered []game.PlayerIndex, p game.PlayerIndex) bool {
	for _, o := range offered {
		if o == p {
			return true
		}
	}
	return false
}

func containsRole(offered []game.Role, r game.Role) bool {
	for _, o := range offered {
		if o == r {
			return true
		}
	}
	return false
}

func (a AvailableUnit) Validate(sel Selection) error { return kindMismatch(a, sel) }

func (a AvailableBoolean) Validate(sel Selection) error { return kindMismatch(a, sel) }

func (a AvailableOnePlayerOption) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(OnePlayerOptionSelection)
	if s.Player == nil {
		if !a.AllowNone {
			return ErrNoneNotAllowed
		}
		return nil
	}
	if !containsPlayer(a.Players, *s.Player) {
		return fmt.Errorf("%w: player %d", ErrPlayerNotOffered, *s.Player)
	}
	return nil
}

func (a AvailableTwoPlayerOption) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(TwoPlayerOptionSelection)
	if s.Players == nil {
		if !a.AllowNone {
			return ErrNoneNotAllowed
		}
		return nil
	}
	first, second := s.Players[0], s.Players[1]
	if !containsPlayer(a.First, first) {
		return fmt.Errorf("%w: player %d", ErrPlayerNotOffered, first)
	}
	if !containsPlayer(a.Second, second) {
		return fmt.Errorf("%w: player %d", ErrPlayerNotOffered, second)
	}
	if !a.AllowDuplicates && first == second {
		return fmt.Errorf("%w: player %d twice", ErrDuplicateSelection, first)
	}
	return nil
}

func (a AvailableRoleOption) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(RoleOptionSelection)
	if s.Role == nil {
		if !a.AllowNone {
			return ErrNoneNotAllowed
		}
		return nil
	}
	if !containsRole(a.Roles, *s.Role) {
		return fmt.Errorf("%w: role %q", ErrRoleNotOffered, *s.Role)
	}
	return nil
}

func (a AvailableTwoRoleOption) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(TwoRoleOptionSelection)
	for _, role := range []*game.Role{s.First, s.Second} {
		if role == nil {
			continue
		}
		if !containsRole(a.Roles, *role) {
			return fmt.Errorf("%w: role %q", ErrRoleNotOffered, *role)
		}
	}
	if !a.AllowDuplicates && s.First != nil && s.Second != nil && *s.First == *s.Second {
		return fmt.Errorf("%w: role %q twice", ErrDuplicateSelection, *s.First)
	}
	return nil
}

func (a AvailableTwoRoleOutlineOption) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(TwoRoleOutlineOptionSelection)
	contains := func(idx OutlineIndex) bool {
		for _, o := range a.Outlines {
			if o == idx {
				return true
			}
		}
		return false
	}
	for _, slot := range []*OutlineIndex{s.First, s.Second} {
		if slot == nil {
			continue
		}
		if !contains(*slot) {
			return fmt.Errorf("%w: outline %d", ErrOutlineNotOffered, *slot)
		}
	}
	if s.First != nil && s.Second != nil && *s.First == *s.Second {
		return fmt.Errorf("%w: outline %d twice", ErrDuplicateSelection, *s.First)
	}
	return nil
}

func (a AvailableString) Validate(sel Selection) error { return kindMismatch(a, sel) }

func (a AvailablePlayerList) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(PlayerListSelection)
	if a.MaxPlayers != nil && len(s.Players) > int(*a.MaxPlayers) {
		return fmt.Errorf("%w: %d chosen, at most %d", ErrTooManyChosen, len(s.Players), *a.MaxPlayers)
	}
	seen := make(map[game.PlayerIndex]bool, len(s.Players))
	for _, p := range s.Players {
		if !containsPlayer(a.Players, p) {
			return fmt.Errorf("%w: player %d", ErrPlayerNotOffered, p)
		}
		if seen[p] && !a.AllowDuplicates {
			return fmt.Errorf("%w: player %d twice", ErrDuplicateSelection, p)
		}
		seen[p] = true
	}
	return nil
}

func (a AvailableRoleList) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(RoleListSelection)
	if a.MaxRoles != nil && len(s.Roles) > int(*a.MaxRoles) {
		return fmt.Errorf("%w: %d chosen, at most %d", ErrTooManyChosen, len(s.Roles), *a.MaxRoles)
	}
	seen := make(map[game.Role]bool, len(s.Roles))
	for _, r := range s.Roles {
		if !containsRole(a.Roles, r) {
			return fmt.Errorf("%w: role %q", ErrRoleNotOffered, r)
		}
		if seen[r] && !a.AllowDuplicates {
			return fmt.Errorf("%w: role %q twice", ErrDuplicateSelection, r)
		}
		seen[r] = true
	}
	return nil
}

func (a AvailableKira) Validate(sel Selection) error {
	if err := kindMismatch(a, sel); err != nil {
		return err
	}
	s := sel.(KiraSelection)
	seen := make(map[game.PlayerIndex]bool, len(s.Guesses))
	for _, g := range s.Guesses {
		if !containsPlayer(a.Players, g.Player) {
			return fmt.Errorf("%w: player %d", ErrPlayerNotOffered, g.Player)
		}
		if seen[g.Player] {
			return fmt.Errorf("%w: player %d twice", ErrDuplicateSelection, g.Player)
		}
		seen[g.Player] = true
	}
	if a.CountMustGuess != 0 {
		guessed := 0
		for _, g := range s.Guesses {
			if g.Guess != game.KiraGuessNone {
				guessed++
			}
		}
		if guessed != int(a.CountMustGuess) {
			return fmt.Errorf("%w: %d guesses, exactly %d required", ErrTooManyChosen, guessed, a.CountMustGuess)
		}
	}
	return nil
}

// DecodeAvailable parses a tagged availability payload.
func DecodeAvailable(raw json.RawMessage) (Available, error) {
	var tag struct {
		Type SelectionKind `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	switch tag.Type {
	case SelectionUnit:
		return AvailableUnit{}, nil
	case SelectionBoolean:
		return AvailableBoolean{}, nil
	case SelectionOnePlayerOption:
		return unmarshalAvailable(raw, &AvailableOnePlayerOption{})
	case SelectionTwoPlayerOption:
		return unmarshalAvailable(raw, &AvailableTwoPlayerOption{})
	case SelectionRoleOption:
		return unmarshalAvailable(raw, &AvailableRoleOption{})
	case SelectionTwoRoleOption:
		return unmarshalAvailable(raw, &AvailableTwoRoleOption{})
	case SelectionTwoRoleOutlineOption:
		return unmarshalAvailable(raw, &AvailableTwoRoleOutlineOption{})
	case SelectionString:
		return AvailableString{}, nil
	case SelectionPlayerList:
		return unmarshalAvailable(raw, &AvailablePlayerList{})
	case SelectionRoleList:
		return unmarshalAvailable(raw, &AvailableRoleList{})
	case SelectionKira:
		return unmarshalAvailable(raw, &AvailableKira{})
	default:
		return nil, fmt.Errorf("decode availability: unknown kind %q", tag.Type)
	}
}

func unmarshalAvailable[T Available](raw json.RawMessage, dst *T) (Available, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return *dst, nil
}

// EncodeAvailable renders an availability with its type tag.
func EncodeAvailable(av Available) ([]byte, error) {
	body, err := json.Marshal(av)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	tag, err := json.Marshal(av.SelectionKind())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}

// EmptySelection returns the no-choice selection matching an availability.
func EmptySelection(av Available) Selection {
	switch av.SelectionKind() {
	case SelectionUnit:
		return UnitSelection{}
	case SelectionBoolean:
		return BooleanSelection{}
	case SelectionOnePlayerOption:
		return OnePlayerOptionSelection{}
	case SelectionTwoPlayerOption:
		return TwoPlayerOptionSelection{}
	case SelectionRoleOption:
		return RoleOptionSelection{}
	case SelectionTwoRoleOption:
		return TwoRoleOptionSelection{}
	case SelectionTwoRoleOutlineOption:
		return TwoRoleOutlineOptionSelection{}
	case SelectionString:
		return StringSelection{}
	case SelectionPlayerList:
		return PlayerListSelection{}
	case SelectionRoleList:
		return RoleListSelection{}
	case SelectionKira:
		return KiraSelection{}
	default:
		return UnitSelection{}
	}
}
