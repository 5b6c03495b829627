package game

import (
	"encoding/json"
	"fmt"
)

// GravePhase is the half of the day cycle a player died in.
type GravePhase string

const (
	GravePhaseDay   GravePhase = "day"
	GravePhaseNight GravePhase = "night"
)

// Grave is one headstone in the graveyard. Appended when a player dies and
// never mutated afterwards, except when the server re-reveals an obscured
// grave.
type Grave struct {
	Player      PlayerIndex      `json:"player"`
	DiedPhase   GravePhase       `json:"diedPhase"`
	DayNumber   uint8            `json:"dayNumber"`
	Information GraveInformation `json:"-"`
}

// GraveInformationType tags the two reveal levels of a grave.
type GraveInformationType string

const (
	GraveInfoObscured GraveInformationType = "obscured"
	GraveInfoNormal   GraveInformationType = "normal"
)

// GraveInformation is what the server lets this client see on a headstone.
type GraveInformation interface {
	GraveInformationType() GraveInformationType
}

// ObscuredGrave hides everything; the mortician and the obscured-graves
// modifier produce these.
type ObscuredGrave struct{}

// NormalGrave shows the dead player's role, will and cause of death.
type NormalGrave struct {
	Role       Role            `json:"role"`
	Will       string          `json:"will"`
	DeathCause GraveDeathCause `json:"deathCause"`
	DeathNotes []string        `json:"deathNotes"`
}

func (ObscuredGrave) GraveInformationType() GraveInformationType { return GraveInfoObscured }
func (NormalGrave) GraveInformationType() GraveInformationType   { return GraveInfoNormal }

// GraveDeathCauseType tags how a player died.
type GraveDeathCauseType string

const (
	DeathCauseExecution GraveDeathCauseType = "execution"
	DeathCauseLeftTown  GraveDeathCauseType = "leftTown"
	DeathCauseKillers   GraveDeathCauseType = "killers"
)

// GraveDeathCause is either a town-driven death or a list of killers.
type GraveDeathCause interface {
	DeathCauseType() GraveDeathCauseType
}

// ExecutionDeath is death by trial verdict.
type ExecutionDeath struct{}

// LeftTownDeath is a player removed from the game without dying in it.
type LeftTownDeath struct{}

// KillersDeath lists everything that attacked the player that night.
type KillersDeath struct {
	Killers []GraveKiller `json:"killers"`
}

func (ExecutionDeath) DeathCauseType() GraveDeathCauseType { return DeathCauseExecution }
func (LeftTownDeath) DeathCauseType() GraveDeathCauseType  { return DeathCauseLeftTown }
func (KillersDeath) DeathCauseType() GraveDeathCauseType   { return DeathCauseKillers }

// GraveKillerType tags one attacker on a headstone.
type GraveKillerType string

const (
	GraveKillerRole        GraveKillerType = "role"
	GraveKillerRoleSet     GraveKillerType = "roleSet"
	GraveKillerFaction     GraveKillerType = "faction"
	GraveKillerSuicide     GraveKillerType = "suicide"
	GraveKillerBrokenHeart GraveKillerType = "brokenHeart"
	GraveKillerQuit        GraveKillerType = "quit"
)

// GraveKiller is one attacker credit on a grave.
type GraveKiller interface {
	GraveKillerType() GraveKillerType
}

// RoleKiller credits a specific role.
type RoleKiller struct {
	Role Role `json:"value"`
}

// RoleSetKiller credits a role group instead of a specific role; produced by
// the role-set-grave-killers modifier.
type RoleSetKiller struct {
	RoleSet string `json:"value"`
}

// FactionKiller credits a faction, used when the exact role stays hidden.
type FactionKiller struct {
	Faction string `json:"value"`
}

// SuicideKiller marks a self-inflicted death.
type SuicideKiller struct{}

// BrokenHeartKiller marks a death following a love-linked partner's death.
type BrokenHeartKiller struct{}

// QuitKiller marks a death caused by the player quitting.
type QuitKiller struct{}

func (RoleKiller) GraveKillerType() GraveKillerType        { return GraveKillerRole }
func (RoleSetKiller) GraveKillerType() GraveKillerType     { return GraveKillerRoleSet }
func (FactionKiller) GraveKillerType() GraveKillerType     { return GraveKillerFaction }
func (SuicideKiller) GraveKillerType() GraveKillerType     { return GraveKillerSuicide }
func (BrokenHeartKiller) GraveKillerType() GraveKillerType { return GraveKillerBrokenHeart }
func (QuitKiller) GraveKillerType() GraveKillerType        { return GraveKillerQuit }

type graveWire struct {
	Player      PlayerIndex     `json:"player"`
	DiedPhase   GravePhase      `json:"diedPhase"`
	DayNumber   uint8           `json:"dayNumber"`
	Information json.RawMessage `json:"information"`
}

// DecodeGrave parses one headstone.
func DecodeGrave(raw json.RawMessage) (Grave, error) {
	var wire graveWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Grave{}, fmt.Errorf("decode grave: %w", err)
	}
	info, err := decodeGraveInformation(wire.Information)
	if err != nil {
		return Grave{}, err
	}
	return Grave{
		Player:      wire.Player,
		DiedPhase:   wire.DiedPhase,
		DayNumber:   wire.DayNumber,
		Information: info,
	}, nil
}

func decodeGraveInformation(raw json.RawMessage) (GraveInformation, error) {
	if len(raw) == 0 {
		return ObscuredGrave{}, nil
	}
	var tag struct {
		Type GraveInformationType `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode grave information: %w", err)
	}
	switch tag.Type {
	case GraveInfoObscured:
		return ObscuredGrave{}, nil
	case GraveInfoNormal:
		var wire struct {
			Role       Role            `json:"role"`
			Will       string          `json:"will"`
			DeathCause json.RawMessage `json:"deathCause"`
			DeathNotes []string        `json:"deathNotes"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("decode grave information: %w", err)
		}
		cause, err := decodeDeathCause(wire.DeathCause)
		if err != nil {
			return nil, err
		}
		return NormalGrave{
			Role:       wire.Role,
			Will:       wire.Will,
			DeathCause: cause,
			DeathNotes: wire.DeathNotes,
		}, nil
	default:
		return nil, fmt.Errorf("decode grave information: unknown type %q", tag.Type)
	}
}

func decodeDeathCause(raw json.RawMessage) (GraveDeathCause, error) {
	if len(raw) == 0 {
		return KillersDeath{}, nil
	}
	var tag struct {
		Type    GraveDeathCauseType `json:"type"`
		Killers []json.RawMessage   `json:"killers"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode death cause: %w", err)
	}
	switch tag.Type {
	case DeathCauseExecution:
		return ExecutionDeath{}, nil
	case DeathCauseLeftTown:
		return LeftTownDeath{}, nil
	case DeathCauseKillers:
		killers := make([]GraveKiller, 0, len(tag.Killers))
		for _, k := range tag.Killers {
			killer, err := decodeGraveKiller(k)
			if err != nil {
				return nil, err
			}
			killers = append(killers, killer)
		}
		return KillersDeath{Killers: killers}, nil
	default:
		return nil, fmt.Errorf("decode death cause: unknown type %q", tag.Type)
	}
}

func decodeGraveKiller(raw json.RawMessage) (GraveKiller, error) {
	var tag struct {
		Type GraveKillerType `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode grave killer: %w", err)
	}
	switch tag.Type {
	case GraveKillerRole:
		var k RoleKiller
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, fmt.Errorf("decode grave killer: %w", err)
		}
		return k, nil
	case GraveKillerRoleSet:
		var k RoleSetKiller
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, fmt.Errorf("decode grave killer: %w", err)
		}
		return k, nil
	case GraveKillerFaction:
		var k FactionKiller
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, fmt.Errorf("decode grave killer: %w", err)
		}
		return k, nil
	case GraveKillerSuicide:
		return SuicideKiller{}, nil
	case GraveKillerBrokenHeart:
		return BrokenHeartKiller{}, nil
	case GraveKillerQuit:
		return QuitKiller{}, nil
	default:
		return nil, fmt.Errorf("decode grave killer: unknown type %q", tag.Type)
	}
}

// EncodeGrave renders a headstone back to its wire form.
func EncodeGrave(g Grave) ([]byte, error) {
	info, err := encodeGraveInformation(g.Information)
	if err != nil {
		return nil, err
	}
	return json.Marshal(graveWire{
		Player:      g.Player,
		DiedPhase:   g.DiedPhase,
		DayNumber:   g.DayNumber,
		Information: info,
	})
}

func encodeGraveInformation(info GraveInformation) (json.RawMessage, error) {
	switch i := info.(type) {
	case ObscuredGrave, nil:
		return json.Marshal(map[string]any{"type": GraveInfoObscured})
	case NormalGrave:
		cause, err := encodeDeathCause(i.DeathCause)
		if err != nil {
			return nil, err
		}
		notes := i.DeathNotes
		if notes == nil {
			notes = []string{}
		}
		return json.Marshal(map[string]any{
			"type":       GraveInfoNormal,
			"role":       i.Role,
			"will":       i.Will,
			"deathCause": json.RawMessage(cause),
			"deathNotes": notes,
		})
	default:
		return nil, fmt.Errorf("encode grave information: unknown type %T", info)
	}
}

func encodeDeathCause(cause GraveDeathCause) (json.RawMessage, error) {
	switch c := cause.(type) {
	case ExecutionDeath:
		return json.Marshal(map[string]any{"type": DeathCauseExecution})
	case LeftTownDeath:
		return json.Marshal(map[string]any{"type": DeathCauseLeftTown})
	case KillersDeath, nil:
		var killers []json.RawMessage
		if kd, ok := c.(KillersDeath); ok {
			for _, k := range kd.Killers {
				enc, err := encodeGraveKiller(k)
				if err != nil {
					return nil, err
				}
				killers = append(killers, enc)
			}
		}
		if killers == nil {
			killers = []json.RawMessage{}
		}
		return json.Marshal(map[string]any{"type": DeathCauseKillers, "killers": killers})
	default:
		return nil, fmt.Errorf("encode death cause: unknown type %T", cause)
	}
}

func encodeGraveKiller(k GraveKiller) (json.RawMessage, error) {
	switch killer := k.(type) {
	case RoleKiller:
		return json.Marshal(map[string]any{"type": GraveKillerRole, "value": killer.Role})
	case RoleSetKiller:
		return json.Marshal(map[string]any{"type": GraveKillerRoleSet, "value": killer.RoleSet})
	case FactionKiller:
		return json.Marshal(map[string]any{"type": GraveKillerFaction, "value": killer.Faction})
	case SuicideKiller:
		return json.Marshal(map[string]any{"type": GraveKillerSuicide})
	case BrokenHeartKiller:
		return json.Marshal(map[string]any{"type": GraveKillerBrokenHeart})
	case QuitKiller:
		return json.Marshal(map[string]any{"type": GraveKillerQuit})
	default:
		return nil, fmt.Errorf("encode grave killer: unknown type %T", k)
	}
}
