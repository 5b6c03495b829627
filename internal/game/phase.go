package game

import (
	"encoding/json"
	"fmt"
)

// PhaseType names a phase of the day/night cycle.
type PhaseType string

const (
	PhaseBriefing   PhaseType = "briefing"
	PhaseObituary   PhaseType = "obituary"
	PhaseDiscussion PhaseType = "discussion"
	PhaseNomination PhaseType = "nomination"
	PhaseTestimony  PhaseType = "testimony"
	PhaseJudgement  PhaseType = "judgement"
	PhaseFinalWords PhaseType = "finalWords"
	PhaseDusk       PhaseType = "dusk"
	PhaseNight      PhaseType = "night"
	PhaseRecess     PhaseType = "recess"
)

// PhaseState is the current phase plus its trial payload, when it has one.
// Transitions are server-driven only; the client never advances a phase on
// its own.
type PhaseState interface {
	Phase() PhaseType
}

type (
	// Briefing is the pre-game phase where roles are revealed to their owners.
	Briefing struct{}
	// Obituary reveals the previous night's deaths.
	Obituary struct{}
	// Discussion is open day chat before nominations open.
	Discussion struct{}
	// Nomination is the voting phase; TrialsLeft counts down per day.
	Nomination struct {
		TrialsLeft uint8 `json:"trialsLeft"`
	}
	// Testimony lets the player on trial defend themselves.
	Testimony struct {
		TrialsLeft    uint8       `json:"trialsLeft"`
		PlayerOnTrial PlayerIndex `json:"playerOnTrial"`
	}
	// Judgement is the innocent/guilty vote on the player on trial.
	Judgement struct {
		TrialsLeft    uint8       `json:"trialsLeft"`
		PlayerOnTrial PlayerIndex `json:"playerOnTrial"`
	}
	// FinalWords is the condemned player's last statement.
	FinalWords struct {
		PlayerOnTrial PlayerIndex `json:"playerOnTrial"`
	}
	// Dusk is the transition between day and night.
	Dusk struct{}
	// Night is when most abilities resolve.
	Night struct{}
	// Recess is the untimed idle phase (pre-game, post-game).
	Recess struct{}
)

func (Briefing) Phase() PhaseType   { return PhaseBriefing }
func (Obituary) Phase() PhaseType   { return PhaseObituary }
func (Discussion) Phase() PhaseType { return PhaseDiscussion }
func (Nomination) Phase() PhaseType { return PhaseNomination }
func (Testimony) Phase() PhaseType  { return PhaseTestimony }
func (Judgement) Phase() PhaseType  { return PhaseJudgement }
func (FinalWords) Phase() PhaseType { return PhaseFinalWords }
func (Dusk) Phase() PhaseType       { return PhaseDusk }
func (Night) Phase() PhaseType      { return PhaseNight }
func (Recess) Phase() PhaseType     { return PhaseRecess }

type phaseStateWire struct {
	Type          PhaseType    `json:"type"`
	TrialsLeft    *uint8       `json:"trialsLeft,omitempty"`
	PlayerOnTrial *PlayerIndex `json:"playerOnTrial,omitempty"`
}

// DecodePhaseState parses a tagged phase payload.
func DecodePhaseState(raw json.RawMessage) (PhaseState, error) {
	var wire phaseStateWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode phase state: %w", err)
	}
	trials := func() uint8 {
		if wire.TrialsLeft == nil {
			return 0
		}
		return *wire.TrialsLeft
	}
	onTrial := func() PlayerIndex {
		if wire.PlayerOnTrial == nil {
			return 0
		}
		return *wire.PlayerOnTrial
	}
	switch wire.Type {
	case PhaseBriefing:
		return Briefing{}, nil
	case PhaseObituary:
		return Obituary{}, nil
	case PhaseDiscussion:
		return Discussion{}, nil
	case PhaseNomination:
		return Nomination{TrialsLeft: trials()}, nil
	case PhaseTestimony:
		return Testimony{TrialsLeft: trials(), PlayerOnTrial: onTrial()}, nil
	case PhaseJudgement:
		return Judgement{TrialsLeft: trials(), PlayerOnTrial: onTrial()}, nil
	case PhaseFinalWords:
		return FinalWords{PlayerOnTrial: onTrial()}, nil
	case PhaseDusk:
		return Dusk{}, nil
	case PhaseNight:
		return Night{}, nil
	case PhaseRecess:
		return Recess{}, nil
	default:
		return nil, fmt.Errorf("decode phase state: unknown phase %q", wire.Type)
	}
}

// EncodePhaseState renders a phase state back to its wire form.
func EncodePhaseState(state PhaseState) ([]byte, error) {
	wire := phaseStateWire{Type: state.Phase()}
	switch s := state.(type) {
	case Nomination:
		wire.TrialsLeft = &s.TrialsLeft
	case Testimony:
		wire.TrialsLeft = &s.TrialsLeft
		wire.PlayerOnTrial = &s.PlayerOnTrial
	case Judgement:
		wire.TrialsLeft = &s.TrialsLeft
		wire.PlayerOnTrial = &s.PlayerOnTrial
	case FinalWords:
		wire.PlayerOnTrial = &s.PlayerOnTrial
	}
	return json.Marshal(wire)
}

// PhaseTimes holds the configured length, in seconds, of every timed phase.
type PhaseTimes struct {
	Briefing   uint64 `json:"briefing"`
	Obituary   uint64 `json:"obituary"`
	Discussion uint64 `json:"discussion"`
	Nomination uint64 `json:"nomination"`
	Testimony  uint64 `json:"testimony"`
	Judgement  uint64 `json:"judgement"`
	FinalWords uint64 `json:"finalWords"`
	Dusk       uint64 `json:"dusk"`
	Night      uint64 `json:"night"`
}

// DefaultPhaseTimes mirrors the server's stock settings.
func DefaultPhaseTimes() PhaseTimes {
	return PhaseTimes{
		Briefing:   20,
		Obituary:   10,
		Discussion: 100,
		Nomination: 60,
		Testimony:  30,
		Judgement:  30,
		FinalWords: 10,
		Dusk:       5,
		Night:      45,
	}
}

// Set updates one phase's configured time. Unknown phases are ignored;
// recess is untimed.
func (t *PhaseTimes) Set(phase PhaseType, seconds uint64) {
	switch phase {
	case PhaseBriefing:
		t.Briefing = seconds
	case PhaseObituary:
		t.Obituary = seconds
	case PhaseDiscussion:
		t.Discussion = seconds
	case PhaseNomination:
		t.Nomination = seconds
	case PhaseTestimony:
		t.Testimony = seconds
	case PhaseJudgement:
		t.Judgement = seconds
	case PhaseFinalWords:
		t.FinalWords = seconds
	case PhaseDusk:
		t.Dusk = seconds
	case PhaseNight:
		t.Night = seconds
	}
}
