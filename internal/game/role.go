package game

import (
	"encoding/json"
	"fmt"
)

// Role names a role in the rotation. The authoritative list lives on the
// server; the client treats unknown roles as displayable but stateless.
type Role string

// RoleNone marks an unrevealed role label.
const RoleNone Role = ""

const (
	// Town investigative
	RoleDetective  Role = "detective"
	RoleLookout    Role = "lookout"
	RoleTracker    Role = "tracker"
	RoleSpy        Role = "spy"
	RolePsychic    Role = "psychic"
	RoleAuditor    Role = "auditor"
	RoleSnoop      Role = "snoop"
	RoleGossip     Role = "gossip"
	RoleTallyClerk Role = "tallyClerk"
	// Town protective
	RoleDoctor     Role = "doctor"
	RoleBodyguard  Role = "bodyguard"
	RoleCop        Role = "cop"
	RoleBouncer    Role = "bouncer"
	RoleEngineer   Role = "engineer"
	RoleArmorsmith Role = "armorsmith"
	RoleSteward    Role = "steward"
	// Town killing
	RoleVigilante Role = "vigilante"
	RoleVeteran   Role = "veteran"
	RoleMarksman  Role = "marksman"
	RoleDeputy    Role = "deputy"
	// Town support
	RoleJailor         Role = "jailor"
	RoleMedium         Role = "medium"
	RoleRetributionist Role = "retributionist"
	RoleReporter       Role = "reporter"
	RoleMayor          Role = "mayor"
	RoleTransporter    Role = "transporter"
	RoleVillager       Role = "villager"
	// Mafia
	RoleGodfather   Role = "godfather"
	RoleMafioso     Role = "mafioso"
	RoleRecruiter   Role = "recruiter"
	RoleForger      Role = "forger"
	RoleDisguiser   Role = "disguiser"
	RoleFramer      Role = "framer"
	RoleHypnotist   Role = "hypnotist"
	RoleBlackmailer Role = "blackmailer"
	RoleInformant   Role = "informant"
	RoleConsort     Role = "consort"
	RoleMortician   Role = "mortician"
	// Cult
	RoleApostle  Role = "apostle"
	RoleDisciple Role = "disciple"
	RoleZealot   Role = "zealot"
	// Fiends
	RoleArsonist     Role = "arsonist"
	RoleWerewolf     Role = "werewolf"
	RoleOjo          Role = "ojo"
	RolePuppeteer    Role = "puppeteer"
	RolePyrolisk     Role = "pyrolisk"
	RoleKira         Role = "kira"
	RoleSerialKiller Role = "serialKiller"
	RoleWarden       Role = "warden"
	// Neutral
	RoleJester        Role = "jester"
	RoleRevolutionary Role = "revolutionary"
	RolePolitician    Role = "politician"
	RoleDoomsayer     Role = "doomsayer"
	RoleWitch         Role = "witch"
	RoleScarecrow     Role = "scarecrow"
	RoleWarper        Role = "warper"
	RoleKidnapper     Role = "kidnapper"
	RoleChronokaiser  Role = "chronokaiser"
	RoleMartyr        Role = "martyr"
	RoleWildcard      Role = "wildcard"
)

// DoomsayerGuess is one faction guess in the doomsayer's three-player slate.
type DoomsayerGuess string

const (
	DoomsayerGuessMafia   DoomsayerGuess = "mafia"
	DoomsayerGuessNeutral DoomsayerGuess = "neutral"
	DoomsayerGuessFiends  DoomsayerGuess = "fiends"
	DoomsayerGuessCult    DoomsayerGuess = "cult"
)

// KiraGuess is one column of the kira guess grid.
type KiraGuess string

const (
	KiraGuessNone              KiraGuess = "none"
	KiraGuessNonTown           KiraGuess = "nonTown"
	KiraGuessTownInvestigative KiraGuess = "townInvestigative"
	KiraGuessTownProtective    KiraGuess = "townProtective"
	KiraGuessTownKilling       KiraGuess = "townKilling"
	KiraGuessTownSupport       KiraGuess = "townSupport"
)

// MarksmanMode tracks the marksman's day-loaded rifle.
type MarksmanMode string

const (
	MarksmanCamp       MarksmanMode = "camp"
	MarksmanNotLoaded  MarksmanMode = "notLoaded"
	MarksmanShotTownie MarksmanMode = "shotTownie"
)

// RoleState is the current player's own role plus its private counters and
// sub-selections. The server replaces it wholesale; fields of different
// variants are never merged.
type RoleState interface {
	Role() Role
}

// BasicState is the state of a role the client tracks no private counters
// for. Distinct roles share this shape but never a value.
type BasicState struct {
	RoleName Role `json:"-"`
}

func (s BasicState) Role() Role { return s.RoleName }

type (
	// JailorState tracks remaining executions and tonight's jailed target.
	JailorState struct {
		ExecutionsRemaining uint8        `json:"executionsRemaining"`
		JailedTarget        *PlayerIndex `json:"jailedTargetRef,omitempty"`
	}
	// MediumState tracks remaining seances and the current seanced player.
	MediumState struct {
		SeancesRemaining uint8        `json:"seancesRemaining"`
		SeancedTarget    *PlayerIndex `json:"seancedTarget,omitempty"`
	}
	// DoctorState tracks the single self-heal.
	DoctorState struct {
		SelfHealsRemaining uint8 `json:"selfHealsRemaining"`
	}
	// BodyguardState tracks the single self-shield.
	BodyguardState struct {
		SelfShieldsRemaining uint8 `json:"selfShieldsRemaining"`
	}
	// VigilanteState tracks bullets and the guilt suicide.
	VigilanteState struct {
		Bullets     uint8 `json:"bullets"`
		WillSuicide bool  `json:"willSuicide"`
	}
	// VeteranState tracks remaining alerts.
	VeteranState struct {
		AlertsRemaining uint8 `json:"alertsRemaining"`
	}
	// MarksmanState tracks the rifle mode.
	MarksmanState struct {
		Mode MarksmanMode `json:"state"`
	}
	// MayorState tracks whether the mayor has revealed.
	MayorState struct {
		Revealed bool `json:"revealed"`
	}
	// PoliticianState tracks whether the politician has revealed.
	PoliticianState struct {
		Revealed bool `json:"revealed"`
	}
	// ReporterState carries the drafted report and interview target.
	ReporterState struct {
		Report      string       `json:"report"`
		Public      bool         `json:"public"`
		Interviewed *PlayerIndex `json:"interviewedPlayer,omitempty"`
	}
	// ForgerState tracks remaining forges and the drafted forgery.
	ForgerState struct {
		ForgesRemaining uint8  `json:"forgesRemaining"`
		ForgedRole      Role   `json:"forgedRole"`
		ForgedWill      string `json:"forgedWill"`
	}
	// DisguiserState tracks the currently worn role.
	DisguiserState struct {
		CurrentRole Role `json:"currentRole"`
	}
	// DoomsayerState carries the three-player faction slate.
	DoomsayerState struct {
		Guesses [3]DoomsayerGuessEntry `json:"guesses"`
	}
	// KiraState carries the per-player guess grid.
	KiraState struct {
		Guesses []KiraGuessEntry `json:"guesses"`
	}
	// WerewolfState lists players the werewolf is tracking.
	WerewolfState struct {
		TrackedPlayers []PlayerIndex `json:"trackedPlayers"`
	}
	// WardenState lists tonight's imprisoned players.
	WardenState struct {
		PlayersInPrison []PlayerIndex `json:"playersInPrison"`
	}
	// KidnapperState tracks remaining executions.
	KidnapperState struct {
		ExecutionsRemaining uint8 `json:"executionsRemaining"`
	}
	// ChronokaiserState tracks the accumulated speedup.
	ChronokaiserState struct {
		SpeedUpPercent uint32 `json:"speedUp"`
	}
	// WildcardState carries the role the wildcard intends to become.
	WildcardState struct {
		ChosenRole Role `json:"role"`
	}
	// MartyrState tracks remaining bullets in the martyr's gamble.
	MartyrState struct {
		Bullets uint8 `json:"bullets"`
	}
)

// DoomsayerGuessEntry pairs a guessed player with a faction guess.
type DoomsayerGuessEntry struct {
	Player PlayerIndex    `json:"player"`
	Guess  DoomsayerGuess `json:"guess"`
}

// KiraGuessEntry pairs a player with a kira column guess.
type KiraGuessEntry struct {
	Player PlayerIndex `json:"player"`
	Guess  KiraGuess   `json:"guess"`
}

func (JailorState) Role() Role       { return RoleJailor }
func (MediumState) Role() Role       { return RoleMedium }
func (DoctorState) Role() Role       { return RoleDoctor }
func (BodyguardState) Role() Role    { return RoleBodyguard }
func (VigilanteState) Role() Role    { return RoleVigilante }
func (VeteranState) Role() Role      { return RoleVeteran }
func (MarksmanState) Role() Role     { return RoleMarksman }
func (MayorState) Role() Role        { return RoleMayor }
func (PoliticianState) Role() Role   { return RolePolitician }
func (ReporterState) Role() Role     { return RoleReporter }
func (ForgerState) Role() Role       { return RoleForger }
func (DisguiserState) Role() Role    { return RoleDisguiser }
func (DoomsayerState) Role() Role    { return RoleDoomsayer }
func (KiraState) Role() Role         { return RoleKira }
func (WerewolfState) Role() Role     { return RoleWerewolf }
func (WardenState) Role() Role       { return RoleWarden }
func (KidnapperState) Role() Role    { return RoleKidnapper }
func (ChronokaiserState) Role() Role { return RoleChronokaiser }
func (WildcardState) Role() Role     { return RoleWildcard }
func (MartyrState) Role() Role       { return RoleMartyr }

// DecodeRoleState parses a tagged role-state payload. Roles without private
// state decode to a BasicState; the tag itself must still be present.
func DecodeRoleState(raw json.RawMessage) (RoleState, error) {
	var tag struct {
		Type Role `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode role state: %w", err)
	}
	if tag.Type == RoleNone {
		return nil, fmt.Errorf("decode role state: missing type tag")
	}

	switch tag.Type {
	case RoleJailor:
		var s JailorState
		return unmarshalRoleState(raw, &s)
	case RoleMedium:
		var s MediumState
		return unmarshalRoleState(raw, &s)
	case RoleDoctor:
		var s DoctorState
		return unmarshalRoleState(raw, &s)
	case RoleBodyguard:
		var s BodyguardState
		return unmarshalRoleState(raw, &s)
	case RoleVigilante:
		var s VigilanteState
		return unmarshalRoleState(raw, &s)
	case RoleVeteran:
		var s VeteranState
		return unmarshalRoleState(raw, &s)
	case RoleMarksman:
		var s MarksmanState
		return unmarshalRoleState(raw, &s)
	case RoleMayor:
		var s MayorState
		return unmarshalRoleState(raw, &s)
	case RolePolitician:
		var s PoliticianState
		return unmarshalRoleState(raw, &s)
	case RoleReporter:
		var s ReporterState
		return unmarshalRoleState(raw, &s)
	case RoleForger:
		var s ForgerState
		return unmarshalRoleState(raw, &s)
	case RoleDisguiser:
		var s DisguiserState
		return unmarshalRoleState(raw, &s)
	case RoleDoomsayer:
		var s DoomsayerState
		return unmarshalRoleState(raw, &s)
	case RoleKira:
		var s KiraState
		return unmarshalRoleState(raw, &s)
	case RoleWerewolf:
		var s WerewolfState
		return unmarshalRoleState(raw, &s)
	case RoleWarden:
		var s WardenState
		return unmarshalRoleState(raw, &s)
	case RoleKidnapper:
		var s KidnapperState
		return unmarshalRoleState(raw, &s)
	case RoleChronokaiser:
		var s ChronokaiserState
		return unmarshalRoleState(raw, &s)
	case RoleWildcard:
		var s WildcardState
		return unmarshalRoleState(raw, &s)
	case RoleMartyr:
		var s MartyrState
		return unmarshalRoleState(raw, &s)
	default:
		return BasicState{RoleName: tag.Type}, nil
	}
}

func unmarshalRoleState[T any](raw json.RawMessage, dst *T) (RoleState, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("decode role state: %w", err)
	}
	state, ok := any(*dst).(RoleState)
	if !ok {
		return nil, fmt.Errorf("decode role state: %T is not a role state", dst)
	}
	return state, nil
}

// EncodeRoleState renders a role state with its type tag.
func EncodeRoleState(state RoleState) ([]byte, error) {
	body, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode role state: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode role state: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	tag, err := json.Marshal(state.Role())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}
