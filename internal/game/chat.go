package game

import (
	"encoding/json"
	"fmt"
)

// ChatVariantType tags one kind of chat message.
type ChatVariantType string

const (
	ChatLobbyMessage          ChatVariantType = "lobbyMessage"
	ChatNormal                ChatVariantType = "normal"
	ChatWhisper               ChatVariantType = "whisper"
	ChatBroadcastWhisper      ChatVariantType = "broadcastWhisper"
	ChatRoleAssignment        ChatVariantType = "roleAssignment"
	ChatPlayerDied            ChatVariantType = "playerDied"
	ChatPhaseChange           ChatVariantType = "phaseChange"
	ChatTrialInformation      ChatVariantType = "trialInformation"
	ChatVoted                 ChatVariantType = "voted"
	ChatPlayerNominated       ChatVariantType = "playerNominated"
	ChatJudgementVerdict      ChatVariantType = "judgementVerdict"
	ChatTrialVerdict          ChatVariantType = "trialVerdict"
	ChatTargeted              ChatVariantType = "targeted"
	ChatNightInformation      ChatVariantType = "nightInformation"
	ChatDetectiveResult       ChatVariantType = "detectiveResult"
	ChatLookoutResult         ChatVariantType = "lookoutResult"
	ChatTrackerResult         ChatVariantType = "trackerResult"
	ChatSnoopResult           ChatVariantType = "snoopResult"
	ChatGossipResult          ChatVariantType = "gossipResult"
	ChatAuditorResult         ChatVariantType = "auditorResult"
	ChatPsychicEvil           ChatVariantType = "psychicEvil"
	ChatPsychicGood           ChatVariantType = "psychicGood"
	ChatInformantResult       ChatVariantType = "informantResult"
	ChatEngineerVisitors      ChatVariantType = "engineerVisitorsRole"
	ChatRoleBlocked           ChatVariantType = "roleBlocked"
	ChatSilenced              ChatVariantType = "silenced"
	ChatYouWereJailed         ChatVariantType = "wasJailed"
	ChatJailedSomeone         ChatVariantType = "jailedSomeone"
	ChatJailorDecideExecute   ChatVariantType = "jailorDecideExecute"
	ChatKidnapped             ChatVariantType = "wasKidnapped"
	ChatMediumHauntStarted    ChatVariantType = "mediumHauntStarted"
	ChatDeputyKilled          ChatVariantType = "deputyKilled"
	ChatYouDied               ChatVariantType = "youDied"
	ChatYouWereAttacked       ChatVariantType = "youWereAttacked"
	ChatYouSurvivedAttack     ChatVariantType = "youSurvivedAttack"
	ChatYouWereProtected      ChatVariantType = "youWereProtected"
	ChatYouAttackedSomeone    ChatVariantType = "youAttackedSomeone"
	ChatTransported           ChatVariantType = "transported"
	ChatWerewolfTracking      ChatVariantType = "werewolfTrackingResult"
	ChatMayorRevealed         ChatVariantType = "mayorRevealed"
	ChatPoliticianCountdown   ChatVariantType = "politicianCountdownStarted"
	ChatReporterReport        ChatVariantType = "reporterReport"
	ChatMartyrRevealed        ChatVariantType = "martyrRevealed"
	ChatMartyrWon             ChatVariantType = "martyrWon"
	ChatMartyrFailed          ChatVariantType = "martyrFailed"
	ChatDoomsayerWon          ChatVariantType = "doomsayerWon"
	ChatDoomsayerFailed       ChatVariantType = "doomsayerFailed"
	ChatWildcardConvertFailed ChatVariantType = "wildcardConvertFailed"
	ChatApostleCanConvert     ChatVariantType = "apostleCanConvertTonight"
	ChatPuppeteerMarionette   ChatVariantType = "puppeteerPlayerIsNowMarionette"
	ChatRecruiterCreated      ChatVariantType = "recruiterCreatedRecruit"
	ChatVigilanteSuicide      ChatVariantType = "vigilanteSuicide"
)

// ChatVariant is one chat line's payload. The set grows with the server;
// unknown variants decode to UnknownChatVariant so a newer server never
// breaks an older client's chat log.
type ChatVariant interface {
	ChatVariantType() ChatVariantType
}

type (
	// LobbyMessage is free text sent before the game starts.
	LobbyMessage struct {
		Sender LobbyClientID `json:"sender"`
		Text   string        `json:"text"`
	}
	// NormalMessage is free text sent during the game. Block requests the
	// renderer set it off from surrounding lines.
	NormalMessage struct {
		Sender PlayerIndex `json:"messageSender"`
		Text   string      `json:"text"`
		Block  bool        `json:"block"`
	}
	// WhisperMessage is a private line between two living players.
	WhisperMessage struct {
		From PlayerIndex `json:"fromPlayerIndex"`
		To   PlayerIndex `json:"toPlayerIndex"`
		Text string      `json:"text"`
	}
	// BroadcastWhisper announces to everyone that a whisper happened.
	BroadcastWhisper struct {
		Whisperer PlayerIndex `json:"whisperer"`
		Whisperee PlayerIndex `json:"whisperee"`
	}
	// RoleAssignmentMessage announces this client's role at game start.
	RoleAssignmentMessage struct {
		Role Role `json:"role"`
	}
	// PlayerDiedMessage carries the dead player's grave.
	PlayerDiedMessage struct {
		Grave Grave `json:"grave"`
	}
	// PhaseChangeMessage marks a phase boundary in the log.
	PhaseChangeMessage struct {
		Phase     PhaseType `json:"phase"`
		DayNumber uint8     `json:"dayNumber"`
	}
	// TrialInformationMessage states the votes needed to start a trial.
	TrialInformationMessage struct {
		RequiredVotes uint8 `json:"requiredVotes"`
		TrialsLeft    uint8 `json:"trialsLeft"`
	}
	// VotedMessage records one nomination vote; a nil Votee is a retraction.
	VotedMessage struct {
		Voter PlayerIndex  `json:"voter"`
		Votee *PlayerIndex `json:"votee,omitempty"`
	}
	// PlayerNominatedMessage announces a trial target and who voted for it.
	PlayerNominatedMessage struct {
		PlayerIndex PlayerIndex   `json:"playerIndex"`
		Voters      []PlayerIndex `json:"playersVoted"`
	}
	// JudgementVerdictMessage reveals one player's judgement vote.
	JudgementVerdictMessage struct {
		Voter   PlayerIndex `json:"voterPlayerIndex"`
		Verdict Verdict     `json:"verdict"`
	}
	// TrialVerdictMessage is the tally that ends a judgement phase.
	TrialVerdictMessage struct {
		PlayerOnTrial PlayerIndex `json:"playerOnTrial"`
		Innocent      uint8       `json:"innocent"`
		Guilty        uint8       `json:"guilty"`
	}
	// TargetedMessage mirrors back this client's night selection.
	TargetedMessage struct {
		Targeter PlayerIndex   `json:"targeter"`
		Targets  []PlayerIndex `json:"targets"`
	}
	// NightInformationMessage is generic feedback text from a night action.
	NightInformationMessage struct {
		Text string `json:"text"`
	}
	// DetectiveResultMessage is the suspicious/innocent check.
	DetectiveResultMessage struct {
		Suspicious bool `json:"suspicious"`
	}
	// LookoutResultMessage lists who visited the watched player.
	LookoutResultMessage struct {
		Players []PlayerIndex `json:"players"`
	}
	// TrackerResultMessage lists where the tracked player went.
	TrackerResultMessage struct {
		Players []PlayerIndex `json:"players"`
	}
	// SnoopResultMessage reports whether the target held town items only.
	SnoopResultMessage struct {
		Townie bool `json:"townie"`
	}
	// GossipResultMessage reports whether the target's visit was evil.
	GossipResultMessage struct {
		Enemies bool `json:"enemies"`
	}
	// AuditorResultMessage narrows an outline slot to concrete roles.
	AuditorResultMessage struct {
		OutlineIndex uint8  `json:"roleOutline"`
		Roles        []Role `json:"result"`
	}
	// PsychicEvilMessage is the three-player evil vision.
	PsychicEvilMessage struct {
		Players [3]PlayerIndex `json:"players"`
	}
	// PsychicGoodMessage is the two-player good vision.
	PsychicGoodMessage struct {
		Players [2]PlayerIndex `json:"players"`
	}
	// InformantResultMessage is the full workup on one player.
	InformantResultMessage struct {
		Player    PlayerIndex   `json:"player"`
		Role      Role          `json:"role"`
		Visited   []PlayerIndex `json:"visited"`
		VisitedBy []PlayerIndex `json:"visitedBy"`
	}
	// EngineerVisitorsMessage reports the role caught in the trap.
	EngineerVisitorsMessage struct {
		Role Role `json:"role"`
	}
	// MayorRevealedMessage announces a mayor reveal.
	MayorRevealedMessage struct {
		Player PlayerIndex `json:"playerIndex"`
	}
	// ReporterReportMessage is the published interview.
	ReporterReportMessage struct {
		Report string `json:"report"`
	}
	// DeputyKilledMessage announces the deputy's day shot.
	DeputyKilledMessage struct {
		Shot PlayerIndex `json:"shotIndex"`
	}
	// WerewolfTrackingMessage lists who the tracked player visited.
	WerewolfTrackingMessage struct {
		TrackedPlayer PlayerIndex   `json:"trackedPlayer"`
		Players       []PlayerIndex `json:"players"`
	}
	// WildcardConvertFailedMessage names the role that could not be joined.
	WildcardConvertFailedMessage struct {
		Role Role `json:"role"`
	}
	// PuppeteerMarionetteMessage announces a new marionette to the puppeteer.
	PuppeteerMarionetteMessage struct {
		Player PlayerIndex `json:"player"`
	}
	// RecruiterCreatedMessage announces a successful recruitment.
	RecruiterCreatedMessage struct {
		Player PlayerIndex `json:"player"`
	}
	// UnknownChatVariant preserves a variant this client does not understand.
	UnknownChatVariant struct {
		Type ChatVariantType
		Raw  json.RawMessage
	}
)

// simpleChatVariant backs the payload-free variants.
type simpleChatVariant struct {
	variant ChatVariantType
}

func (s simpleChatVariant) ChatVariantType() ChatVariantType { return s.variant }

// SimpleChatVariant returns the canonical value for a payload-free variant.
func SimpleChatVariant(t ChatVariantType) ChatVariant { return simpleChatVariant{variant: t} }

func (LobbyMessage) ChatVariantType() ChatVariantType            { return ChatLobbyMessage }
func (NormalMessage) ChatVariantType() ChatVariantType           { return ChatNormal }
func (WhisperMessage) ChatVariantType() ChatVariantType          { return ChatWhisper }
func (BroadcastWhisper) ChatVariantType() ChatVariantType        { return ChatBroadcastWhisper }
func (RoleAssignmentMessage) ChatVariantType() ChatVariantType   { return ChatRoleAssignment }
func (PlayerDiedMessage) ChatVariantType() ChatVariantType       { return ChatPlayerDied }
func (PhaseChangeMessage) ChatVariantType() ChatVariantType      { return ChatPhaseChange }
func (TrialInformationMessage) ChatVariantType() ChatVariantType { return ChatTrialInformation }
func (VotedMessage) ChatVariantType() ChatVariantType            { return ChatVoted }
func (PlayerNominatedMessage) ChatVariantType() ChatVariantType  { return ChatPlayerNominated }
func (JudgementVerdictMessage) ChatVariantType() ChatVariantType { return ChatJudgementVerdict }
func (TrialVerdictMessage) ChatVariantType() ChatVariantType     { return ChatTrialVerdict }
func (TargetedMessage) ChatVariantType() ChatVariantType         { return ChatTargeted }
func (NightInformationMessage) ChatVariantType() ChatVariantType { return ChatNightInformation }
func (DetectiveResultMessage) ChatVariantType() ChatVariantType  { return ChatDetectiveResult }
func (LookoutResultMessage) ChatVariantType() ChatVariantType    { return ChatLookoutResult }
func (TrackerResultMessage) ChatVariantType() ChatVariantType    { return ChatTrackerResult }
func (SnoopResultMessage) ChatVariantType() ChatVariantType      { return ChatSnoopResult }
func (GossipResultMessage) ChatVariantType() ChatVariantType     { return ChatGossipResult }
func (AuditorResultMessage) ChatVariantType() ChatVariantType    { return ChatAuditorResult }
func (PsychicEvilMessage) ChatVariantType() ChatVariantType      { return ChatPsychicEvil }
func (PsychicGoodMessage) ChatVariantType() ChatVariantType      { return ChatPsychicGood }
func (InformantResultMessage) ChatVariantType() ChatVariantType  { return ChatInformantResult }
func (EngineerVisitorsMessage) ChatVariantType() ChatVariantType { return ChatEngineerVisitors }
func (MayorRevealedMessage) ChatVariantType() ChatVariantType    { return ChatMayorRevealed }
func (ReporterReportMessage) ChatVariantType() ChatVariantType   { return ChatReporterReport }
func (DeputyKilledMessage) ChatVariantType() ChatVariantType     { return ChatDeputyKilled }
func (WerewolfTrackingMessage) ChatVariantType() ChatVariantType { return ChatWerewolfTracking }
func (WildcardConvertFailedMessage) ChatVariantType() ChatVariantType {
	return ChatWildcardConvertFailed
}
func (PuppeteerMarionetteMessage) ChatVariantType() ChatVariantType { return ChatPuppeteerMarionette }
func (RecruiterCreatedMessage) ChatVariantType() ChatVariantType    { return ChatRecruiterCreated }
func (u UnknownChatVariant) ChatVariantType() ChatVariantType       { return u.Type }

// ChatMessage is one line of the chat log. Group is nil for lines the server
// addressed to this client alone.
type ChatMessage struct {
	Variant ChatVariant
	Group   *ChatGroup
}

type chatMessageWire struct {
	Variant json.RawMessage `json:"variant"`
	Group   *ChatGroup      `json:"chatGroup,omitempty"`
}

// DecodeChatMessage parses one chat log entry. An unrecognized variant tag is
// not an error; the payload is kept raw under UnknownChatVariant.
func DecodeChatMessage(raw json.RawMessage) (ChatMessage, error) {
	var wire chatMessageWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return ChatMessage{}, fmt.Errorf("decode chat message: %w", err)
	}
	variant, err := decodeChatVariant(wire.Variant)
	if err != nil {
		return ChatMessage{}, err
	}
	return ChatMessage{Variant: variant, Group: wire.Group}, nil
}

func decodeChatVariant(raw json.RawMessage) (ChatVariant, error) {
	var tag struct {
		Type ChatVariantType `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode chat variant: %w", err)
	}
	if tag.Type == "" {
		return nil, fmt.Errorf("decode chat variant: missing type tag")
	}
	switch tag.Type {
	case ChatLobbyMessage:
		return unmarshalChatVariant(raw, &LobbyMessage{})
	case ChatNormal:
		return unmarshalChatVariant(raw, &NormalMessage{})
	case ChatWhisper:
		return unmarshalChatVariant(raw, &WhisperMessage{})
	case ChatBroadcastWhisper:
		return unmarshalChatVariant(raw, &BroadcastWhisper{})
	case ChatRoleAssignment:
		return unmarshalChatVariant(raw, &RoleAssignmentMessage{})
	case ChatPlayerDied:
		return unmarshalChatVariant(raw, &PlayerDiedMessage{})
	case ChatPhaseChange:
		return unmarshalChatVariant(raw, &PhaseChangeMessage{})
	case ChatTrialInformation:
		return unmarshalChatVariant(raw, &TrialInformationMessage{})
	case ChatVoted:
		return unmarshalChatVariant(raw, &VotedMessage{})
	case ChatPlayerNominated:
		return unmarshalChatVariant(raw, &PlayerNominatedMessage{})
	case ChatJudgementVerdict:
		return unmarshalChatVariant(raw, &JudgementVerdictMessage{})
	case ChatTrialVerdict:
		return unmarshalChatVariant(raw, &TrialVerdictMessage{})
	case ChatTargeted:
		return unmarshalChatVariant(raw, &TargetedMessage{})
	case ChatNightInformation:
		return unmarshalChatVariant(raw, &NightInformationMessage{})
	case ChatDetectiveResult:
		return unmarshalChatVariant(raw, &DetectiveResultMessage{})
	case ChatLookoutResult:
		return unmarshalChatVariant(raw, &LookoutResultMessage{})
	case ChatTrackerResult:
		return unmarshalChatVariant(raw, &TrackerResultMessage{})
	case ChatSnoopResult:
		return unmarshalChatVariant(raw, &SnoopResultMessage{})
	case ChatGossipResult:
		return unmarshalChatVariant(raw, &GossipResultMessage{})
	case ChatAuditorResult:
		return unmarshalChatVariant(raw, &AuditorResultMessage{})
	case ChatPsychicEvil:
		return unmarshalChatVariant(raw, &PsychicEvilMessage{})
	case ChatPsychicGood:
		return unmarshalChatVariant(raw, &PsychicGoodMessage{})
	case ChatInformantResult:
		return unmarshalChatVariant(raw, &InformantResultMessage{})
	case ChatEngineerVisitors:
		return unmarshalChatVariant(raw, &EngineerVisitorsMessage{})
	case ChatMayorRevealed:
		return unmarshalChatVariant(raw, &MayorRevealedMessage{})
	case ChatReporterReport:
		return unmarshalChatVariant(raw, &ReporterReportMessage{})
	case ChatDeputyKilled:
		return unmarshalChatVariant(raw, &DeputyKilledMessage{})
	case ChatWerewolfTracking:
		return unmarshalChatVariant(raw, &WerewolfTrackingMessage{})
	case ChatWildcardConvertFailed:
		return unmarshalChatVariant(raw, &WildcardConvertFailedMessage{})
	case ChatPuppeteerMarionette:
		return unmarshalChatVariant(raw, &PuppeteerMarionetteMessage{})
	case ChatRecruiterCreated:
		return unmarshalChatVariant(raw, &RecruiterCreatedMessage{})
	case ChatRoleBlocked, ChatSilenced, ChatYouWereJailed, ChatJailedSomeone,
		ChatJailorDecideExecute, ChatKidnapped, ChatMediumHauntStarted,
		ChatYouDied, ChatYouWereAttacked, ChatYouSurvivedAttack,
		ChatYouWereProtected, ChatYouAttackedSomeone, ChatTransported,
		ChatPoliticianCountdown, ChatMartyrRevealed, ChatMartyrWon,
		ChatMartyrFailed, ChatDoomsayerWon, ChatDoomsayerFailed,
		ChatApostleCanConvert, ChatVigilanteSuicide:
		return simpleChatVariant{variant: tag.Type}, nil
	default:
		return UnknownChatVariant{Type: tag.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

func unmarshalChatVariant[T ChatVariant](raw json.RawMessage, dst *T) (ChatVariant, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("decode chat variant: %w", err)
	}
	return *dst, nil
}
