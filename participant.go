package msgrender

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ParticipantState is the call state of a participant.
type ParticipantState string

// Participant states.
const (
	StateIdle         ParticipantState = "Idle"
	StateConnecting   ParticipantState = "Connecting"
	StateRinging      ParticipantState = "Ringing"
	StateConnected    ParticipantState = "Connected"
	StateHold         ParticipantState = "Hold"
	StateInLobby      ParticipantState = "InLobby"
	StateEarlyMedia   ParticipantState = "EarlyMedia"
	StateDisconnected ParticipantState = "Disconnected"
)

var participantStates = []ParticipantState{
	StateIdle, StateConnecting, StateRinging, StateConnected,
	StateHold, StateInLobby, StateEarlyMedia, StateDisconnected,
}

// ParseParticipantState parses a state name case-insensitively.
func ParseParticipantState(s string) (ParticipantState, error) {
	for _, st := range participantStates {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidParticipantState, s)
}

// Valid reports whether s is a known state.
func (s ParticipantState) Valid() bool {
	return slices.Contains(participantStates, s)
}

// CommunicationParticipant identifies a chat or call participant.
type CommunicationParticipant struct {
	UserID      string `yaml:"userId"`
	DisplayName string `yaml:"displayName,omitempty"`
}

// ParticipantListParticipant is a participant shown in a participant list.
type ParticipantListParticipant struct {
	CommunicationParticipant `yaml:",inline"`
	IsRemovable              bool `yaml:"isRemovable,omitempty"`
}

// RaisedHand marks a participant's raised hand and its queue position.
type RaisedHand struct {
	OrderPosition int `yaml:"orderPosition"`
}

// Reaction is the most recent reaction of a participant.
type Reaction struct {
	ReactionType string    `yaml:"reactionType"`
	ReceivedOn   time.Time `yaml:"receivedOn"`
}

// Spotlight marks a spotlighted participant.
type Spotlight struct {
	OrderPosition *int `yaml:"orderPosition,omitempty"`
}

// CallParticipantListParticipant is a participant of an ongoing call.
type CallParticipantListParticipant struct {
	ParticipantListParticipant `yaml:",inline"`
	State                      ParticipantState `yaml:"state"`
	IsScreenSharing            bool             `yaml:"isScreenSharing,omitempty"`
	IsMuted                    bool             `yaml:"isMuted,omitempty"`
	IsSpeaking                 bool             `yaml:"isSpeaking,omitempty"`
	RaisedHand                 *RaisedHand      `yaml:"raisedHand,omitempty"`
	Reaction                   *Reaction        `yaml:"reaction,omitempty"`
	Spotlight                  *Spotlight       `yaml:"spotlight,omitempty"`
}

// Validate checks the user id, the state and the queue positions.
func (p CallParticipantListParticipant) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: user id cannot be empty", ErrInvalidParticipant)
	}
	if !p.State.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidParticipantState, p.State)
	}
	if p.RaisedHand != nil && p.RaisedHand.OrderPosition < 0 {
		return fmt.Errorf("%w: %s: negative raised hand position", ErrInvalidParticipant, p.UserID)
	}
	if p.Spotlight != nil && p.Spotlight.OrderPosition != nil && *p.Spotlight.OrderPosition < 0 {
		return fmt.Errorf("%w: %s: negative spotlight position", ErrInvalidParticipant, p.UserID)
	}
	return nil
}

// Flags returns the participant's active indicators, e.g. "muted, hand 1".
func (p CallParticipantListParticipant) Flags() string {
	var flags []string
	if p.IsMuted {
		flags = append(flags, "muted")
	}
	if p.IsSpeaking {
		flags = append(flags, "speaking")
	}
	if p.IsScreenSharing {
		flags = append(flags, "sharing")
	}
	if p.RaisedHand != nil {
		flags = append(flags, fmt.Sprintf("hand %d", p.RaisedHand.OrderPosition))
	}
	if p.Spotlight != nil {
		flags = append(flags, "spotlight")
	}
	if p.Reaction != nil && p.Reaction.ReactionType != "" {
		flags = append(flags, p.Reaction.ReactionType)
	}
	return strings.Join(flags, ", ")
}

// OrderByRaisedHand returns a copy of participants with raised hands first,
// in ascending queue position. Relative order is otherwise preserved.
func OrderByRaisedHand(participants []CallParticipantListParticipant) []CallParticipantListParticipant {
	out := slices.Clone(participants)
	slices.SortStableFunc(out, func(a, b CallParticipantListParticipant) int {
		switch {
		case a.RaisedHand != nil && b.RaisedHand != nil:
			return cmp.Compare(a.RaisedHand.OrderPosition, b.RaisedHand.OrderPosition)
		case a.RaisedHand != nil:
			return -1
		case b.RaisedHand != nil:
			return 1
		}
		return 0
	})
	return out
}
