package turn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIdentity reports a missing participant id or a bot number
// outside the deployed range. It is terminal for the request and must be
// raised before any model call or log write happens.
var ErrInvalidIdentity = errors.New("invalid identity")

// BotCount is the number of scripted question slots in this deployment.
const BotCount = 8

const botIDPrefix = "LongBot"

// SessionKey identifies one participant's interaction with one scripted
// question. It is never reused across participants.
type SessionKey struct {
	ParticipantID string
	BotID         string
}

// Resolve validates the raw request identity and produces the session key.
// Pure function of its inputs; no side effects.
func Resolve(participantID string, botNumber int) (SessionKey, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return SessionKey{}, fmt.Errorf("%w: participant id is required", ErrInvalidIdentity)
	}
	if botNumber < 1 || botNumber > BotCount {
		return SessionKey{}, fmt.Errorf("%w: bot number %d outside 1-%d", ErrInvalidIdentity, botNumber, BotCount)
	}
	return SessionKey{
		ParticipantID: participantID,
		BotID:         fmt.Sprintf("%s%d", botIDPrefix, botNumber),
	}, nil
}

// String renders the key in the participant:bot form used in log lines.
func (k SessionKey) String() string {
	return k.ParticipantID + ":" + k.BotID
}
