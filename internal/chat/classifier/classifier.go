// internal/chat/classifier/classifier.go
package classifier

import (
	"context"
	"strings"

	"wealth-assistant/internal/chat/prompts"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/genai"
)

// Label is the routing decision for a single user message.
type Label string

const (
	LabelUserQuery    Label = "USER_QUERY"
	LabelGeneralShort Label = "GENERAL_SHORT"
	LabelGeneralLong  Label = "GENERAL_LONG"
)

// Granularity selects how many labels the classifier distinguishes.
// In two_way mode every non-data question collapses to GENERAL_LONG.
const (
	GranularityThreeWay = "three_way"
	GranularityTwoWay   = "two_way"
)

// Classifier assigns each incoming message one of the routing labels.
// Classification is advisory: any failure degrades to GENERAL_LONG so a
// broken completion backend can never block a turn.
type Classifier struct {
	completer   genai.Completer
	granularity string
	logger      logger.Logger
}

func New(completer genai.Completer, granularity string, log logger.Logger) *Classifier {
	if granularity == "" {
		granularity = GranularityThreeWay
	}
	return &Classifier{
		completer:   completer,
		granularity: granularity,
		logger:      log.WithFields(map[string]interface{}{"component": "classifier"}),
	}
}

// Classify never returns an error. Transport failures, empty output and
// labels outside the known set all map to GENERAL_LONG.
func (c *Classifier) Classify(ctx context.Context, message string) Label {
	raw, err := c.completer.Complete(ctx, prompts.ClassifierPrompt, message)
	if err != nil {
		c.logger.Warn("classification failed, defaulting to general response", map[string]interface{}{
			"error": err.Error(),
		})
		return LabelGeneralLong
	}

	label := Label(strings.ToUpper(strings.TrimSpace(raw)))
	switch label {
	case LabelUserQuery, LabelGeneralShort, LabelGeneralLong:
	default:
		c.logger.Warn("unknown classification label, defaulting to general response", map[string]interface{}{
			"label": string(label),
		})
		return LabelGeneralLong
	}

	if c.granularity == GranularityTwoWay && label != LabelUserQuery {
		return LabelGeneralLong
	}
	return label
}
