// internal/chat/orchestrator/orchestrator.go

// Package orchestrator runs a complete chat turn: cache lookup, intent
// classification, directive extraction, dispatch and formatting, then
// cache write-back.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"wealth-assistant/internal/chat/cache"
	"wealth-assistant/internal/chat/classifier"
	"wealth-assistant/internal/chat/dispatch"
	"wealth-assistant/internal/chat/extractor"
	"wealth-assistant/internal/chat/format"
	"wealth-assistant/internal/chat/prompts"
	apperrors "wealth-assistant/internal/common/errors"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/common/metrics"
	"wealth-assistant/internal/genai"
)

// Orchestrator wires the pipeline stages together. Every stage downstream
// of classification degrades to a general-knowledge answer except dispatch
// contract violations, which fail the turn.
type Orchestrator struct {
	cache      cache.ResponseCache
	classifier *classifier.Classifier
	extractor  *extractor.Extractor
	dispatcher *dispatch.Dispatcher
	formatter  *format.Formatter
	completer  genai.Completer
	logger     logger.Logger
}

func New(
	responseCache cache.ResponseCache,
	c *classifier.Classifier,
	e *extractor.Extractor,
	d *dispatch.Dispatcher,
	f *format.Formatter,
	completer genai.Completer,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cache:      responseCache,
		classifier: c,
		extractor:  e,
		dispatcher: d,
		formatter:  f,
		completer:  completer,
		logger:     log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// ProcessTurn answers one user message. The returned error is reserved for
// contract violations and invalid input; everything else degrades to a
// best-effort answer.
func (o *Orchestrator) ProcessTurn(ctx context.Context, message string) (string, error) {
	turnID := uuid.New().String()
	start := time.Now()
	log := o.logger.WithFields(map[string]interface{}{"turn_id": turnID})

	if strings.TrimSpace(message) == "" {
		metrics.TurnsProcessed.WithLabelValues("invalid").Inc()
		return "", apperrors.NewInvalidMessageError("message must be a non-empty string")
	}

	if answer, ok := o.cache.Get(ctx, message); ok {
		metrics.CacheHits.Inc()
		metrics.TurnsProcessed.WithLabelValues("cache_hit").Inc()
		metrics.TurnDuration.WithLabelValues("cache_hit").Observe(time.Since(start).Seconds())
		log.Debug("cache hit", map[string]interface{}{})
		return answer, nil
	}
	metrics.CacheMisses.Inc()

	answer, err := o.answer(ctx, log, message)
	if err != nil {
		metrics.TurnsProcessed.WithLabelValues("error").Inc()
		metrics.TurnDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", err
	}

	// Only a fully assembled answer is worth replaying.
	o.cache.Put(ctx, message, answer)

	metrics.TurnsProcessed.WithLabelValues("ok").Inc()
	metrics.TurnDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return answer, nil
}

func (o *Orchestrator) answer(ctx context.Context, log logger.Logger, message string) (string, error) {
	label := o.classifier.Classify(ctx, message)
	log.Info("message classified", map[string]interface{}{"label": string(label)})

	if label != classifier.LabelUserQuery {
		return o.generalAnswer(ctx, log, label, message)
	}

	output, err := o.completer.Complete(ctx, prompts.UnifiedPrompt, message)
	if err != nil {
		log.Warn("completion failed, falling back to general answer", map[string]interface{}{
			"error": err.Error(),
		})
		return o.generalAnswer(ctx, log, classifier.LabelGeneralLong, message)
	}

	directive, general, err := o.extractor.ParseDirective(output)
	if err != nil {
		directive = o.recoverDirective(log, message, err)
		if directive == nil {
			return o.generalAnswer(ctx, log, classifier.LabelGeneralLong, message)
		}
	}
	if general != nil {
		return general.Message, nil
	}

	// Anything the model missed but the message itself carries still
	// reaches the operation.
	directive.Parameters.Merge(o.extractor.DetectParameters(message))

	result, err := o.dispatcher.Dispatch(ctx, directive.OperationName, directive.Parameters)
	if err != nil {
		// Contract violation: the extractor let an unknown operation
		// through. This must surface, not degrade.
		return "", err
	}

	return o.formatter.Format(result), nil
}

// recoverDirective synthesizes a user-details lookup when the model gave no
// directive but the message itself carries a strong identifier. Malformed
// directives are not recovered this way.
func (o *Orchestrator) recoverDirective(log logger.Logger, message string, parseErr error) *extractor.Directive {
	if !errors.Is(parseErr, apperrors.ErrNoDirective) {
		log.Warn("malformed directive, falling back to general answer", map[string]interface{}{
			"error": parseErr.Error(),
		})
		return nil
	}

	detected := o.extractor.DetectParameters(message)
	if !detected.HasStrongIdentifier() {
		return nil
	}

	log.Info("synthesized lookup from detected identifier", map[string]interface{}{})
	return &extractor.Directive{
		OperationName: extractor.OpGetUserDetails,
		Parameters:    detected,
	}
}

func (o *Orchestrator) generalAnswer(ctx context.Context, log logger.Logger, label classifier.Label, message string) (string, error) {
	system := prompts.GeneralLongPrompt
	if label == classifier.LabelGeneralShort {
		system = prompts.GeneralShortPrompt
	}

	answer, err := o.completer.Complete(ctx, system, message)
	if err != nil {
		log.Error("general answer failed", map[string]interface{}{"error": err.Error()})
		return "I'm having trouble processing your request right now. Please try again in a moment.", nil
	}
	return answer, nil
}
