package intent

import (
	"context"

	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/common/metrics"
)

// Classifier runs the semantic stage first and falls back to the lexical
// stage when the semantic stage rejects or errors. The semantic stage is
// optional; without it the classifier is lexical-only.
type Classifier struct {
	semantic *SemanticClassifier
	log      logger.Logger
}

func NewClassifier(semantic *SemanticClassifier, log logger.Logger) *Classifier {
	return &Classifier{
		semantic: semantic,
		log:      log.With(map[string]interface{}{"component": "classifier"}),
	}
}

// Classify decides an intent for normalized text. A semantic-stage error is
// logged and degrades to the lexical stage; it never fails the request.
func (c *Classifier) Classify(ctx context.Context, normalized string) Result {
	if c.semantic != nil {
		label, score, err := c.semantic.Classify(ctx, normalized)
		if err != nil {
			c.log.WithError(err).Warn("semantic stage unavailable, degrading to lexical", map[string]interface{}{
				"text": normalized,
			})
		} else if label != None {
			metrics.ClassifierStageHits.WithLabelValues(string(StageSemantic)).Inc()
			return Result{Label: label, Score: score, Stage: StageSemantic}
		}
	}

	if label, ok := ClassifyLexical(normalized); ok {
		metrics.ClassifierStageHits.WithLabelValues(string(StageLexical)).Inc()
		return Result{Label: label, Score: -1, Stage: StageLexical}
	}

	metrics.ClassifierStageHits.WithLabelValues(string(StageNone)).Inc()
	return Result{Label: None, Score: -1, Stage: StageNone}
}
