// Package router turns one free-text question into one response envelope. It
// runs a fixed precedence: static answers, plant-metric guard, keyword fast
// paths, the two-stage classifier, and per-intent completeness policy. The
// router never invents a date or time: only an explicit "now"-style word, or
// an intent whose policy defaults to now, fills the current timestamp.
package router

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/common/metrics"
	"urja-assistant/internal/handlers/staticqa"
	"urja-assistant/internal/models"
	"urja-assistant/internal/nlp/intent"
	"urja-assistant/internal/nlp/normalize"
	"urja-assistant/internal/nlp/temporal"
)

// CollaboratorFunc is the contract every intent handler satisfies.
type CollaboratorFunc func(ctx context.Context, date string, tod temporal.TimeOfDay, original string) models.Envelope

// Collaborators binds intents to their data-fetching handlers. A nil entry
// makes its intent classifiable but unsupported.
type Collaborators struct {
	PlantInfo   CollaboratorFunc
	Procurement CollaboratorFunc
	Banking     CollaboratorFunc
	MOD         CollaboratorFunc
	IEX         CollaboratorFunc
	Demand      CollaboratorFunc
}

// nowPat matches the wordings that permit filling the current timestamp.
var nowPat = regexp.MustCompile(`\b(now|right now|currently|as of (now|today)|today)\b`)

// plantMarkers hard-route to plant info before any classification: these
// metric names are unambiguous regardless of the rest of the sentence.
var plantMarkers = []string{
	"plf", "paf", "variable cost", "aux consumption", "max power", "min power",
	"rated capacity", "technical minimum", "plant type", "plant load factor",
	"plant availability factor", "availability factor",
}

var plantKeywords = []string{
	"variable cost", "aux consumption", "max power", "min power",
	"rated capacity", "technical minimum", "maximum power", "minimum power",
	"auxiliary consumption", "aux usage", "auxiliary usage", "var cost",
}

var bankingKeywords = []string{
	"banking", "banking unit", "banked", "banked unit", "banking contribution",
	"energy banked", "adjusted units", "adjustment charges", "banking cost",
	"banked units", "banking units",
}

var procurementKeywords = []string{
	"generated energy", "procurement price", "generation energy",
	"cost generated", "generated cost", "generation cost",
	"power purchase cost", "ppc", "purchase cost", "last price", "iex cost",
}

// procurementPhrases is the post-classifier second chance: phrasings the
// classifier may miss but that can only mean procurement.
var procurementPhrases = []string{
	"generated energy", "energy generated", "energy generation",
	"procurement price", "last price",
	"generated cost", "generation cost", "cost generated", "cost generation",
}

type Router struct {
	classifier    *intent.Classifier
	collaborators Collaborators
	loc           *time.Location
	now           func() time.Time
	logger        logger.Logger
}

func NewRouter(classifier *intent.Classifier, collaborators Collaborators, timezone string, log logger.Logger) *Router {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.WithError(err).Warn("bad timezone, using UTC", map[string]interface{}{"timezone": timezone})
		loc = time.UTC
	}
	return &Router{
		classifier:    classifier,
		collaborators: collaborators,
		loc:           loc,
		now:           time.Now,
		logger:        log.With(map[string]interface{}{"component": "router"}),
	}
}

// Respond processes one user message end to end. It never panics: any
// collaborator or pipeline panic becomes an INTERNAL envelope.
func (r *Router) Respond(ctx context.Context, userInput string) (env models.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic while routing", map[string]interface{}{
				"panic": fmt.Sprint(rec),
				"input": userInput,
			})
			env = models.Err(apperrors.CodeInternal,
				"Internal error while processing the request.", "", nil)
		}
		r.count(env)
	}()

	env = r.respond(ctx, userInput)
	return env
}

func (r *Router) respond(ctx context.Context, userInput string) models.Envelope {
	if strings.TrimSpace(userInput) == "" {
		return models.Err(apperrors.CodeEmptyRequest, "Please type a question.", "", nil)
	}

	if answer, ok := staticqa.Match(userInput); ok {
		return models.Ok("static", map[string]interface{}{"text": answer}, nil)
	}

	norm := normalize.Normalize(userInput)

	date, hasDate := temporal.ExtractDate(userInput)
	tod, hasTime := temporal.ExtractTime(userInput)
	if nowPat.MatchString(norm) {
		date, tod, hasDate, hasTime = r.fillNow(date, tod, hasDate, hasTime)
	}

	// Plant-metric guard and plant keyword fast path, both defaulting to now.
	if containsAny(norm, plantMarkers) || containsAny(norm, plantKeywords) {
		date, tod, _, _ = r.fillNow(date, tod, hasDate, hasTime)
		return r.collaborators.PlantInfo(ctx, date, tod, userInput)
	}

	if containsAny(norm, bankingKeywords) {
		date, tod, _, _ = r.fillNow(date, tod, hasDate, hasTime)
		return r.collaborators.Banking(ctx, date, tod, userInput)
	}

	if containsAny(norm, procurementKeywords) {
		if !hasDate || !hasTime {
			return r.missingDateOrTime("procurement")
		}
		return r.collaborators.Procurement(ctx, date, tod, userInput)
	}

	res := r.classifier.Classify(ctx, norm)
	r.logger.Debug("classified", map[string]interface{}{
		"intent": string(res.Label),
		"stage":  string(res.Stage),
		"score":  res.Score,
	})

	switch res.Label {
	case intent.PlantInfo:
		date, tod, _, _ = r.fillNow(date, tod, hasDate, hasTime)
		return r.collaborators.PlantInfo(ctx, date, tod, userInput)

	case intent.Banking:
		date, tod, _, _ = r.fillNow(date, tod, hasDate, hasTime)
		return r.collaborators.Banking(ctx, date, tod, userInput)

	case intent.Procurement:
		if !hasDate || !hasTime {
			return r.missingDateOrTime(string(res.Label))
		}
		return r.collaborators.Procurement(ctx, date, tod, userInput)

	case intent.IEX, intent.MOD, intent.Demand, intent.CostPerBlock:
		if !hasDate || !hasTime {
			return r.missingDateOrTime(string(res.Label))
		}
		if fn := r.collaboratorFor(res.Label); fn != nil {
			return fn(ctx, date, tod, userInput)
		}
		return r.unsupported(string(res.Label))
	}

	if containsAny(norm, procurementPhrases) {
		if !hasDate || !hasTime {
			return r.missingDateOrTime("procurement")
		}
		return r.collaborators.Procurement(ctx, date, tod, userInput)
	}

	if res.Label == intent.None {
		return models.Err(apperrors.CodeUnrecognized,
			"Sorry, I couldn't understand your request.", "", nil)
	}
	return r.unsupported(string(res.Label))
}

func (r *Router) collaboratorFor(label intent.Label) CollaboratorFunc {
	switch label {
	case intent.IEX:
		return r.collaborators.IEX
	case intent.MOD:
		return r.collaborators.MOD
	case intent.Demand:
		return r.collaborators.Demand
	}
	return nil
}

// fillNow substitutes the current date and time for whichever part the user
// left out.
func (r *Router) fillNow(date string, tod temporal.TimeOfDay, hasDate, hasTime bool) (string, temporal.TimeOfDay, bool, bool) {
	now := r.now().In(r.loc)
	if !hasDate {
		date = now.Format("2006-01-02")
	}
	if !hasTime {
		tod = temporal.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}
	}
	return date, tod, true, true
}

func (r *Router) missingDateOrTime(intentName string) models.Envelope {
	return models.Err(apperrors.CodeMissingDateOrTime,
		"Include BOTH a date (YYYY-MM-DD or '30 September 2027') and time (HH:MM).",
		intentName, nil)
}

func (r *Router) unsupported(intentName string) models.Envelope {
	return models.Err(apperrors.CodeUnsupportedIntent,
		"Sorry, I don't have data for that request.", intentName, nil)
}

func (r *Router) count(env models.Envelope) {
	intentLabel := "none"
	if env.Intent != nil {
		intentLabel = *env.Intent
	}
	status := "ok"
	if !env.OK {
		status = "error"
	}
	metrics.RequestsTotal.WithLabelValues(intentLabel, status).Inc()
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
