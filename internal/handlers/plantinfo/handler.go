// Package plantinfo answers per-plant metric questions (PLF, PAF, variable
// cost, capacities) from the provider's plant catalog snapshot.
package plantinfo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/common/metrics"
	"urja-assistant/internal/models"
	"urja-assistant/internal/nlp/entity"
	"urja-assistant/internal/nlp/normalize"
	"urja-assistant/internal/nlp/temporal"
	"urja-assistant/internal/powcast"
)

const intentName = "plant_info"

// fieldTable covers every plant attribute the catalog exposes. Phrases are
// the normalized forms users type; keys are the provider's JSON keys.
var fieldTable = entity.NewFieldTable(map[string]entity.FieldSpec{
	"plf":                       {Key: "PLF", Label: "PLF", Unit: entity.UnitPercent},
	"plant load factor":         {Key: "PLF", Label: "PLF", Unit: entity.UnitPercent},
	"paf":                       {Key: "PAF", Label: "PAF", Unit: entity.UnitPercent},
	"plant availability factor": {Key: "PAF", Label: "PAF", Unit: entity.UnitPercent},
	"variable cost":             {Key: "Variable_Cost", Label: "variable cost", Unit: entity.UnitCurrencyPerUnit},
	"var cost":                  {Key: "Variable_Cost", Label: "variable cost", Unit: entity.UnitCurrencyPerUnit},
	"aux consumption":           {Key: "Aux_Consumption", Label: "auxiliary consumption", Unit: entity.UnitPercent},
	"auxiliary consumption":     {Key: "Aux_Consumption", Label: "auxiliary consumption", Unit: entity.UnitPercent},
	"aux usage":                 {Key: "Aux_Consumption", Label: "auxiliary consumption", Unit: entity.UnitPercent},
	"auxiliary usage":           {Key: "Aux_Consumption", Label: "auxiliary consumption", Unit: entity.UnitPercent},
	"max power":                 {Key: "Max_Power", Label: "max power", Unit: entity.UnitMW},
	"min power":                 {Key: "Min_Power", Label: "min power", Unit: entity.UnitMW},
	"rated capacity":            {Key: "Rated_Capacity", Label: "rated capacity", Unit: entity.UnitMW},
	"technical minimum":         {Key: "Technical_Minimum", Label: "technical minimum", Unit: entity.UnitPercent},
	"type":                      {Key: "Type", Label: "type", Unit: entity.UnitRaw},
})

var overviewPat = regexp.MustCompile(`\b(list|all|overview|summary|show all)\b`)

type Handler struct {
	config *Config
	api    *powcast.Client
	logger logger.Logger
}

func NewHandler(config *Config, api *powcast.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		api:    api,
		logger: log.With(map[string]interface{}{"handler": intentName}),
	}
}

func (h *Handler) Handle(ctx context.Context, date string, tod temporal.TimeOfDay, original string) models.Envelope {
	timer := time.Now()
	defer func() {
		metrics.CollaboratorDuration.WithLabelValues(intentName).Observe(time.Since(timer).Seconds())
	}()

	ts, err := temporal.Combine(date, tod)
	if err != nil {
		h.logger.WithError(err).Error("bad timestamp", map[string]interface{}{"date": date})
		return h.fetchFail("plant details")
	}

	// The catalog endpoint carries current attributes; no range parameters.
	payload, noData, err := h.api.Get(ctx, "/plant/", nil)
	if err != nil {
		h.logger.WithError(err).Error("catalog fetch failed", nil)
		return h.fetchFail("plant details")
	}
	if noData {
		return h.noData("plant details", "the requested plant", ts)
	}

	plants := powcast.Plants(payload)
	if len(plants) == 0 {
		return h.noData("plant details", "the requested plant", ts)
	}

	norm := normalize.Normalize(original)

	spec, ok := fieldTable.Resolve(norm, h.config.FieldTolerance)
	if !ok {
		return models.Err(apperrors.CodeMissingParam,
			"Please specify the parameter (e.g., PLF/PAF/variable cost/aux consumption) and the plant name.\n"+
				"Example: PLF of Koradi on 2025-09-12 at 10:00",
			intentName, nil)
	}

	if h.wantsOverview(norm) {
		return h.overview(spec, plants, ts)
	}

	query, ok := entity.ExtractNameQuery(norm)
	if !ok {
		return models.Err(apperrors.CodePlantNameMissing,
			"Could not identify the plant name. Example: 'PLF of Koradi at 10:00 on 2025-09-12'.",
			intentName, nil)
	}

	var best *models.PlantRecord
	for i := range plants {
		if entity.MatchName(plants[i].Name, query, h.config.NameTolerance) {
			best = &plants[i]
			break
		}
	}
	if best == nil {
		return models.Err(apperrors.CodePlantNotFound,
			fmt.Sprintf("No plant found matching '%s'.", query), intentName, nil)
	}

	raw, ok := best.Field(spec.Key)
	if !ok {
		return h.noData(spec.Label, best.Name, ts)
	}

	value := entity.FormatValue(raw, spec.Unit, h.config.CurrencySymbol)
	text := fmt.Sprintf("The %s for %s at %s on %s is %s.",
		spec.Label, best.Name, ts.Format("15:04"), ts.Format("2006-01-02"), value)
	return models.Ok(intentName, map[string]interface{}{
		"text":      text,
		"metric":    spec.Label,
		"plant":     best.Name,
		"timestamp": ts.Format("2006-01-02 15:04"),
		"value":     value,
		"unit":      "",
	}, nil)
}

// wantsOverview detects list-all phrasings, plus generic plant mentions that
// name no particular plant.
func (h *Handler) wantsOverview(norm string) bool {
	if overviewPat.MatchString(norm) {
		return true
	}
	mentionsPlants := strings.Contains(norm, "plant")
	_, hasName := entity.ExtractNameQuery(norm)
	return mentionsPlants && !hasName
}

func (h *Handler) overview(spec entity.FieldSpec, plants []models.PlantRecord, ts time.Time) models.Envelope {
	rows := make([]map[string]interface{}, 0, len(plants))
	for _, p := range plants {
		name := p.Name
		if name == "" {
			name = "Unknown Plant"
		}
		value := "N/A"
		if raw, ok := p.Field(spec.Key); ok {
			value = entity.FormatValue(raw, spec.Unit, h.config.CurrencySymbol)
		}
		rows = append(rows, map[string]interface{}{"plant": name, "value": value})
	}
	label := strings.ToUpper(spec.Label[:1]) + spec.Label[1:]
	return models.Ok(intentName, map[string]interface{}{
		"text":      fmt.Sprintf("%s values at %s on %s", label, ts.Format("15:04"), ts.Format("2006-01-02")),
		"metric":    spec.Label,
		"timestamp": ts.Format("2006-01-02 15:04"),
		"rows":      rows,
	}, nil)
}

func (h *Handler) noData(metric, plant string, ts time.Time) models.Envelope {
	text := fmt.Sprintf("No %s data found for %s at %s on %s.",
		metric, plant, ts.Format("15:04"), ts.Format("2006-01-02"))
	return models.Err(apperrors.CodeNoData, text, intentName, map[string]interface{}{
		"metric":    metric,
		"plant":     plant,
		"timestamp": ts.Format("2006-01-02 15:04"),
	})
}

func (h *Handler) fetchFail(metric string) models.Envelope {
	return models.Err(apperrors.CodeFetchFailed,
		fmt.Sprintf("Failed to fetch %s data.", metric), intentName,
		map[string]interface{}{"metric": metric})
}
