// Package procurement answers questions about purchased and generated energy
// per time block: last price, generated energy, and the derived generated
// cost per plant.
package procurement

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/common/metrics"
	"urja-assistant/internal/models"
	"urja-assistant/internal/nlp/entity"
	"urja-assistant/internal/nlp/normalize"
	"urja-assistant/internal/nlp/temporal"
	"urja-assistant/internal/nlp/timebucket"
	"urja-assistant/internal/powcast"
)

const intentName = "procurement"

// fieldTable maps request phrasings to procurement payload keys. Banking
// phrases route to their own intent and are deliberately absent here.
var fieldTable = entity.NewFieldTable(map[string]entity.FieldSpec{
	"generated energy":    {Key: "generated_energy", Label: "generated energy"},
	"energy generated":    {Key: "generated_energy", Label: "generated energy"},
	"energy generation":   {Key: "generated_energy", Label: "generated energy"},
	"energy":              {Key: "generated_energy", Label: "generated energy"},
	"generated cost":      {Key: "Generated_Cost", Label: "generated cost"},
	"generation cost":     {Key: "Generated_Cost", Label: "generated cost"},
	"cost generated":      {Key: "Generated_Cost", Label: "generated cost"},
	"cost generation":     {Key: "Generated_Cost", Label: "generated cost"},
	"procurement price":   {Key: "Last_Price", Label: "last price"},
	"last price":          {Key: "Last_Price", Label: "last price"},
	"power purchase cost": {Key: "Last_Price", Label: "last price"},
	"purchase cost":       {Key: "Last_Price", Label: "last price"},
	"ppc":                 {Key: "Last_Price", Label: "last price"},
	"iex cost":            {Key: "Last_Price", Label: "last price"},
})

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
		return h.fetchFail(ts, map[string]interface{}{"reason": "bad timestamp"})
	}
	ts = timebucket.Snap(ts, h.config.WindowMinutes)
	stamp := ts.Format(powcast.TimestampLayout)

	params := url.Values{}
	params.Set("start_date", stamp)
	params.Set("price_cap", strconv.Itoa(h.config.PriceCap))

	payload, noData, err := h.api.Get(ctx, "/procurement", params)
	if err != nil {
		h.logger.WithError(err).Error("procurement fetch failed", map[string]interface{}{"timestamp": stamp})
		return h.fetchFail(ts, map[string]interface{}{"timestamp": stamp})
	}
	if noData {
		return h.noData(ts)
	}

	plants := powcast.Plants(payload)
	deriveGeneratedCost(plants)

	norm := normalize.Normalize(original)

	spec, ok := fieldTable.Resolve(norm, h.config.FieldTolerance)
	if !ok {
		return models.Err(apperrors.CodeMissingParam,
			"Please specify what you need (e.g., 'procurement price' / 'ppc', 'generated energy', or 'generated cost') along with date & time.",
			intentName, nil)
	}

	// An aggregate value at the payload's top level trumps per-plant rows.
	if val, ok := topLevelField(payload, spec.Key); ok {
		return models.Ok(intentName, map[string]interface{}{
			"text":      fmt.Sprintf("%s at %s: %v", capitalize(spec.Label), stamp, val),
			"timestamp": stamp,
			"field":     spec.Key,
			"value":     val,
		}, nil)
	}

	if query, ok := entity.ExtractNameQuery(norm); ok && len(plants) > 0 {
		return h.perPlant(plants, query, spec, stamp)
	}

	if len(plants) > 0 {
		return h.listing(plants, spec, stamp)
	}

	return h.noData(ts)
}

// deriveGeneratedCost computes Generated_Cost = Variable_Cost * generated
// energy for every plant, since the provider does not report it directly.
func deriveGeneratedCost(plants []models.PlantRecord) {
	for _, p := range plants {
		cost := asFloat(p.Fields["Variable_Cost"]) * asFloat(p.Fields["generated_energy"])
		p.Fields["Generated_Cost"] = math.Round(cost*100) / 100
	}
}

func (h *Handler) perPlant(plants []models.PlantRecord, query string, spec entity.FieldSpec, stamp string) models.Envelope {
	for _, p := range plants {
		if !entity.MatchName(p.Name, query, h.config.NameTolerance) {
			continue
		}
		val, ok := p.Field(spec.Key)
		if !ok {
			return models.Err(apperrors.CodeNoData,
				fmt.Sprintf("%s not available for %s at %s.", capitalize(spec.Label), p.Name, stamp),
				intentName, map[string]interface{}{
					"plant": p.Name, "field": spec.Key, "timestamp": stamp,
				})
		}
		return models.Ok(intentName, map[string]interface{}{
			"text":      fmt.Sprintf("%s for %s at %s: %v", capitalize(spec.Label), p.Name, stamp, val),
			"timestamp": stamp,
			"plant":     p.Name,
			"field":     spec.Key,
			"value":     val,
		}, nil)
	}
	return models.Err(apperrors.CodePlantNotFound,
		fmt.Sprintf("No plant found matching '%s'.", query), intentName, nil)
}

func (h *Handler) listing(plants []models.PlantRecord, spec entity.FieldSpec, stamp string) models.Envelope {
	rows := make([]map[string]interface{}, 0, len(plants))
	for _, p := range plants {
		name := p.Name
		if name == "" {
			name = "Unknown Plant"
		}
		var value interface{} = "N/A"
		if v, ok := p.Field(spec.Key); ok {
			value = v
		}
		rows = append(rows, map[string]interface{}{"plant": name, "value": value})
	}
	return models.Ok(intentName, map[string]interface{}{
		"text":      fmt.Sprintf("%s values at %s", capitalize(spec.Label), stamp),
		"timestamp": stamp,
		"field":     spec.Key,
		"rows":      rows,
	}, nil)
}

func (h *Handler) noData(ts time.Time) models.Envelope {
	return models.Err(apperrors.CodeNoData,
		fmt.Sprintf("No procurement data found for %s on %s.", ts.Format("15:04"), ts.Format("2006-01-02")),
		intentName, map[string]interface{}{"timestamp": ts.Format(powcast.TimestampLayout)})
}

func (h *Handler) fetchFail(ts time.Time, details map[string]interface{}) models.Envelope {
	return models.Err(apperrors.CodeFetchFailed, "Failed to fetch procurement data.", intentName, details)
}

func topLevelField(payload json.RawMessage, key string) (interface{}, bool) {
	var top map[string]interface{}
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, false
	}
	v, ok := top[key]
	return v, ok
}

func asFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
