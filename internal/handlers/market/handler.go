// Package market answers time-series questions against the provider's market
// endpoints: MOD dispatch price, IEX exchange rate at an exact tick, and the
// demand forecast for the next day at the same time.
package market

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/common/metrics"
	"urja-assistant/internal/models"
	"urja-assistant/internal/nlp/entity"
	"urja-assistant/internal/nlp/temporal"
	"urja-assistant/internal/nlp/timebucket"
	"urja-assistant/internal/powcast"
)

type Handler struct {
	config *Config
	api    *powcast.Client
	logger logger.Logger
}

func NewHandler(config *Config, api *powcast.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		api:    api,
		logger: log.With(map[string]interface{}{"handler": "market"}),
	}
}

// HandleMOD reports the dispatch price for the block containing the asked
// moment. The provider exposes it through the procurement endpoint's
// Last_Price.
func (h *Handler) HandleMOD(ctx context.Context, date string, tod temporal.TimeOfDay, original string) models.Envelope {
	const intentName = "mod"
	const metric = "MOD price"
	defer h.observe(intentName, time.Now())

	ts, err := temporal.Combine(date, tod)
	if err != nil {
		return h.fetchFail(intentName, metric)
	}
	ts = timebucket.Snap(ts, h.config.MODWindowMinutes)

	params := url.Values{}
	params.Set("start_date", ts.Format(powcast.TimestampLayout))
	params.Set("price_cap", strconv.Itoa(h.config.PriceCap))

	payload, noData, err := h.api.Get(ctx, "/procurement", params)
	if err != nil {
		h.logger.WithError(err).Error("mod fetch failed", nil)
		return h.fetchFail(intentName, metric)
	}
	if noData {
		return h.notFound(intentName, metric, ts)
	}

	lastPrice, ok := powcast.FirstByKeys(payload, "Last_Price", "last_price", "price", "value", "last_trade_price")
	if !ok {
		return h.notFound(intentName, metric, ts)
	}
	return h.success(intentName, metric, ts,
		entity.FormatPrice(lastPrice, h.config.CurrencySymbol), "per unit", "procurement")
}

// HandleIEX reports the exchange rate at the exact asked minute, fetched as a
// one-window range and matched tick-for-tick.
func (h *Handler) HandleIEX(ctx context.Context, date string, tod temporal.TimeOfDay, original string) models.Envelope {
	const intentName = "iex"
	const metric = "IEX market rate"
	defer h.observe(intentName, time.Now())

	ts, err := temporal.Combine(date, tod)
	if err != nil {
		return h.fetchFail(intentName, metric)
	}
	start := timebucket.Snap(ts, 1)
	end := start.Add(timebucket.TTL(h.config.IEXWindowMinutes))

	params := url.Values{}
	params.Set("start_date", start.Format("2006-01-02 15:04"))
	params.Set("end_date", end.Format("2006-01-02 15:04"))

	payload, noData, err := h.api.Get(ctx, "/iex/range", params)
	if err != nil {
		h.logger.WithError(err).Error("iex fetch failed", nil)
		return h.fetchFail(intentName, metric)
	}
	if noData {
		return h.notFound(intentName, metric, start)
	}

	row, ok := powcast.ExactTick(powcast.Rows(payload), start)
	if !ok {
		return h.notFound(intentName, metric, start)
	}
	val, ok := powcast.Pick(row, "predicted", "price", "iex_price", "mcp", "value")
	if !ok {
		return h.notFound(intentName, metric, start)
	}
	return h.success(intentName, metric, start,
		entity.FormatPrice(val, h.config.CurrencySymbol), "per unit", "IEX")
}

// HandleDemand reports the forecast for the NEXT day at the asked time; the
// demand model predicts a day ahead, so "demand at 10:00 on the 30th" means
// the forecast made for Oct 1st 10:00.
func (h *Handler) HandleDemand(ctx context.Context, date string, tod temporal.TimeOfDay, original string) models.Envelope {
	const intentName = "demand"
	const metric = "demand"
	defer h.observe(intentName, time.Now())

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return h.fetchFail(intentName, metric)
	}
	target, err := temporal.Combine(day.AddDate(0, 0, 1).Format("2006-01-02"), tod)
	if err != nil {
		return h.fetchFail(intentName, metric)
	}
	start := timebucket.Snap(target, 1)
	end := start.Add(timebucket.TTL(h.config.DemandWindowMinutes))

	params := url.Values{}
	params.Set("start_date", start.Format(powcast.TimestampLayout))
	params.Set("end_date", end.Format(powcast.TimestampLayout))

	payload, noData, err := h.api.Get(ctx, "/demand/range", params)
	if err != nil {
		h.logger.WithError(err).Error("demand fetch failed", nil)
		return h.fetchFail(intentName, metric)
	}
	if noData {
		return h.notFound(intentName, metric, start)
	}

	row, ok := powcast.ExactTick(powcast.Rows(payload, "demand"), start)
	if !ok {
		return h.notFound(intentName, metric, start)
	}

	var predicted, actual string
	if v, ok := powcast.Pick(row, "predicted", "Demand(Pred)", "forecast", "value"); ok {
		predicted = numString(v)
	}
	if v, ok := powcast.Pick(row, "actual", "Demand(Actual)", "observed"); ok {
		actual = numString(v)
	}

	switch {
	case predicted != "" && actual != "":
		return h.success(intentName, metric, start,
			fmt.Sprintf("Predicted: %s kWh & Actual: %s kWh", predicted, actual), "", "")
	case predicted != "":
		return h.success(intentName, metric, start, predicted+" kWh (predicted)", "", "")
	case actual != "":
		return h.success(intentName, metric, start, actual+" kWh (actual)", "", "")
	}
	return h.notFound(intentName, metric, start)
}

func (h *Handler) success(intentName, metric string, ts time.Time, value interface{}, unit, source string) models.Envelope {
	unitSuffix := ""
	if unit != "" {
		unitSuffix = " " + unit
	}
	text := fmt.Sprintf("The %s at %s on %s is %v%s.",
		metric, ts.Format("15:04"), ts.Format("2006-01-02"), value, unitSuffix)
	var meta map[string]interface{}
	if source != "" {
		meta = map[string]interface{}{"source": source}
	}
	return models.Ok(intentName, map[string]interface{}{
		"text":      text,
		"metric":    metric,
		"timestamp": ts.Format(powcast.TimestampLayout),
		"value":     value,
		"unit":      unit,
	}, meta)
}

func (h *Handler) notFound(intentName, metric string, ts time.Time) models.Envelope {
	text := fmt.Sprintf("No %s data found for %s on %s.", metric, ts.Format("15:04"), ts.Format("2006-01-02"))
	return models.Err(apperrors.CodeNoData, text, intentName, map[string]interface{}{
		"metric":    metric,
		"timestamp": ts.Format(powcast.TimestampLayout),
	})
}

func (h *Handler) fetchFail(intentName, metric string) models.Envelope {
	return models.Err(apperrors.CodeFetchFailed,
		fmt.Sprintf("Failed to fetch %s data.", metric), intentName,
		map[string]interface{}{"metric": metric})
}

func (h *Handler) observe(intentName string, start time.Time) {
	metrics.CollaboratorDuration.WithLabelValues(intentName).Observe(time.Since(start).Seconds())
}

func numString(v interface{}) string {
	f, err := strconv.ParseFloat(fmt.Sprint(v), 64)
	if err != nil {
		return fmt.Sprint(v)
	}
	return entity.TrimNumber(f)
}
