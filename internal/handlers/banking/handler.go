// Package banking reports the consolidated banking position (adjusted units,
// adjustment charges, banked units, banking cost) for a time block. Fetched
// blocks are cached for one window length, and an empty block is retried
// once against the previous window.
package banking

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"urja-assistant/internal/common/cache"
	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/common/metrics"
	"urja-assistant/internal/models"
	"urja-assistant/internal/nlp/temporal"
	"urja-assistant/internal/nlp/timebucket"
	"urja-assistant/internal/powcast"
)

const (
	intentName   = "banking"
	minuteLayout = "2006-01-02 15:04"
)

type Handler struct {
	config *Config
	api    *powcast.Client
	cache  *cache.RedisCache
	logger logger.Logger
}

// NewHandler wires the banking collaborator. cache may be nil, which
// disables caching but not the handler.
func NewHandler(config *Config, api *powcast.Client, rc *cache.RedisCache, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		api:    api,
		cache:  rc,
		logger: log.With(map[string]interface{}{"handler": intentName}),
	}
}

func (h *Handler) Handle(ctx context.Context, date string, tod temporal.TimeOfDay, original string) models.Envelope {
	timer := time.Now()
	defer func() {
		metrics.CollaboratorDuration.WithLabelValues(intentName).Observe(time.Since(timer).Seconds())
	}()

	raw, err := temporal.Combine(date, tod)
	if err != nil {
		h.logger.WithError(err).Error("bad timestamp", map[string]interface{}{"date": date})
		return h.fetchFail()
	}
	ts := timebucket.Snap(raw, h.config.WindowMinutes)

	rows, err := h.fetchRows(ctx, ts)
	if err != nil {
		h.logger.WithError(err).Error("banking fetch failed", map[string]interface{}{
			"timestamp": ts.Format(minuteLayout),
		})
		return h.fetchFail()
	}

	// One retry against the previous block; stale banking data beats none.
	used := ts
	retried := false
	if len(rows) == 0 {
		used = timebucket.Prev(ts, h.config.WindowMinutes)
		retried = true
		rows, err = h.fetchRows(ctx, used)
		if err != nil {
			h.logger.WithError(err).Error("banking retry fetch failed", map[string]interface{}{
				"timestamp": used.Format(minuteLayout),
			})
			return h.fetchFail()
		}
	}

	if len(rows) == 0 {
		hint := fmt.Sprintf("Try a nearby block like %s or %s.",
			timebucket.Prev(ts, h.config.WindowMinutes).Format("15:04"),
			timebucket.Next(ts, h.config.WindowMinutes).Format("15:04"))
		return models.Err(apperrors.CodeNoData,
			fmt.Sprintf("No banking data found for %s. %s", ts.Format(minuteLayout), hint),
			intentName, map[string]interface{}{"timestamp": ts.Format(minuteLayout)})
	}

	// One aggregate row per block.
	rec := rows[0]
	adjustedUnits := pickOrZero(rec, "adjusted_units")
	adjustmentCharges := pickOrZero(rec, "adjustment_charges")
	bankedUnits := pickOrZero(rec, "banked_units", "banking_units")
	bankingCost := pickOrZero(rec, "banking_cost")

	suffix := ""
	if retried {
		suffix = fmt.Sprintf(" (using previous block %s)", used.Format("15:04"))
	}
	text := fmt.Sprintf("Banking at %s on %s%s: Adjusted Units: %v, Adjustment Charges: %v, Banked Units: %v, Banking Cost: %v",
		used.Format("15:04"), used.Format("2006-01-02"), suffix,
		adjustedUnits, adjustmentCharges, bankedUnits, bankingCost)

	return models.Ok(intentName, map[string]interface{}{
		"text":               text,
		"timestamp":          used.Format(powcast.TimestampLayout),
		"adjusted_units":     adjustedUnits,
		"adjustment_charges": adjustmentCharges,
		"banked_units":       bankedUnits,
		"banking_cost":       bankingCost,
	}, nil)
}

// fetchRows loads the consolidated rows for one snapped block, via the cache
// when possible. No-data responses are cached too so an empty block does not
// hammer the provider for a whole window.
func (h *Handler) fetchRows(ctx context.Context, ts time.Time) ([]map[string]interface{}, error) {
	start := ts.Format(minuteLayout)
	key := "banking:" + start

	if h.cache != nil {
		var cached []map[string]interface{}
		hit, err := h.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			h.logger.WithError(err).Warn("cache read failed", map[string]interface{}{"key": key})
		}
		if hit {
			metrics.CacheLookups.WithLabelValues(intentName, "hit").Inc()
			return cached, nil
		}
		metrics.CacheLookups.WithLabelValues(intentName, "miss").Inc()
	}

	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", start)
	payload, noData, err := h.api.Get(ctx, "/consolidated-part/all", params)
	if err != nil {
		return nil, err
	}

	rows := []map[string]interface{}{}
	if !noData {
		rows = powcast.Rows(payload)
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, key, rows, timebucket.TTL(h.config.WindowMinutes)); err != nil {
			h.logger.WithError(err).Warn("cache write failed", map[string]interface{}{"key": key})
		}
	}
	return rows, nil
}

func (h *Handler) fetchFail() models.Envelope {
	return models.Err(apperrors.CodeFetchFailed, "Failed to fetch banking data.", intentName, nil)
}

func pickOrZero(row map[string]interface{}, keys ...string) interface{} {
	if v, ok := powcast.Pick(row, keys...); ok {
		return v
	}
	return 0
}
