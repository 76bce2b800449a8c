package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urja-assistant/internal/common/config"
	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/nlp/temporal"
	"urja-assistant/internal/powcast"
)

func newTestHandler(t *testing.T, srv *httptest.Server) *Handler {
	t.Helper()
	cfg := &Config{
		MODWindowMinutes:    15,
		IEXWindowMinutes:    1,
		DemandWindowMinutes: 1,
		PriceCap:            10,
		CurrencySymbol:      "₹",
	}
	api := powcast.NewClient(config.PowcastConfig{BaseURL: srv.URL, Timeout: 5}, logger.NewTestLogger(t))
	return NewHandler(cfg, api, logger.NewTestLogger(t))
}

func TestHandleMOD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/procurement", r.URL.Path)
		// 10:20 snaps to the 10:15 block.
		assert.Equal(t, "2027-09-30 10:15:00", r.URL.Query().Get("start_date"))
		assert.Equal(t, "10", r.URL.Query().Get("price_cap"))
		_, _ = w.Write([]byte(`{"data": [{"plant_name": "Koradi", "Last_Price": 4.257}]}`))
	}))
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.HandleMOD(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10, Minute: 20}, "mod price")
	require.True(t, env.OK)
	assert.Equal(t, "₹4.26", env.Data["value"])
	assert.Equal(t, "per unit", env.Data["unit"])
	assert.Equal(t, "procurement", env.Meta["source"])
}

func TestHandleIEXExactTick(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/iex/range", r.URL.Path)
		assert.Equal(t, "2027-09-30 10:20", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2027-09-30 10:21", r.URL.Query().Get("end_date"))
		_, _ = w.Write([]byte(`{"data": [
			{"TimeStamp": "2027-09-30 10:19:00", "predicted": 9.0},
			{"TimeStamp": "2027-09-30 10:20:00", "predicted": 6.5}
		]}`))
	}))
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.HandleIEX(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10, Minute: 20}, "iex price")
	require.True(t, env.OK)
	assert.Equal(t, "₹6.5", env.Data["value"])
	assert.Equal(t, "2027-09-30 10:20:00", env.Data["timestamp"])
}

func TestHandleIEXNoExactTick(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"TimeStamp": "2027-09-30 10:19:00", "predicted": 9.0}]}`))
	}))
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.HandleIEX(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10, Minute: 20}, "iex price")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeNoData, env.Error.Code)
}

func TestHandleDemandNextDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demand/range", r.URL.Path)
		// Asked for the 30th; the forecast targets Oct 1st, same time.
		assert.Equal(t, "2027-10-01 10:20:00", r.URL.Query().Get("start_date"))
		_, _ = w.Write([]byte(`{"demand": [
			{"TimeStamp": "2027-10-01 10:20:00", "predicted": 1520.50, "actual": 1498}
		]}`))
	}))
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.HandleDemand(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10, Minute: 20}, "demand")
	require.True(t, env.OK)
	assert.Equal(t, "Predicted: 1520.5 kWh & Actual: 1498 kWh", env.Data["value"])
}

func TestHandleDemandPredictedOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"demand": [{"TimeStamp": "2027-10-01 10:20:00", "predicted": 1520}]}`))
	}))
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.HandleDemand(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10, Minute: 20}, "demand")
	require.True(t, env.OK)
	assert.Equal(t, "1520 kWh (predicted)", env.Data["value"])
}

func TestHandleMODFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	h := newTestHandler(t, srv)

	env := h.HandleMOD(context.Background(), "2027-09-30", temporal.TimeOfDay{Hour: 10}, "mod price")
	require.False(t, env.OK)
	assert.Equal(t, apperrors.CodeFetchFailed, env.Error.Code)
}
