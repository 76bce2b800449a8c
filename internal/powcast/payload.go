package powcast

import (
	"encoding/json"
	"time"

	"urja-assistant/internal/models"
)

const TimestampLayout = "2006-01-02 15:04:05"

// Plants flattens a plant payload into records. Both casings the provider
// has shipped are accepted: must_run/other and Must_Run/Remaining_Plants,
// with a data list or a bare list as fallback.
func Plants(payload json.RawMessage) []models.PlantRecord {
	var probe interface{}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil
	}

	var rows []interface{}
	switch v := probe.(type) {
	case map[string]interface{}:
		for _, group := range [][]string{
			{"must_run", "Must_Run"},
			{"other", "Remaining_Plants"},
		} {
			for _, key := range group {
				if list, ok := v[key].([]interface{}); ok {
					rows = append(rows, list...)
					break
				}
			}
		}
		if rows == nil {
			if list, ok := v["data"].([]interface{}); ok {
				rows = list
			}
		}
	case []interface{}:
		rows = v
	}

	plants := make([]models.PlantRecord, 0, len(rows))
	for _, row := range rows {
		fields, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		rec := models.PlantRecord{Fields: fields}
		if name, ok := fields["name"].(string); ok && name != "" {
			rec.Name = name
		} else if name, ok := fields["plant_name"].(string); ok {
			rec.Name = name
		}
		plants = append(plants, rec)
	}
	return plants
}

// Rows pulls the row list out of a range payload: the first of the given
// wrapper keys that holds a list, then "data", then a bare top-level list.
func Rows(payload json.RawMessage, wrapperKeys ...string) []map[string]interface{} {
	var probe interface{}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil
	}

	var raw []interface{}
	switch v := probe.(type) {
	case map[string]interface{}:
		for _, key := range append(wrapperKeys, "data") {
			if list, ok := v[key].([]interface{}); ok {
				raw = list
				break
			}
		}
	case []interface{}:
		raw = v
	}

	rows := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]interface{}); ok {
			rows = append(rows, m)
		}
	}
	return rows
}

// ExactTick finds the row whose TimeStamp equals want. Rows with unparsable
// timestamps are skipped, not fatal.
func ExactTick(rows []map[string]interface{}, want time.Time) (map[string]interface{}, bool) {
	for _, row := range rows {
		s, ok := row["TimeStamp"].(string)
		if !ok {
			continue
		}
		ts, err := time.ParseInLocation(TimestampLayout, s, want.Location())
		if err != nil {
			continue
		}
		if ts.Equal(want) {
			return row, true
		}
	}
	return nil, false
}

// Pick returns the first non-missing value among the given keys of one row.
func Pick(row map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok && !missingScalar(v) {
			return v, true
		}
	}
	return nil, false
}

// FirstByKeys walks the payload (objects, their "data" members, lists) and
// returns the first non-missing value stored under any of the given keys.
func FirstByKeys(payload json.RawMessage, keys ...string) (interface{}, bool) {
	var probe interface{}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, false
	}
	return walkByKeys(probe, keys)
}

func walkByKeys(node interface{}, keys []string) (interface{}, bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		for _, k := range keys {
			if val, ok := v[k]; ok && !missingScalar(val) {
				return val, true
			}
		}
		if d, ok := v["data"]; ok {
			return walkByKeys(d, keys)
		}
	case []interface{}:
		for _, item := range v {
			if val, ok := walkByKeys(item, keys); ok {
				return val, true
			}
		}
	}
	return nil, false
}

func missingScalar(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		switch s {
		case "", "nan", "NaN", "none", "None", "null", "Null":
			return true
		}
	}
	return false
}
