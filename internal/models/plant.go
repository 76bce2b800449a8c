package models

// PlantRecord is one generation plant as reported by the data provider: a name
// plus canonical field key -> raw value. Records come from collaborator
// responses and are never mutated by the pipeline.
type PlantRecord struct {
	Name   string
	Fields map[string]interface{}
}

// Field returns the first non-missing value among the given keys.
func (p PlantRecord) Field(keys ...string) (interface{}, bool) {
	for _, k := range keys {
		v, ok := p.Fields[k]
		if !ok {
			continue
		}
		if missingValue(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func missingValue(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch s {
	case "", "null", "Null", "NULL", "NaN", "none", "None":
		return true
	}
	return false
}
