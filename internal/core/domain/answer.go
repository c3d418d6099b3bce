package domain

import "strconv"

// FieldAnswers maps field id to the captured answer value for one
// procedure. Values are kind-dependent: string, float64, bool or
// []string per FieldType.ValueKind.
type FieldAnswers map[string]any

// AnswerMap maps procedure id to that procedure's field answers.
// The executor hands the whole map back to the caller on every change;
// callers own persistence.
type AnswerMap map[string]FieldAnswers

// Clone returns a deep copy of the answer map. List values are copied;
// scalar values are copied by assignment.
func (m AnswerMap) Clone() AnswerMap {
	if m == nil {
		return AnswerMap{}
	}
	out := make(AnswerMap, len(m))
	for pid, fields := range m {
		fc := make(FieldAnswers, len(fields))
		for fid, v := range fields {
			if list, ok := v.([]string); ok {
				fc[fid] = append([]string(nil), list...)
				continue
			}
			fc[fid] = v
		}
		out[pid] = fc
	}
	return out
}

// Get returns the raw answer for a field, or nil if unset.
func (m AnswerMap) Get(procedureID, fieldID string) any {
	fields, ok := m[procedureID]
	if !ok {
		return nil
	}
	return fields[fieldID]
}

// Set stores an answer, creating the per-procedure map on demand.
func (m AnswerMap) Set(procedureID, fieldID string, value any) {
	fields, ok := m[procedureID]
	if !ok {
		fields = FieldAnswers{}
		m[procedureID] = fields
	}
	fields[fieldID] = value
}

// The coercion helpers below absorb malformed or missing values:
// any answer that does not match the expected shape reads as the
// zero value rather than failing the render.

// StringValue coerces an answer to a string. Unset or mismatched
// values return "".
func StringValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// NumberValue coerces an answer to a float64. Numeric strings are
// parsed; anything else returns 0.
func NumberValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// BoolValue coerces an answer to a bool. Unset or mismatched values
// return false.
func BoolValue(v any) bool {
	b, ok := v.(bool)
	if !ok {
		return false
	}
	return b
}

// ListValue coerces an answer to a string slice. JSON round-trips
// produce []any, which is converted element-wise; anything else
// returns nil.
func ListValue(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
