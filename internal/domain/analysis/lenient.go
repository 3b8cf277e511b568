package analysis

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

// RequiredFields must be present (non-null) in every model reply.
var RequiredFields = []string{"diagnosis", "health_status", "plant_type", "recommendations"}

// StringList accepts an array, a single string or null. Non-string array
// elements are dropped; any other shape decodes as absent.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = listValue(b)
	return nil
}

// UnmarshalJSON reads pigmentation without failing on odd shapes.
func (p *Pigmentation) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		*p = Pigmentation{}
		return nil
	}
	color, _ := textValue(fields["leaf_color"])
	*p = Pigmentation{LeafColor: color, Indicators: listValue(fields["indicators"])}
	return nil
}

// UnmarshalJSON decodes a result leniently; see ResultFromFields.
func (r *Result) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*r, _ = ResultFromFields(fields)
	return nil
}

// ResultFromFields builds a Result from a decoded JSON object and reports which
// required fields were missing or null, sorted. Required values that are not
// strings are kept as text. Pigmentation and issues of the wrong shape are
// treated as absent.
func ResultFromFields(fields map[string]json.RawMessage) (Result, []string) {
	var missing []string
	text := func(name string) string {
		v, ok := textValue(fields[name])
		if !ok {
			missing = append(missing, name)
		}
		return v
	}

	res := Result{
		PlantType:       text("plant_type"),
		HealthStatus:    text("health_status"),
		Diagnosis:       text("diagnosis"),
		Recommendations: text("recommendations"),
	}
	if raw, ok := fields["confidence"]; ok {
		res.Confidence.UnmarshalJSON(raw)
	}
	if raw := fields["pigmentation"]; isObject(raw) {
		var p Pigmentation
		p.UnmarshalJSON(raw)
		res.Pigmentation = &p
	}
	if issues := listValue(fields["issues"]); len(issues) > 0 {
		res.Issues = issues
	}
	slices.Sort(missing)
	return res, missing
}

// textValue returns a string as is, an array of strings joined by "; " and any
// other non-null value as its JSON text. Absent and null report false.
func textValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	var arr []json.RawMessage
	if json.Unmarshal(raw, &arr) == nil {
		parts := make([]string, 0, len(arr))
		for _, item := range arr {
			if v, ok := textValue(item); ok {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, "; "), true
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) == nil {
		return buf.String(), true
	}
	return string(raw), true
}

func listValue(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	var one string
	if json.Unmarshal(raw, &one) == nil {
		if strings.TrimSpace(one) == "" {
			return nil
		}
		return []string{one}
	}
	var arr []json.RawMessage
	if json.Unmarshal(raw, &arr) != nil {
		return nil
	}
	var out []string
	for _, item := range arr {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
