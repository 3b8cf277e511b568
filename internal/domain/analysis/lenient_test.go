package analysis

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeFields(t *testing.T, raw string) (Result, []string) {
	t.Helper()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		t.Fatalf("fixture is not an object: %v", err)
	}
	return ResultFromFields(fields)
}

func TestResultFromFieldsCoercesRequiredText(t *testing.T) {
	res, missing := decodeFields(t, `{"plant_type":"Tomate","health_status":"Saludable","confidence":80,
"diagnosis":{"causa":"exceso de riego"},"recommendations":["regar","podar"]}`)
	if len(missing) != 0 {
		t.Fatalf("missing = %v", missing)
	}
	if res.Recommendations != "regar; podar" {
		t.Errorf("Recommendations = %q", res.Recommendations)
	}
	if res.Diagnosis != `{"causa":"exceso de riego"}` {
		t.Errorf("Diagnosis = %q", res.Diagnosis)
	}
}

func TestResultFromFieldsMissing(t *testing.T) {
	_, missing := decodeFields(t, `{"plant_type":"Rosa","health_status":null,"confidence":90}`)
	if !reflect.DeepEqual(missing, []string{"diagnosis", "health_status", "recommendations"}) {
		t.Errorf("missing = %v", missing)
	}
}

func TestResultFromFieldsOddOptionalShapes(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		check func(Result) bool
	}{
		{"pigmentation as string", `"pigmentation":"verde"`, func(r Result) bool { return r.Pigmentation == nil }},
		{"pigmentation as array", `"pigmentation":["verde"]`, func(r Result) bool { return r.Pigmentation == nil }},
		{"issues of objects", `"issues":[{"name":"x"}]`, func(r Result) bool { return r.Issues == nil }},
		{"issues mixed", `"issues":["roya",3,{"a":1}]`, func(r Result) bool { return reflect.DeepEqual(r.Issues, []string{"roya"}) }},
		{"indicators as string", `"pigmentation":{"leaf_color":"verde","indicators":"clorosis"}`, func(r Result) bool {
			return r.Pigmentation != nil && reflect.DeepEqual([]string(r.Pigmentation.Indicators), []string{"clorosis"})
		}},
		{"indicators as number", `"pigmentation":{"leaf_color":7,"indicators":5}`, func(r Result) bool {
			return r.Pigmentation != nil && r.Pigmentation.LeafColor == "7" && r.Pigmentation.Indicators == nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, missing := decodeFields(t, `{"plant_type":"Maíz","health_status":"Saludable","diagnosis":"d","recommendations":"r",`+tt.extra+`}`)
			if len(missing) != 0 {
				t.Fatalf("missing = %v", missing)
			}
			if !tt.check(res) {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}
}

func TestResultUnmarshalLenient(t *testing.T) {
	var r Result
	raw := `{"plant_type":"Tomate","health_status":"Requiere Atención","confidence":"78%",
"pigmentation":{"leaf_color":"amarillo","indicators":"clorosis"},"diagnosis":"d","recommendations":"r","issues":"hojas amarillas"}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.Confidence != 78 || r.Pigmentation == nil || len(r.Pigmentation.Indicators) != 1 || len(r.Issues) != 1 {
		t.Errorf("result = %+v", r)
	}
	if err := json.Unmarshal([]byte(`"texto"`), &r); err == nil {
		t.Error("a non-object result should fail")
	}
}

func TestPigmentationUnmarshalStoredRow(t *testing.T) {
	var p Pigmentation
	if err := json.Unmarshal([]byte(`{"leaf_color":"verde","indicators":["a","b"]}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.LeafColor != "verde" || len(p.Indicators) != 2 {
		t.Errorf("pigmentation = %+v", p)
	}
}
