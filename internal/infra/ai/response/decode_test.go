package response

import (
	"errors"
	"reflect"
	"testing"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

const tomato = `{"plant_type":"Tomate (Solanum lycopersicum)","health_status":"Necesita atención","confidence":82,` +
	`"pigmentation":{"leaf_color":"verde con manchas amarillas","indicators":["clorosis","manchas"]},` +
	`"diagnosis":"Deficiencia de nitrógeno","recommendations":"Aplicar fertilizante","issues":["clorosis"]}`

func TestDecodeStrict(t *testing.T) {
	res, err := Decode(tomato)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.PlantType != "Tomate (Solanum lycopersicum)" || res.Confidence != 82 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Pigmentation == nil || len(res.Pigmentation.Indicators) != 2 {
		t.Errorf("pigmentation = %+v", res.Pigmentation)
	}
}

func TestDecodeWrappedEqualsStrict(t *testing.T) {
	strict, err := Decode(tomato)
	if err != nil {
		t.Fatalf("Decode strict: %v", err)
	}
	wrapped := []string{
		"Here you go: " + tomato,
		"```json\n" + tomato + "\n```",
		"Análisis:\n" + tomato + "\nEspero que ayude.",
	}
	for _, w := range wrapped {
		got, err := Decode(w)
		if err != nil {
			t.Fatalf("Decode(%q): %v", w, err)
		}
		if !reflect.DeepEqual(got, strict) {
			t.Errorf("wrapped result differs:\n got %+v\nwant %+v", got, strict)
		}
	}
}

func TestDecodeNoObject(t *testing.T) {
	for _, in := range []string{"", "lo siento, no puedo analizar la imagen", "} al revés {", "[1,2,3]"} {
		_, err := Decode(in)
		if !errors.Is(err, analysis.ErrMalformedResponse) {
			t.Errorf("Decode(%q) err = %v, want ErrMalformedResponse", in, err)
		}
	}
}

func TestDecodeGreedySpanWithTwoObjects(t *testing.T) {
	// earliest '{' to latest '}' spans both objects, which is not valid JSON
	in := `primero {"a":1} y luego {"b":2}`
	if _, err := Decode(in); !errors.Is(err, analysis.ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestDecodeMissingRequiredField(t *testing.T) {
	in := `{"plant_type":"Rosa","health_status":"Saludable","confidence":90,"diagnosis":"ok"}`
	_, err := Decode(in)
	if !errors.Is(err, analysis.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("expected the cause to be wrapped")
	}
}

func TestDecodeEmptyPlantTypeAllowed(t *testing.T) {
	in := `{"plant_type":"","health_status":"Desconocido","confidence":10,"diagnosis":"","recommendations":""}`
	res, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Pigmentation != nil || res.Issues != nil {
		t.Errorf("optional fields should stay absent: %+v", res)
	}
}

func TestDecodeLenientLists(t *testing.T) {
	in := `{"plant_type":"Helecho","health_status":"Saludable","confidence":"91","diagnosis":"sano","recommendations":"nada","issues":"ninguno","pigmentation":{"leaf_color":"verde","indicators":null}}`
	res, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(res.Issues, []string{"ninguno"}) {
		t.Errorf("Issues = %v", res.Issues)
	}
	if res.Confidence != 91 {
		t.Errorf("Confidence = %d", res.Confidence)
	}
}

func TestDecodeKeepsDiagnosisOnOddShapes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check func(analysis.Result) bool
	}{
		{
			"recommendations as list",
			`{"plant_type":"Rosa","health_status":"Saludable","diagnosis":"sana","recommendations":["regar","podar"]}`,
			func(r analysis.Result) bool { return r.Recommendations == "regar; podar" },
		},
		{
			"pigmentation as string",
			`{"plant_type":"Rosa","health_status":"Saludable","diagnosis":"sana","recommendations":"nada","pigmentation":"verde"}`,
			func(r analysis.Result) bool { return r.Pigmentation == nil },
		},
		{
			"issues as objects",
			"Respuesta: " + `{"plant_type":"Rosa","health_status":"Enferma","diagnosis":"roya","recommendations":"fungicida","issues":[{"name":"x"}]}`,
			func(r analysis.Result) bool { return r.Issues == nil && r.Diagnosis == "roya" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !tt.check(res) {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}
}

func TestDecodeNullIsMalformed(t *testing.T) {
	if _, err := Decode("null"); !errors.Is(err, analysis.ErrMalformedResponse) {
		t.Errorf("err = %v", err)
	}
}

func TestExtract(t *testing.T) {
	got, ok := Extract("x {\"a\":{\"b\":1}} y")
	if !ok || got != `{"a":{"b":1}}` {
		t.Errorf("Extract = %q, %v", got, ok)
	}
	if _, ok := Extract("sin llaves"); ok {
		t.Error("expected no span")
	}
}
