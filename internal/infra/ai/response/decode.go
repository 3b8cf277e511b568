// Package response turns a model completion into an analysis.Result.
//
// Models do not always return bare JSON, so decoding runs in two stages: the whole
// text is parsed strictly first, and only when that fails is the span from the
// earliest '{' to the latest '}' parsed instead.
package response

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
)

// Decode parses content and checks the four required text fields. Beyond that no
// shape is enforced: values of unexpected types are coerced or dropped.
// Every failure is reported as analysis.ErrMalformedResponse.
func Decode(content string) (analysis.Result, error) {
	fields, err := parse(content)
	if err != nil {
		return analysis.Result{}, analysis.Malformed(err)
	}
	res, missing := analysis.ResultFromFields(fields)
	if len(missing) > 0 {
		return analysis.Result{}, analysis.Malformed(fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	return res, nil
}

// Extract returns the greedy {...} span of s: earliest '{' through latest '}'.
func Extract(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, '}')
	if end < start {
		return "", false
	}
	return s[start : end+1], true
}

func parse(content string) (map[string]json.RawMessage, error) {
	var strict map[string]json.RawMessage
	strictErr := json.Unmarshal([]byte(content), &strict)
	if strictErr == nil && strict != nil {
		return strict, nil
	}

	span, ok := Extract(content)
	if !ok {
		if strictErr == nil {
			return nil, fmt.Errorf("response is json null")
		}
		return nil, fmt.Errorf("no json object in response: %w", strictErr)
	}
	var embedded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &embedded); err != nil {
		return nil, fmt.Errorf("parsing embedded json: %w", err)
	}
	return embedded, nil
}
