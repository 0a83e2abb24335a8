package understanding

import (
	"errors"
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"ZeroConfigAssistant/internal/entity"
)

const (
	// DefaultConfidence is used when the model omits a confidence score.
	DefaultConfidence = 0.5
	// UnparsedConfidence is used when the model reply is not an enrichment object.
	UnparsedConfidence = 0.3
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNoEnrichment = errors.New("cannot find valid JSON object in response")

// ParseEnrichment reads the outermost JSON object from raw. Model replies are
// sometimes wrapped in markdown fences or prose, so anything before the first
// "{" and after the last "}" is ignored.
func ParseEnrichment(raw string) (*entity.Enrichment, error) {
	jsonStart := strings.Index(raw, "{")
	jsonEnd := strings.LastIndex(raw, "}")

	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return nil, ErrNoEnrichment
	}

	var enrichment entity.Enrichment
	if err := json.Unmarshal([]byte(raw[jsonStart:jsonEnd+1]), &enrichment); err != nil {
		return nil, err
	}

	enrichment.Params = normalizeParams(enrichment.Params)

	return &enrichment, nil
}

// Merge overlays the enrichment found in raw on top of the provisional
// classification. Neither input is modified.
//
// When raw holds no usable enrichment the provisional classification is
// returned as is with confidence UnparsedConfidence.
func Merge(provisional entity.Classification, raw string) entity.FinalResult {
	enrichment, err := ParseEnrichment(raw)
	if err != nil {
		return entity.FinalResult{
			CommandType: provisional.CommandType,
			Params:      provisional.Params.Clone(),
			Suggestions: []string{},
			Confidence:  UnparsedConfidence,
			Processed:   true,
		}
	}

	commandType := provisional.CommandType
	if enrichment.CommandType != "" {
		commandType = enrichment.CommandType
	}

	params := provisional.Params.Clone()
	for k, v := range enrichment.Params {
		params[k] = v
	}

	suggestions := []string{}
	if len(enrichment.Suggestions) > 0 {
		suggestions = append(suggestions, enrichment.Suggestions...)
	}

	confidence := DefaultConfidence
	if enrichment.Confidence != nil {
		confidence = clamp(*enrichment.Confidence)
	}

	return entity.FinalResult{
		CommandType: commandType,
		Params:      params,
		Suggestions: suggestions,
		Confidence:  confidence,
		Processed:   true,
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultConfidence
	}
	return math.Max(0, math.Min(1, v))
}

// normalizeParams maps decoded JSON values back to the types the extractor
// produces: whole numbers become int and string arrays become []string.
func normalizeParams(params entity.Params) entity.Params {
	out := make(entity.Params, len(params))

	for k, v := range params {
		switch val := v.(type) {
		case float64:
			if val == math.Trunc(val) && math.Abs(val) < math.MaxInt32 {
				out[k] = int(val)
				continue
			}
			out[k] = val
		case []any:
			out[k] = stringsOrAny(val)
		default:
			out[k] = val
		}
	}

	return out
}

func stringsOrAny(values []any) any {
	strs := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return values
		}
		strs = append(strs, s)
	}
	return strs
}
