package understanding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ZeroConfigAssistant/internal/entity"
)

const apology = "I'm sorry, the Gemini service is currently unavailable. Here is a basic answer based on predefined rules."

func TestMerge_EnrichmentOverridesProvisional(t *testing.T) {
	provisional := entity.Classification{
		CommandType: entity.CommandCalendarBlock,
		Params:      entity.Params{"duration": 2, "project": "Apollo"},
	}
	raw := `{"commandType":"","params":{"duration":3,"date":"tomorrow"},"suggestions":["Add a reminder"],"confidence":0.9}`

	got := Merge(provisional, raw)

	assert.Equal(t, entity.FinalResult{
		CommandType: entity.CommandCalendarBlock,
		Params:      entity.Params{"duration": 3, "project": "Apollo", "date": "tomorrow"},
		Suggestions: []string{"Add a reminder"},
		Confidence:  0.9,
		Processed:   true,
	}, got)
	assert.Equal(t, 2, provisional.Params["duration"], "provisional must not be mutated")
}

func TestMerge_CommandTypeFromEnrichment(t *testing.T) {
	provisional := entity.Classification{CommandType: "", Params: entity.Params{}}

	got := Merge(provisional, `{"commandType":"calendar_event","params":{"emails":["a@x.com","b@y.com"]}}`)

	assert.Equal(t, entity.CommandCalendarEvent, got.CommandType)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, got.Params["emails"])
	assert.Equal(t, DefaultConfidence, got.Confidence)
	assert.Equal(t, []string{}, got.Suggestions)
}

func TestMerge_FencedReply(t *testing.T) {
	provisional := entity.Classification{CommandType: entity.CommandEmailSummary, Params: entity.Params{}}
	raw := "```json\n{\"params\":{\"from\":\"Paul\"},\"confidence\":0.8}\n```"

	got := Merge(provisional, raw)

	assert.Equal(t, entity.CommandEmailSummary, got.CommandType)
	assert.Equal(t, "Paul", got.Params["from"])
	assert.Equal(t, 0.8, got.Confidence)
}

func TestMerge_ParseFailure(t *testing.T) {
	provisional := entity.Classification{
		CommandType: entity.CommandEmailSummary,
		Params:      entity.Params{"from": "Paul"},
	}

	for name, raw := range map[string]string{
		"apology":   apology,
		"malformed": `{"commandType": "calendar_block", "params": {`,
		"null":      "null",
		"array":     `["a", "b"]`,
		"empty":     "",
		"bad types": `{"commandType": 5}`,
	} {
		t.Run(name, func(t *testing.T) {
			got := Merge(provisional, raw)

			assert.Equal(t, entity.FinalResult{
				CommandType: entity.CommandEmailSummary,
				Params:      entity.Params{"from": "Paul"},
				Suggestions: []string{},
				Confidence:  UnparsedConfidence,
				Processed:   true,
			}, got)
		})
	}
}

func TestMerge_UnrecognizedAndFailed(t *testing.T) {
	got := Merge(entity.Classification{CommandType: "", Params: entity.Params{}}, apology)

	assert.Equal(t, "", got.CommandType)
	assert.Empty(t, got.Params)
	assert.NotNil(t, got.Params)
	assert.Equal(t, []string{}, got.Suggestions)
	assert.Equal(t, 0.3, got.Confidence)
}

func TestMerge_ConfidenceClamped(t *testing.T) {
	provisional := entity.Classification{Params: entity.Params{}}

	assert.Equal(t, 1.0, Merge(provisional, `{"confidence": 1.7}`).Confidence)
	assert.Equal(t, 0.0, Merge(provisional, `{"confidence": -0.2}`).Confidence)
	assert.Equal(t, 0.0, Merge(provisional, `{"confidence": 0}`).Confidence)
}

func TestMerge_Idempotent(t *testing.T) {
	provisional := entity.Classification{
		CommandType: entity.CommandCalendarEvent,
		Params:      entity.Params{"eventType": "lunch", "emails": []string{"a@x.com"}},
	}
	first := Merge(provisional, `{"params":{"time":"12:00","weekday":"monday"},"suggestions":["Invite Bob"],"confidence":0.75}`)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second := Merge(entity.Classification{CommandType: first.CommandType, Params: first.Params}, string(encoded))

	assert.Equal(t, first, second)
}

func TestParseEnrichment(t *testing.T) {
	enrichment, err := ParseEnrichment(`noise {"commandType":"email_summary","params":{"ratio":1.5}} trailing`)
	require.NoError(t, err)

	assert.Equal(t, entity.CommandEmailSummary, enrichment.CommandType)
	assert.Equal(t, 1.5, enrichment.Params["ratio"])
	assert.Nil(t, enrichment.Confidence)

	_, err = ParseEnrichment("no json here")
	assert.ErrorIs(t, err, ErrNoEnrichment)
}
