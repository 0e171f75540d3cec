package classifier

import (
	"testing"

	"github.com/parlex-ai/parlex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelSet_TrainLoadRoundTrip(t *testing.T) {
	var ls labelSet

	artifact, err := ls.train([]core.IntentDefinition{{Name: "greet"}, {Name: "bye"}}, "fp-9")
	require.NoError(t, err)
	require.NoError(t, ls.load(artifact, "fp-9"))

	assert.Equal(t, "fp-9", ls.id())
	assert.Equal(t, []string{"greet", "bye"}, ls.labels())
}

func TestLabelSet_TrainRejectsEmptySet(t *testing.T) {
	var ls labelSet

	_, err := ls.train(nil, "fp")

	assert.Error(t, err)
}

func TestParseRanking_PlainArray(t *testing.T) {
	preds, err := parseRanking(`[{"name":"greet","confidence":0.9},{"name":"bye","confidence":0.2}]`, []string{"greet", "bye"})

	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "greet", preds[0].Name)
}

func TestParseRanking_ToleratesProseAndFences(t *testing.T) {
	content := "Here you go:\n```json\n[{\"name\":\"bye\",\"confidence\":0.7}]\n```"

	preds, err := parseRanking(content, []string{"greet", "bye"})

	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "bye", preds[0].Name)
}

func TestParseRanking_DropsUnknownLabelsAndClampsConfidence(t *testing.T) {
	content := `[{"name":"greet","confidence":1.7},{"name":"hallucinated","confidence":0.9},{"name":"bye","confidence":-0.1}]`

	preds, err := parseRanking(content, []string{"greet", "bye"})

	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, core.Prediction{Name: "greet", Confidence: 1}, preds[0])
	assert.Equal(t, core.Prediction{Name: "bye", Confidence: 0}, preds[1])
}

func TestParseRanking_ResortsOutOfOrderResponse(t *testing.T) {
	content := `[{"name":"bye","confidence":0.2},{"name":"greet","confidence":0.9}]`

	preds, err := parseRanking(content, []string{"greet", "bye"})

	require.NoError(t, err)
	assert.Equal(t, "greet", preds[0].Name)
}

func TestParseRanking_NoArrayFails(t *testing.T) {
	_, err := parseRanking("sorry, I cannot help", []string{"greet"})

	assert.Error(t, err)
}
