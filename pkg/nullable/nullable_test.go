package nullable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	DueDate Field[string] `json:"due_date"`
	Score   Field[int]    `json:"score"`
}

func TestField_AbsentNullValue(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": null}`), &p))

	assert.True(t, p.DueDate.Set)
	assert.False(t, p.DueDate.Valid)
	assert.Nil(t, p.DueDate.Ptr())

	assert.False(t, p.Score.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"score": 7}`), &p))
	assert.True(t, p.Score.Valid)
	assert.Equal(t, 7, *p.Score.Ptr())
}

func TestField_BadValue(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"score": "x"}`), &p))
}
