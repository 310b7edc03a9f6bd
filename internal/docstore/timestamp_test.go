package docstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_FixedWidth(t *testing.T) {
	whole := NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	frac := NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 500, time.UTC))
	later := NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 1500, time.UTC))

	a, err := json.Marshal(whole)
	require.NoError(t, err)
	b, err := json.Marshal(later)
	require.NoError(t, err)

	assert.Equal(t, `"2024-01-01T00:00:00.000000Z"`, string(a))
	assert.Len(t, b, len(a))
	assert.Less(t, string(a), string(b))
	assert.True(t, frac.Equal(whole.Time), "sub-microsecond precision is dropped")
}

func TestTimestamp_Unmarshal(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-06T07:08:09.000010Z"`), &ts))
	assert.Equal(t, 10*time.Microsecond, time.Duration(ts.Nanosecond()))

	require.NoError(t, json.Unmarshal([]byte(`"2024-05-06T09:08:09+02:00"`), &ts))
	assert.Equal(t, 7, ts.Hour())

	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
