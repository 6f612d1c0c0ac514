package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeParsing(t *testing.T) {
	good := []string{
		"2023-07-19T21:54:14.165300Z",
		"2023-07-19T21:54:14.163Z",
		"2023-07-19T21:52:02.000+00:00",
		"2023-07-19T21:52:02.123456+00:00",
		"2023-09-13T11:23:33+09:00",
	}

	for _, g := range good {
		_, err := ParseTimestamp(g)
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestTimeParsingLenient(t *testing.T) {
	assert := assert.New(t)

	ts, err := ParseTimestampLenient("2023-09-13T11:23:33+09:00")
	assert.NoError(err)
	assert.Equal(time.Date(2023, 9, 13, 2, 23, 33, 0, time.UTC), ts)

	ts, err = ParseTimestampLenient("2024-02-01 10:00:00")
	assert.NoError(err)
	assert.Equal(time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), ts)

	ts, err = ParseTimestampLenient("2024-02-01")
	assert.NoError(err)
	assert.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ts)

	_, err = ParseTimestampLenient("")
	assert.Error(err)
	_, err = ParseTimestampLenient("not a date")
	assert.Error(err)
}
