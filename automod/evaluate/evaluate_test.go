package evaluate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"

	"github.com/stretchr/testify/assert"
)

func TestParseLabelList(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		raw    string
		labels []string
	}{
		{"", nil},
		{"[]", nil},
		{"  [ ]  ", nil},
		{"['t-and-s']", []string{"t-and-s"}},
		{`["Likely Bot Giveaway", 'Safe Link Giveaway']`, []string{"Likely Bot Giveaway", "Safe Link Giveaway"}},
		{`['Reuters, Ltd', "dog"]`, []string{"Reuters, Ltd", "dog"}},
		{`['it\'s']`, []string{"it's"}},
	}
	for _, f := range fixtures {
		labels, err := ParseLabelList(f.raw)
		assert.NoError(err, f.raw)
		assert.Equal(f.labels, labels, f.raw)
	}

	for _, bad := range []string{"t-and-s", "[t-and-s]", "['a' 'b']", "['unterminated]"} {
		_, err := ParseLabelList(bad)
		assert.Error(err, bad)
	}

	labels := []string{"a", "it's", `back\slash`}
	back, err := ParseLabelList(FormatLabelList(labels))
	assert.NoError(err)
	assert.Equal(labels, back)
}

func TestReadExpectations(t *testing.T) {
	assert := assert.New(t)

	raw := "URL,Labels\n" +
		"https://bsky.app/profile/a.example.com/post/1,[]\n" +
		"https://bsky.app/profile/a.example.com/post/2,\"['t-and-s', 'BBC']\"\n" +
		",['ignored']\n"
	exps, err := ReadExpectations(strings.NewReader(raw))
	assert.NoError(err)
	assert.Equal(2, len(exps))
	assert.Equal(0, exps[0].Labels.Len())
	assert.True(exps[1].Labels.Equal(engine.NewLabelSet("BBC", "t-and-s")))

	_, err = ReadExpectations(strings.NewReader("Link,Labels\nx,[]\n"))
	assert.Error(err)
	_, err = ReadExpectations(strings.NewReader("URL,Labels\nx,nope\n"))
	assert.ErrorContains(err, "line 2")
}

func TestTally(t *testing.T) {
	assert := assert.New(t)

	tally := NewTally()
	ok := tally.Add(engine.Result{URL: "a", Outcome: engine.OutcomeLabeled, Labels: engine.NewLabelSet("dog")}, engine.NewLabelSet("dog"))
	assert.True(ok)
	ok = tally.Add(engine.Result{URL: "b", Outcome: engine.OutcomeLabeled, Labels: engine.NewLabelSet()}, engine.NewLabelSet())
	assert.True(ok)
	ok = tally.Add(engine.Result{URL: "c", Outcome: engine.OutcomeLabeled, Labels: engine.NewLabelSet("t-and-s", "BBC")}, engine.NewLabelSet("BBC", "dog"))
	assert.False(ok)
	ok = tally.Add(engine.Result{URL: "d", Outcome: engine.OutcomeSkipped, SkipReason: engine.SkipFetchFailed}, engine.NewLabelSet())
	assert.False(ok)

	s := tally.Summary()
	assert.Equal(4, s.Total)
	assert.Equal(2, s.Correct)
	assert.Equal(3, s.Labeled)
	assert.Equal(1, s.Skipped)
	assert.Equal(0.5, s.Ratio)
	assert.InDelta(2.0/3.0, s.Precision, 0.0001)
	assert.Equal(map[string]int{"t-and-s": 1, "BBC": 1}, s.Mismatched)
	assert.Equal(map[string]int{"dog": 1}, s.Missed)
	assert.Equal(map[string]int{"fetch failed": 1}, s.SkipReasons)

	var buf bytes.Buffer
	assert.NoError(s.WriteText(&buf))
	assert.Contains(buf.String(), "produced 2 correct label assignments out of 4")
	assert.Contains(buf.String(), `skipped "fetch failed": 1`)

	assert.Equal(0.0, NewTally().Summary().Ratio)
}

func TestNDJSONWriter(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)
	w.Expected = ExpectationIndex([]Expectation{{URL: "a", Labels: engine.NewLabelSet("dog")}})

	var wg sync.WaitGroup
	for _, u := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Observe(engine.Result{
				URL:     u,
				Outcome: engine.OutcomeLabeled,
				Labels:  engine.NewLabelSet("dog"),
				Bot:     &engine.BotScore{FollowRatio: 5, IsBot: true},
			})
		}()
	}
	wg.Wait()

	lines := 0
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		lines++
		var rec struct {
			URL      string          `json:"url"`
			Labels   []string        `json:"labels"`
			Expected []string        `json:"expected"`
			Correct  *bool           `json:"correct"`
			Bot      engine.BotScore `json:"bot"`
		}
		assert.NoError(json.Unmarshal(sc.Bytes(), &rec))
		assert.Equal([]string{"dog"}, rec.Labels)
		assert.True(rec.Bot.IsBot)
		if rec.URL == "a" {
			assert.True(*rec.Correct)
			assert.Equal([]string{"dog"}, rec.Expected)
		} else {
			assert.Nil(rec.Correct)
		}
	}
	assert.Equal(3, lines)

	// an expected empty set is still written, and distinguished from no expectation
	buf.Reset()
	w.Expected = ExpectationIndex([]Expectation{{URL: "quiet", Labels: engine.NewLabelSet()}})
	w.Observe(engine.Result{URL: "quiet", Outcome: engine.OutcomeLabeled, Labels: engine.NewLabelSet()})
	w.Observe(engine.Result{URL: "other", Outcome: engine.OutcomeLabeled, Labels: engine.NewLabelSet()})
	sc = bufio.NewScanner(&buf)
	if assert.True(sc.Scan()) {
		var rec map[string]json.RawMessage
		assert.NoError(json.Unmarshal(sc.Bytes(), &rec))
		assert.Equal("[]", string(rec["expected"]))
		assert.Equal("true", string(rec["correct"]))
	}
	if assert.True(sc.Scan()) {
		var rec map[string]json.RawMessage
		assert.NoError(json.Unmarshal(sc.Bytes(), &rec))
		_, ok := rec["expected"]
		assert.False(ok)
	}
}
