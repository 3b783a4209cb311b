package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := LoadScenario(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func TestReplayImmediate(t *testing.T) {
	s := load(t, `
input: [1, 2, 3, 4, 5, 6]
filters:
  - name: even
    kind: modulo
    param: 2
steps:
  - op: add
    value: 8
  - op: set
    filter: even
    param: 3
  - op: disable
    filter: even
`)
	records, output, err := Replay(s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 8}, output)

	require.NotEmpty(t, records)
	// additions are placed from the back of the input forward
	assert.Equal(t, []Record{
		{Step: -1, Op: "link", Kind: "added", Element: 6, Index: 0},
		{Step: -1, Op: "link", Kind: "added", Element: 4, Index: 0},
		{Step: -1, Op: "link", Kind: "added", Element: 2, Index: 0},
	}, records[:3])
	assert.Contains(t, records, Record{Step: 0, Op: "add", Kind: "added", Element: 8, Index: 3})

	var removed []int
	for _, r := range records {
		if r.Step == 1 && r.Kind == "removed" {
			removed = append(removed, r.Element)
		}
	}
	assert.ElementsMatch(t, []int{2, 4, 8}, removed)
}

func TestReplayDeferredFlushesOnTick(t *testing.T) {
	s := load(t, `
deferred: true
input: [1, 2]
filters:
  - name: even
    kind: modulo
    param: 2
  - name: small
    kind: max
    param: 100
steps:
  - op: add
    value: 8
  - op: add
    value: 10
`)
	records, output, err := Replay(s)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 8, 10}, output)

	var flushed []int
	for _, r := range records[1:] {
		assert.Equal(t, "flush", r.Op)
		flushed = append(flushed, r.Element)
	}
	assert.ElementsMatch(t, []int{8, 10}, flushed)
}

func TestReplayReenableFilter(t *testing.T) {
	s := load(t, `
input: [1, 5, 10, 20]
filters:
  - name: big
    kind: min
    param: 10
steps:
  - op: disable
    filter: big
  - op: insert
    index: 0
    value: 3
  - op: enable
    filter: big
  - op: enable
    filter: big
`)
	_, output, err := Replay(s)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, output)
}

func TestReplayInsertOutOfRange(t *testing.T) {
	s := load(t, `
input: [1]
steps:
  - op: insert
    index: 5
    value: 2
`)
	_, _, err := Replay(s)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestLoadScenarioRejectsInvalid(t *testing.T) {
	for name, src := range map[string]string{
		"unknown op":     "steps:\n  - op: shuffle\n",
		"unknown filter": "steps:\n  - op: set\n    filter: nope\n",
		"modulo zero":    "filters:\n  - name: z\n    kind: modulo\n    param: 0\n",
		"unknown kind":   "filters:\n  - name: z\n    kind: regex\n",
		"duplicate":      "filters:\n  - name: a\n    kind: min\n  - name: a\n    kind: max\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadScenario(strings.NewReader(src))
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}

	_, err := LoadScenario(strings.NewReader("inputs: [1]\n"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidScenario)
}
