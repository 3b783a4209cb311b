package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/delaneyj/observed/collection"
	"github.com/delaneyj/observed/filtered"
	"github.com/delaneyj/observed/frame"
	"github.com/delaneyj/observed/observable"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("invalid scenario")

type FilterSpec struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"` // modulo, min or max
	Param int    `yaml:"param"`
}

type Step struct {
	Op     string `yaml:"op"` // add, insert, remove, set, disable, enable, tick
	Value  int    `yaml:"value"`
	Index  int    `yaml:"index"`
	Filter string `yaml:"filter"`
	Param  int    `yaml:"param"`
}

type Scenario struct {
	Deferred bool         `yaml:"deferred"`
	Input    []int        `yaml:"input"`
	Filters  []FilterSpec `yaml:"filters"`
	Steps    []Step       `yaml:"steps"`
}

// Record is one event observed on the filtered output.
type Record struct {
	Step    int
	Op      string
	Kind    string
	Element int
	Index   int
}

func LoadScenario(r io.Reader) (*Scenario, error) {
	s := &Scenario{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) Validate() error {
	names := map[string]bool{}
	for _, f := range s.Filters {
		if f.Name == "" {
			return fmt.Errorf("%w: filter without a name", ErrInvalidScenario)
		}
		if names[f.Name] {
			return fmt.Errorf("%w: duplicate filter %q", ErrInvalidScenario, f.Name)
		}
		names[f.Name] = true
		switch f.Kind {
		case "min", "max":
		case "modulo":
			if f.Param == 0 {
				return fmt.Errorf("%w: filter %q: modulo by zero", ErrInvalidScenario, f.Name)
			}
		default:
			return fmt.Errorf("%w: filter %q: unknown kind %q", ErrInvalidScenario, f.Name, f.Kind)
		}
	}
	for i, st := range s.Steps {
		switch st.Op {
		case "add", "insert", "remove", "tick":
		case "set", "disable", "enable":
			if !names[st.Filter] {
				return fmt.Errorf("%w: step %d: unknown filter %q", ErrInvalidScenario, i, st.Filter)
			}
		default:
			return fmt.Errorf("%w: step %d: unknown op %q", ErrInvalidScenario, i, st.Op)
		}
	}
	return nil
}

type namedFilter struct {
	filter filtered.Filter[int]
	param  *observable.Value[int]
}

func newFilter(spec FilterSpec) namedFilter {
	param := observable.New(spec.Param)
	var fn func(v, p int) bool
	switch spec.Kind {
	case "modulo":
		fn = func(v, p int) bool { return p != 0 && v%p == 0 }
	case "min":
		fn = func(v, p int) bool { return v >= p }
	case "max":
		fn = func(v, p int) bool { return v <= p }
	}
	return namedFilter{
		filter: filtered.NewParam(param, fn),
		param:  param,
	}
}

// Replay runs the scenario against a linked filtered list and returns every
// output event together with the final output.
func Replay(s *Scenario) ([]Record, []int, error) {
	lp := frame.NewLoop()
	input := collection.NewList(s.Input...)
	filters := collection.NewList[filtered.Filter[int]]()
	byName := map[string]namedFilter{}
	for _, spec := range s.Filters {
		nf := newFilter(spec)
		byName[spec.Name] = nf
		filters.Add(nf.filter)
	}

	opts := []filtered.Option{filtered.WithScheduler(lp)}
	if !s.Deferred {
		opts = append(opts, filtered.WithImmediate())
	}
	fl := filtered.New(input, filters, opts...)

	var records []Record
	step, op := -1, "link"
	fl.Output().Added().Add(func(e collection.Event[int]) {
		records = append(records, Record{Step: step, Op: op, Kind: "added", Element: e.Element, Index: e.Index})
	})
	fl.Output().Removed().Add(func(e collection.Event[int]) {
		records = append(records, Record{Step: step, Op: op, Kind: "removed", Element: e.Element, Index: e.Index})
	})
	fl.Link()
	defer fl.Unlink()

	for i, st := range s.Steps {
		step, op = i, st.Op
		switch st.Op {
		case "add":
			input.Add(st.Value)
		case "insert":
			if st.Index < 0 || st.Index > input.Len() {
				return records, fl.Output().Items(), fmt.Errorf("%w: step %d: insert index %d out of range", ErrInvalidScenario, i, st.Index)
			}
			input.Insert(st.Index, st.Value)
		case "remove":
			input.Remove(st.Value)
		case "set":
			byName[st.Filter].param.Set(st.Param)
		case "disable":
			filters.Remove(byName[st.Filter].filter)
		case "enable":
			nf := byName[st.Filter]
			if !filters.Contains(nf.filter) {
				filters.Add(nf.filter)
			}
		case "tick":
			lp.Tick()
		}
	}
	step, op = len(s.Steps), "flush"
	lp.Tick()

	return records, fl.Output().Items(), nil
}
