package timing

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

type phaseDocument struct {
	Duration time.Duration `mapstructure:"duration"`
	Delay    time.Duration `mapstructure:"delay"`
}

type concealDocument struct {
	Settle time.Duration `mapstructure:"settle"`
	Grace  time.Duration `mapstructure:"grace"`
	Offset string        `mapstructure:"offset"`
}

type cycleDocument struct {
	ExitSettle   time.Duration `mapstructure:"exit_settle"`
	ReEntryDelay time.Duration `mapstructure:"re_entry_delay"`
}

type transitionsDocument struct {
	Opacity   time.Duration `mapstructure:"opacity"`
	Transform time.Duration `mapstructure:"transform"`
	Easing    string        `mapstructure:"easing"`
}

// document mirrors the YAML file. Durations accept Go syntax ("1.6s", "60ms")
// or bare numbers, read as milliseconds.
type document struct {
	Phases      map[string]phaseDocument `mapstructure:"phases"`
	Conceal     concealDocument          `mapstructure:"conceal"`
	Cycle       cycleDocument            `mapstructure:"cycle"`
	Transitions transitionsDocument      `mapstructure:"transitions"`
}

func defaultDocument() document {
	def := Default()
	doc := document{
		Phases: make(map[string]phaseDocument),
		Conceal: concealDocument{
			Settle: def.concealSettle,
			Grace:  def.concealGrace,
			Offset: def.concealOffset,
		},
		Cycle: cycleDocument{
			ExitSettle:   def.exitSettle,
			ReEntryDelay: def.reEntryDelay,
		},
		Transitions: transitionsDocument{
			Opacity:   def.transitions.Opacity,
			Transform: def.transitions.Transform,
			Easing:    def.transitions.Easing,
		},
	}
	for phase, spec := range def.phases {
		doc.Phases[string(phase)] = phaseDocument{Duration: spec.Duration, Delay: spec.Delay}
	}
	return doc
}

// Load reads a YAML timing file and merges it over the defaults.
// A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read timing config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML timing data and merges it over the defaults.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse timing yaml: %w", err)
	}
	return FromMap(raw)
}

// FromMap decodes an already parsed document (YAML, JSON or flags) over the defaults.
func FromMap(raw map[string]any) (*Config, error) {
	doc := defaultDocument()
	if len(raw) > 0 {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &doc,
			ErrorUnused: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				scalarPhaseHook,
				millisecondsHook,
				mapstructure.StringToTimeDurationHookFunc(),
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build decoder: %w", err)
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("failed to decode timing config: %w", err)
		}
	}

	phases := make(map[Phase]Spec, len(doc.Phases))
	for name, p := range doc.Phases {
		phases[Phase(name)] = Spec{Duration: p.Duration, Delay: p.Delay}
	}

	return New(phases,
		WithConceal(doc.Conceal.Settle, doc.Conceal.Grace, doc.Conceal.Offset),
		WithCycle(doc.Cycle.ExitSettle, doc.Cycle.ReEntryDelay),
		WithTransitions(Transitions{
			Opacity:   doc.Transitions.Opacity,
			Transform: doc.Transitions.Transform,
			Easing:    doc.Transitions.Easing,
		}),
	)
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	phaseDocType = reflect.TypeOf(phaseDocument{})
)

// scalarPhaseHook lets "title_in: 1600ms" stand for "title_in: {duration: 1600ms}".
func scalarPhaseHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != phaseDocType || from.Kind() == reflect.Map {
		return data, nil
	}
	return map[string]any{"duration": data}, nil
}

func millisecondsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case uint64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	}
	return data, nil
}
