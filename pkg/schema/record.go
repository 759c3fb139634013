package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/shortcutter/pkg/domain"
)

// StepRecord is the persisted shape of a step.
type StepRecord struct {
	Action     string   `json:"action" mapstructure:"action"`
	Duration   float64  `json:"duration,omitempty" mapstructure:"duration"`
	Target     string   `json:"target,omitempty" mapstructure:"target"`
	Confidence *float64 `json:"confidence,omitempty" mapstructure:"confidence"`
	Timeout    *float64 `json:"timeout,omitempty" mapstructure:"timeout"`
	X          int      `json:"x,omitempty" mapstructure:"x"`
	Y          int      `json:"y,omitempty" mapstructure:"y"`
}

// MacroRecord is the persisted shape of a macro.
type MacroRecord struct {
	Name  string       `json:"name" mapstructure:"name"`
	Combo string       `json:"combo" mapstructure:"combo"`
	Steps []StepRecord `json:"steps" mapstructure:"steps"`
}

// Decode turns a raw record into a Macro.
func Decode(raw map[string]any) (domain.Macro, error) {
	var rec MacroRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rec,
	})
	if err != nil {
		return domain.Macro{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Macro{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec.ToDomain()
}

// Unmarshal decodes a JSON-encoded record.
func Unmarshal(data []byte) (domain.Macro, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Macro{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return Decode(raw)
}

// Marshal encodes a macro as an indented JSON record.
func Marshal(m domain.Macro) ([]byte, error) {
	return json.MarshalIndent(FromDomain(m), "", "  ")
}

// ToDomain validates the record and converts it.
func (r MacroRecord) ToDomain() (domain.Macro, error) {
	var errs []error
	if r.Name == "" {
		errs = append(errs, &ValidationError{Key: "name", Reason: "required"})
	}
	if r.Combo == "" {
		errs = append(errs, &ValidationError{Key: "combo", Reason: "required"})
	}

	m := domain.Macro{
		Name:  r.Name,
		Combo: domain.Combo(r.Combo),
		Steps: make([]domain.Step, 0, len(r.Steps)),
	}
	for i, sr := range r.Steps {
		step, stepErrs := sr.toDomain(fmt.Sprintf("steps[%d]", i))
		errs = append(errs, stepErrs...)
		m.Steps = append(m.Steps, step)
	}

	if len(errs) > 0 {
		return domain.Macro{}, &AggregateError{Errors: errs}
	}
	return m, nil
}

func (r StepRecord) toDomain(path string) (domain.Step, []error) {
	var errs []error
	step := domain.Step{Action: domain.Action(r.Action)}

	if !step.Action.Known() {
		return step, []error{&ValidationError{
			Key: path + ".action", Reason: "unknown action", Value: r.Action, Err: domain.ErrUnknownAction,
		}}
	}

	switch step.Action {
	case domain.ActionDelay:
		if err := checkSeconds(path+".duration", r.Duration); err != nil {
			errs = append(errs, err)
		}
		step.Duration = seconds(r.Duration)

	case domain.ActionMoveToImage, domain.ActionCheckDuplicates:
		if r.Target == "" {
			errs = append(errs, &ValidationError{Key: path + ".target", Reason: "required"})
		}
		step.Target = r.Target
		step.Confidence = domain.DefaultConfidence
		if r.Confidence != nil {
			step.Confidence = *r.Confidence
		}
		if step.Confidence < 0 || step.Confidence > 1 || math.IsNaN(step.Confidence) {
			errs = append(errs, &ValidationError{Key: path + ".confidence", Reason: "must be within [0,1]", Value: step.Confidence})
		}
		if step.Action == domain.ActionMoveToImage {
			step.Timeout = domain.DefaultImageTimeout
			if r.Timeout != nil {
				if err := checkSeconds(path+".timeout", *r.Timeout); err != nil {
					errs = append(errs, err)
				}
				step.Timeout = seconds(*r.Timeout)
			}
		}

	case domain.ActionMoveTo:
		step.X, step.Y = r.X, r.Y
	}
	return step, errs
}

// FromDomain converts a macro back to its persisted shape.
func FromDomain(m domain.Macro) MacroRecord {
	rec := MacroRecord{
		Name:  m.Name,
		Combo: string(m.Combo),
		Steps: make([]StepRecord, 0, len(m.Steps)),
	}
	for _, s := range m.Steps {
		sr := StepRecord{Action: string(s.Action)}
		switch s.Action {
		case domain.ActionDelay:
			sr.Duration = s.Duration.Seconds()
		case domain.ActionMoveToImage:
			sr.Target = s.Target
			sr.Confidence = ptr(s.Confidence)
			sr.Timeout = ptr(s.Timeout.Seconds())
		case domain.ActionCheckDuplicates:
			sr.Target = s.Target
			sr.Confidence = ptr(s.Confidence)
		case domain.ActionMoveTo:
			sr.X, sr.Y = s.X, s.Y
		}
		rec.Steps = append(rec.Steps, sr)
	}
	return rec
}

// maxSeconds is the first value that no longer fits a time.Duration.
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

func checkSeconds(key string, s float64) error {
	switch {
	case s < 0 || math.IsNaN(s):
		return &ValidationError{Key: key, Reason: "must be non-negative", Value: s}
	case s >= maxSeconds:
		return &ValidationError{Key: key, Reason: "too large", Value: s}
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func ptr[T any](v T) *T {
	return &v
}
