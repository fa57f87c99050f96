// Package spec defines the declarative test and sweep specifications consumed
// by the harness, and the candidate sort contract they reference.
package spec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSpec is wrapped by every validation failure.
var ErrInvalidSpec = errors.New("invalid specification")

// Sorter is a candidate routine. Sort must leave values in non-decreasing
// order and must return.
type Sorter interface {
	Sort(values []int)
}

// SortFunc adapts a plain function to Sorter.
type SortFunc func(values []int)

// Sort calls f(values).
func (f SortFunc) Sort(values []int) { f(values) }

// TestSpec describes one class of trials.
type TestSpec struct {
	Name     string
	Sort     Sorter `validate:"required"`
	Trials   int    `validate:"gte=0"`
	Length   int    `validate:"gte=0"`
	Min      int
	Max      int `validate:"gtefield=Min"`
	Critical bool
}

// SweepSpec describes a size sweep. MaxLength is an exclusive cap on the
// generated length; zero defers to the harness cap.
type SweepSpec struct {
	Name      string
	Sort      Sorter `validate:"required"`
	Start     int    `validate:"gte=0"`
	Step      int    `validate:"gte=1"`
	MaxLength int    `validate:"gte=0"`
	Min       int
	Max       int `validate:"gtefield=Min"`
	Critical  bool
}

var validate = validator.New()

// NewTestSpec builds and validates a TestSpec with Critical unset.
func NewTestSpec(sort Sorter, trials, length, min, max int) (TestSpec, error) {
	s := TestSpec{Sort: sort, Trials: trials, Length: length, Min: min, Max: max}
	return s, s.Validate()
}

// NewCriticalTestSpec is NewTestSpec with boundary sentinels enabled.
func NewCriticalTestSpec(sort Sorter, trials, length, min, max int) (TestSpec, error) {
	s := TestSpec{Sort: sort, Trials: trials, Length: length, Min: min, Max: max, Critical: true}
	return s, s.Validate()
}

// NewSweepSpec builds and validates a SweepSpec.
func NewSweepSpec(sort Sorter, start, step, min, max int, critical bool) (SweepSpec, error) {
	s := SweepSpec{Sort: sort, Start: start, Step: step, Min: min, Max: max, Critical: critical}
	return s, s.Validate()
}

// Validate checks the structural invariants of the specification.
func (s TestSpec) Validate() error {
	return check(s.Name, validate.Struct(s))
}

// Validate checks the structural invariants of the sweep.
func (s SweepSpec) Validate() error {
	if err := check(s.Name, validate.Struct(s)); err != nil {
		return err
	}
	if s.MaxLength > 0 && s.Start >= s.MaxLength {
		return fmt.Errorf("%w: sweep %q: start %d is not below max_length %d", ErrInvalidSpec, s.Name, s.Start, s.MaxLength)
	}
	return nil
}

// TestSpecAt synthesizes the single-trial specification for one sweep step.
func (s SweepSpec) TestSpecAt(length int) TestSpec {
	return TestSpec{
		Name:     s.Name,
		Sort:     s.Sort,
		Trials:   1,
		Length:   length,
		Min:      s.Min,
		Max:      s.Max,
		Critical: s.Critical,
	}
}

// check converts validator output into a single readable error.
func check(name string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	if name == "" {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %q: %s", ErrInvalidSpec, name, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gtefield":
		return fmt.Sprintf("%s %v must be >= %s", field, fe.Value(), strings.ToLower(fe.Param()))
	case "gte":
		return fmt.Sprintf("%s %v must be >= %s", field, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
