package argcheck

import (
	"capstan/internal/schema"
)

// Order controls whether sanitization runs before or after validation.
type Order int

const (
	// SanitizeFirst runs the sanitizer before the validator. This is the
	// default: injection heuristics see raw input before normalization
	// touches it.
	SanitizeFirst Order = iota

	// ValidateFirst runs the validator before the sanitizer, for callers
	// that want type errors reported without sanitization noise.
	ValidateFirst
)

// CheckerOptions configure a checker.
type CheckerOptions struct {
	Sanitizer SanitizerOptions
	Order     Order
}

// Checker combines sanitization and validation into one pass over a
// capability call's arguments.
type Checker struct {
	validator *Validator
	sanitizer *Sanitizer
	order     Order
}

// NewChecker builds a checker for a schema, compiling the validator through
// the given cache. A nil cache compiles directly.
func NewChecker(s schema.Schema, cache *Cache, opts CheckerOptions) *Checker {
	var v *Validator
	if cache != nil {
		v = cache.Get(s)
	} else {
		v = Compile(s)
	}
	return CheckerFor(v, opts)
}

// CheckerFor wraps an already compiled validator. A nil validator checks
// sanitization only, for capabilities that declare no schema.
func CheckerFor(v *Validator, opts CheckerOptions) *Checker {
	return &Checker{
		validator: v,
		sanitizer: NewSanitizer(opts.Sanitizer),
		order:     opts.Order,
	}
}

// Result is the outcome of a check, reported as data. Success is true only
// when no validation error and no fatal sanitization issue occurred; Data
// then holds the normalized arguments. Errors carries validation failures,
// Rejected the fatal sanitization outcome, and Warnings any non-fatal
// sanitization findings regardless of success.
type Result struct {
	Success  bool
	Data     interface{}
	Errors   ValidationErrors
	Rejected *SanitizationError
	Warnings []SanitizationIssue

	failure error
}

// Failure returns the error of the phase that failed first under the
// checker's configured order, or nil on success.
func (r Result) Failure() error {
	return r.failure
}

// Check runs the configured pipeline over the arguments and reports the
// outcome as data. Both phases always run, so a caller sees validation
// errors and sanitization findings together. It never returns an error:
// callers that want one use MustCheck or Failure.
func (c *Checker) Check(args map[string]interface{}) Result {
	result := Result{}

	sanitize := func() bool {
		issues, err := c.sanitizer.Sanitize(args)
		result.Warnings = issues
		if err != nil {
			sanErr, ok := err.(*SanitizationError)
			if !ok {
				sanErr = &SanitizationError{}
			}
			result.Rejected = sanErr
			if result.failure == nil {
				result.failure = sanErr
			}
			return false
		}
		return true
	}
	validate := func() bool {
		if c.validator == nil {
			result.Data = args
			return true
		}
		data, errs := c.validator.Validate(args)
		if errs.HasErrors() {
			result.Errors = errs
			if result.failure == nil {
				result.failure = errs
			}
			return false
		}
		result.Data = data
		return true
	}

	var ok bool
	if c.order == ValidateFirst {
		ok = validate()
		ok = sanitize() && ok
	} else {
		ok = sanitize()
		ok = validate() && ok
	}

	result.Success = ok
	if !ok {
		result.Data = nil
	}
	return result
}

// MustCheck is the throwing variant of Check: it returns the normalized
// arguments or the first failure as an error.
func (c *Checker) MustCheck(args map[string]interface{}) (map[string]interface{}, error) {
	result := c.Check(args)
	if !result.Success {
		return nil, result.Failure()
	}
	data, _ := result.Data.(map[string]interface{})
	return data, nil
}
