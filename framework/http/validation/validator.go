package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ── Errors ───────────────────────────────────────────────────────────────────

// Errors holds validation errors — mirrors Laravel's MessageBag.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// ── Rules ────────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|integer|min:18"}
type Rules map[string]string

// ── Engine ───────────────────────────────────────────────────────────────────

// engine is the shared go-playground validator behind every rule that has a
// tag equivalent. A single instance serves all requests: it is safe for
// concurrent use and caches compiled rules.
var engine = newEngine()

var alphaDash = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func newEngine() *validator.Validate {
	v := validator.New()

	// Laravel's integer accepts a leading sign; the stock number tag is
	// digits only.
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil
	})

	// Laravel's boolean also accepts yes/no.
	_ = v.RegisterValidation("boolean", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "true", "false", "1", "0", "yes", "no":
			return true
		}
		return false
	})

	_ = v.RegisterValidation("alpha_dash", func(fl validator.FieldLevel) bool {
		return alphaDash.MatchString(fl.Field().String())
	})

	return v
}

// tagFor translates a pipe rule into the engine tag that evaluates it.
// Returns false for rules the engine has no equivalent for.
func tagFor(rule, param string) (string, bool) {
	switch rule {
	case "integer", "boolean", "alpha_dash":
		return rule, true // custom tags registered in newEngine
	case "email", "numeric", "alpha", "uuid", "ip":
		return rule, true
	case "alpha_num":
		return "alphanum", true
	case "url":
		// Laravel's url means a web URL; the plain url tag accepts any scheme.
		return "http_url", true
	case "min", "max":
		if _, err := strconv.Atoi(param); err != nil {
			return "", false
		}
		return rule + "=" + param, true
	case "size":
		if _, err := strconv.Atoi(param); err != nil {
			return "", false
		}
		return "len=" + param, true
	case "between":
		lo, hi, found := strings.Cut(param, ",")
		lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
		if !found {
			return "", false
		}
		if _, err := strconv.Atoi(lo); err != nil {
			return "", false
		}
		if _, err := strconv.Atoi(hi); err != nil {
			return "", false
		}
		return "min=" + lo + ",max=" + hi, true
	case "in":
		return "oneof=" + strings.ReplaceAll(param, ",", " "), true
	}
	return "", false
}

// ── Validator ────────────────────────────────────────────────────────────────

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator — mirrors Validator::make($data, $rules).
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	if v.ran {
		return
	}
	v.ran = true

	for field, ruleStr := range v.rules {
		value := v.data[field]

		for _, rule := range strings.Split(ruleStr, "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// Parse rule name and optional parameter: min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			if !v.applyRule(field, value, name, param) {
				break // stop on first failure (like Laravel's bail behaviour)
			}
		}
	}
}

// applyRule returns true if the rule passes. Returning false stops the
// remaining rules for the field, whether or not an error was recorded.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	// Control rules steer the loop instead of checking the value.
	switch rule {
	case "string":
		// Form input is already a string.
		return true
	case "nullable", "sometimes":
		// Empty or absent fields skip the remaining rules silently.
		return value != ""
	}

	if tag, ok := tagFor(rule, param); ok {
		if err := engine.Var(value, tag); err != nil {
			v.errors.add(field, message(field, rule, param))
			return false
		}
		return true
	}

	// Rules with no engine equivalent keep hand-rolled checks. The engine's
	// required tag is restricted from replacement, and Laravel's treats
	// whitespace-only input as missing, so it lives here.
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "not_in":
		for _, d := range strings.Split(param, ",") {
			if strings.TrimSpace(d) == value {
				v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
				return false
			}
		}

	case "confirmed":
		// Expects data[field+"_confirmation"] to match.
		if v.data[field+"_confirmation"] != value {
			v.errors.add(field, fmt.Sprintf("The %s confirmation does not match.", field))
			return false
		}

	case "same":
		if v.data[param] != value {
			v.errors.add(field, fmt.Sprintf("The %s and %s must match.", field, param))
			return false
		}

	case "different":
		if v.data[param] == value {
			v.errors.add(field, fmt.Sprintf("The %s and %s must be different.", field, param))
			return false
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s format is invalid.", field))
			return false
		}

	case "gt", "gte", "lt", "lte":
		val, _ := strconv.ParseFloat(value, 64)
		bound, _ := strconv.ParseFloat(param, 64)
		var ok bool
		var word string
		switch rule {
		case "gt":
			ok, word = val > bound, "greater than"
		case "gte":
			ok, word = val >= bound, "greater than or equal to"
		case "lt":
			ok, word = val < bound, "less than"
		case "lte":
			ok, word = val <= bound, "less than or equal to"
		}
		if !ok {
			v.errors.add(field, fmt.Sprintf("The %s must be %s %s.", field, word, param))
			return false
		}
	}

	return true
}

// message renders the Laravel-style failure message for an engine-backed rule.
func message(field, rule, param string) string {
	switch rule {
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "numeric":
		return fmt.Sprintf("The %s must be a number.", field)
	case "integer":
		return fmt.Sprintf("The %s must be an integer.", field)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", field)
	case "alpha":
		return fmt.Sprintf("The %s may only contain letters.", field)
	case "alpha_num":
		return fmt.Sprintf("The %s may only contain letters and numbers.", field)
	case "alpha_dash":
		return fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field)
	case "uuid":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "ip":
		return fmt.Sprintf("The %s must be a valid IP address.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
	case "size":
		return fmt.Sprintf("The %s must be %s characters.", field, param)
	case "between":
		lo, hi, _ := strings.Cut(param, ",")
		return fmt.Sprintf("The %s must be between %s and %s characters.",
			field, strings.TrimSpace(lo), strings.TrimSpace(hi))
	case "in":
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return fmt.Sprintf("The %s is invalid.", field)
}
