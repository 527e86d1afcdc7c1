// Package validation provides the chainable field constraint checker used by
// every model setter.
//
// A chain is bound to one value and one field name. Constraints are queued in
// the order they are called and evaluated by Validate, which reports the first
// violation only:
//
//	err := validation.Value("name", name).
//	    MaxLength(64).
//	    Pattern(`[a-z0-9-_]+`).
//	    Validate()
//
// Nullable is always evaluated before anything else: when the value is absent
// (nil, a nil pointer or a nil slice) a nullable chain passes without running
// its other constraints, while a non-nullable chain with at least one
// constraint fails with ConstraintNotNull.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samber/lo"
)

var patterns sync.Map // expr -> *regexp.Regexp

type rule struct {
	name string
	each bool
	str  func(string) string
	seq  func([]string) string
}

// Validator is a constraint chain bound to a single value.
type Validator struct {
	field    string
	raw      any
	nullable bool
	each     bool
	rules    []rule
}

// Value starts a constraint chain for the named field.
//
// Supported values are string, *string, []string and nil. Anything else fails
// Validate with ConstraintType as soon as a constraint is registered.
func Value(field string, v any) *Validator {
	return &Validator{field: field, raw: v}
}

// Nullable lets an absent value pass the whole chain.
func (v *Validator) Nullable() *Validator {
	v.nullable = true
	return v
}

// Each makes the string constraints registered after it apply to every element
// of a sequence value.
func (v *Validator) Each() *Validator {
	v.each = true
	return v
}

// MaxLength limits the number of characters.
func (v *Validator) MaxLength(n int) *Validator {
	return v.addString(ConstraintMaxLength, func(s string) string {
		if utf8.RuneCountInString(s) > n {
			return fmt.Sprintf("must be at most %d characters", n)
		}
		return ""
	})
}

// Pattern requires the whole value to match expr.
func (v *Validator) Pattern(expr string) *Validator {
	return v.addString(ConstraintPattern, func(s string) string {
		re, err := compile(expr)
		if err != nil {
			return fmt.Sprintf("pattern %q does not compile: %v", expr, err)
		}
		if !re.MatchString(s) {
			return fmt.Sprintf("must match %s", expr)
		}
		return ""
	})
}

// ValueIn requires a string value to be one of allowed.
func (v *Validator) ValueIn(allowed ...string) *Validator {
	return v.addString(ConstraintValueIn, func(s string) string {
		if !lo.Contains(allowed, s) {
			return fmt.Sprintf("must be one of [%s]", strings.Join(allowed, ", "))
		}
		return ""
	})
}

// ValuesIn requires every element of a sequence to be one of allowed.
func (v *Validator) ValuesIn(allowed ...string) *Validator {
	return v.addSeq(ConstraintValuesIn, func(items []string) string {
		if bad := lo.Without(items, allowed...); len(bad) > 0 {
			return fmt.Sprintf("contains %q, allowed values are [%s]", bad[0], strings.Join(allowed, ", "))
		}
		return ""
	})
}

// Unique rejects sequences holding the same element twice.
func (v *Validator) Unique() *Validator {
	return v.addSeq(ConstraintUnique, func(items []string) string {
		if dups := lo.FindDuplicates(items); len(dups) > 0 {
			return fmt.Sprintf("contains duplicate %q", dups[0])
		}
		return ""
	})
}

// Path requires an absolute filesystem path.
func (v *Validator) Path() *Validator {
	return v.addString(ConstraintPath, func(s string) string {
		if !strings.HasPrefix(s, "/") || strings.ContainsAny(s, "\x00\r\n") {
			return "must be an absolute path"
		}
		return ""
	})
}

// EndsWith requires a literal suffix.
func (v *Validator) EndsWith(suffix string) *Validator {
	return v.addString(ConstraintEndsWith, func(s string) string {
		if !strings.HasSuffix(s, suffix) {
			return fmt.Sprintf("must end with %q", suffix)
		}
		return ""
	})
}

// Validate runs the queued constraints and returns the first violation as a
// *ValidationError.
func (v *Validator) Validate() error {
	if len(v.rules) == 0 {
		return nil
	}

	str, seq, kind := normalize(v.raw)
	if kind == kindAbsent {
		if v.nullable {
			return nil
		}
		return NewError(v.field, ConstraintNotNull, v.raw, "must not be null")
	}
	if kind == kindUnsupported {
		return NewError(v.field, ConstraintType, v.raw, "unsupported value type %T", v.raw)
	}

	for _, r := range v.rules {
		if msg := r.check(str, seq, kind); msg != "" {
			return NewError(v.field, r.name, v.raw, "%s", msg)
		}
	}
	return nil
}

func (r rule) check(str string, seq []string, kind valueKind) string {
	switch {
	case r.seq != nil:
		if kind != kindSeq {
			return "must be a list"
		}
		return r.seq(seq)
	case r.each:
		if kind != kindSeq {
			return "must be a list"
		}
		for i, item := range seq {
			if msg := r.str(item); msg != "" {
				return fmt.Sprintf("element %d: %s", i, msg)
			}
		}
		return ""
	default:
		if kind != kindString {
			return "must be a string"
		}
		return r.str(str)
	}
}

func (v *Validator) addString(name string, fn func(string) string) *Validator {
	v.rules = append(v.rules, rule{name: name, each: v.each, str: fn})
	return v
}

func (v *Validator) addSeq(name string, fn func([]string) string) *Validator {
	v.rules = append(v.rules, rule{name: name, seq: fn})
	return v
}

type valueKind int

const (
	kindAbsent valueKind = iota
	kindString
	kindSeq
	kindUnsupported
)

func normalize(raw any) (string, []string, valueKind) {
	switch val := raw.(type) {
	case nil:
		return "", nil, kindAbsent
	case string:
		return val, nil, kindString
	case *string:
		if val == nil {
			return "", nil, kindAbsent
		}
		return *val, nil, kindString
	case []string:
		if val == nil {
			return "", nil, kindAbsent
		}
		return "", val, kindSeq
	default:
		return "", nil, kindUnsupported
	}
}

func compile(expr string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, err
	}
	actual, _ := patterns.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}
