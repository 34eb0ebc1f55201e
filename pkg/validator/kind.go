package validator

import (
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// Kind is the short machine-readable name of a schema failure.
type Kind string

const (
	KindMissing         Kind = "missing"
	KindTypeMismatch    Kind = "type_mismatch"
	KindExtraForbidden  Kind = "extra_forbidden"
	KindEnum            Kind = "enum"
	KindLiteral         Kind = "literal_error"
	KindPatternMismatch Kind = "string_pattern_mismatch"
	KindFormat          Kind = "format"
	KindStringTooShort  Kind = "string_too_short"
	KindStringTooLong   Kind = "string_too_long"
	KindTooShort        Kind = "too_short"
	KindTooLong         Kind = "too_long"
	KindTooSmall        Kind = "too_small"
	KindTooBig          Kind = "too_big"
	KindMultipleOf      Kind = "multiple_of"
	KindUniqueItems     Kind = "unique_items"
	KindUnionMismatch   Kind = "union_mismatch"
	KindValueError      Kind = "value_error"
)

const (
	missingMessage = "Field required"
	extraMessage   = "Extra inputs are not permitted"
)

// classify maps a validator error kind to its failure kind.
func classify(k jsonschema.ErrorKind) Kind {
	switch k.(type) {
	case *kind.Required, *kind.Dependency, *kind.DependentRequired:
		return KindMissing
	case *kind.Type:
		return KindTypeMismatch
	case *kind.AdditionalProperties, *kind.FalseSchema:
		return KindExtraForbidden
	case *kind.Enum:
		return KindEnum
	case *kind.Const:
		return KindLiteral
	case *kind.Pattern:
		return KindPatternMismatch
	case *kind.Format:
		return KindFormat
	case *kind.MinLength:
		return KindStringTooShort
	case *kind.MaxLength:
		return KindStringTooLong
	case *kind.MinItems, *kind.MinProperties, *kind.MinContains, *kind.Contains:
		return KindTooShort
	case *kind.MaxItems, *kind.MaxProperties, *kind.MaxContains, *kind.AdditionalItems:
		return KindTooLong
	case *kind.Minimum, *kind.ExclusiveMinimum:
		return KindTooSmall
	case *kind.Maximum, *kind.ExclusiveMaximum:
		return KindTooBig
	case *kind.MultipleOf:
		return KindMultipleOf
	case *kind.UniqueItems:
		return KindUniqueItems
	case *kind.AnyOf, *kind.OneOf:
		return KindUnionMismatch
	default:
		return KindValueError
	}
}
