// Package livecheck is the single entry point that turns editable text into a
// validation report: decode, validate, report, in that order.
package livecheck

import (
	"errors"
	"fmt"

	"github.com/githubnext/validata/internal/mapper"
	"github.com/githubnext/validata/pkg/codec"
	"github.com/githubnext/validata/pkg/report"
	"github.com/githubnext/validata/pkg/schema"
	"github.com/githubnext/validata/pkg/validator"
)

// Run checks text against s. Parse errors stop before validation and yield a
// single line; anything else that goes wrong yields a single "Error:" line.
// Run never panics and has no side effects.
func Run(text string, format codec.Format, s *schema.Schema) (r report.Report) {
	defer func() {
		if p := recover(); p != nil {
			r = report.FromUnexpected(fmt.Errorf("%v", p))
		}
	}()

	doc, err := codec.Decode(text, format)
	if err != nil {
		var perr *codec.ParseError
		if errors.As(err, &perr) {
			return report.FromParseError(perr)
		}
		return report.FromUnexpected(err)
	}

	result, err := validator.New().Validate(doc, s)
	if err != nil {
		return report.FromUnexpected(err)
	}
	if result.Valid() {
		return report.Report{}
	}

	r = report.FromFailures(result.Failures, s)
	locate(&r, text)
	return r
}

// locate fills in source positions. Lines keep zero positions when the text
// cannot be mapped.
func locate(r *report.Report, text string) {
	src, err := mapper.Parse([]byte(text))
	if err != nil {
		return
	}
	for i := range r.Lines {
		pos, ok := src.Locate(r.Lines[i].Path, anchorFor(r.Lines[i].Kind))
		if !ok {
			continue
		}
		r.Lines[i].Line = pos.Line
		r.Lines[i].Column = pos.Column
	}
}

func anchorFor(k validator.Kind) mapper.Anchor {
	switch k {
	case validator.KindMissing:
		return mapper.AnchorInsert
	case validator.KindExtraForbidden:
		return mapper.AnchorKey
	default:
		return mapper.AnchorValue
	}
}
