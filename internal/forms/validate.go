package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-firmsite/entities"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{6,18}[0-9]$`)

// Values is a submission keyed by field id.
type Values map[string]any

// Validate checks values against the form definition and returns the
// normalized data: strings trimmed, numbers parsed, repeater rows without
// blanks, keys of unknown fields dropped. The error is a validation.Errors
// keyed by field id.
func Validate(def entities.FormDefinition, values Values) (map[string]any, error) {
	data := make(map[string]any, len(def.Fields))
	errs := validation.Errors{}
	for _, field := range def.Fields {
		value, err := normalize(field, values[field.ID])
		if err == nil {
			err = validation.Validate(value, rules(field)...)
		}
		if err != nil {
			errs[field.ID] = err
			continue
		}
		if value != nil {
			data[field.ID] = value
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return data, nil
}

func rules(field entities.FormField) []validation.Rule {
	var out []validation.Rule
	if field.Required {
		switch field.Type {
		case entities.FieldBoolean:
			out = append(out, validation.By(mustBeTrue))
		case entities.FieldNumber:
			out = append(out, validation.NotNil)
		default:
			out = append(out, validation.Required)
		}
	}
	switch field.Type {
	case entities.FieldEmail:
		out = append(out, is.EmailFormat)
	case entities.FieldPhone:
		out = append(out, validation.Match(phonePattern).Error("must be a valid phone number"))
	case entities.FieldSelect:
		options := make([]any, 0, len(field.Options))
		for _, option := range field.Options {
			options = append(options, option)
		}
		out = append(out, validation.In(options...).Error("must be one of the listed options"))
	}
	return out
}

func mustBeTrue(value any) error {
	if checked, _ := value.(bool); !checked {
		return validation.NewError("forms.required_checked", "must be checked")
	}
	return nil
}

var errWrongType = validation.NewError("forms.value_type", "has an unsupported value type")

// normalize coerces a raw submitted value into the field's canonical type.
// A nil result means the field was left empty.
func normalize(field entities.FormField, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch field.Type {
	case entities.FieldBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, errWrongType
			}
			return parsed, nil
		}
		return nil, errWrongType
	case entities.FieldNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				return nil, nil
			}
			parsed, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return nil, validation.NewError("forms.number_invalid", "must be a number")
			}
			return parsed, nil
		}
		return nil, errWrongType
	case entities.FieldRepeater:
		rows, ok := raw.([]any)
		if !ok {
			if strs, isStrings := raw.([]string); isStrings {
				rows = make([]any, len(strs))
				for i, s := range strs {
					rows[i] = s
				}
			} else {
				return nil, errWrongType
			}
		}
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			text := strings.TrimSpace(fmt.Sprint(row))
			if row == nil || text == "" {
				continue
			}
			out = append(out, text)
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil
	default:
		s, ok := raw.(string)
		if !ok {
			return nil, errWrongType
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		return s, nil
	}
}
