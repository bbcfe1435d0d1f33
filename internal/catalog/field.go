package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names one editable attribute of a Parameter. The set is closed; the
// id is not editable.
type Field int

const (
	FieldName Field = iota
	FieldDescription
	FieldParamType
	FieldIsMultipleValues
	FieldIsReturnValue
	FieldDefault
	FieldPath
	FieldPositionInSignature
)

var fieldNames = map[Field]string{
	FieldName:                "name",
	FieldDescription:         "description",
	FieldParamType:           "param_type",
	FieldIsMultipleValues:    "is_multiple_values",
	FieldIsReturnValue:       "is_return_value",
	FieldDefault:             "default",
	FieldPath:                "path",
	FieldPositionInSignature: "position_in_signature",
}

// Fields lists every editable field in declaration order.
func Fields() []Field {
	return []Field{
		FieldName,
		FieldDescription,
		FieldParamType,
		FieldIsMultipleValues,
		FieldIsReturnValue,
		FieldDefault,
		FieldPath,
		FieldPositionInSignature,
	}
}

// String returns the JSON name of the field
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseField resolves a field from its JSON name. "type" is accepted as an
// alias of param_type.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "type" {
		return FieldParamType, nil
	}
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter field %q", name)
}

// Get returns the current value of a field.
func (p *Parameter) Get(field Field) (interface{}, error) {
	switch field {
	case FieldName:
		return p.Name, nil
	case FieldDescription:
		return p.Description, nil
	case FieldParamType:
		return p.ParamType, nil
	case FieldIsMultipleValues:
		return p.IsMultipleValues, nil
	case FieldIsReturnValue:
		return p.IsReturnValue, nil
	case FieldDefault:
		return p.Default, nil
	case FieldPath:
		return p.Path, nil
	case FieldPositionInSignature:
		return p.PositionInSignature, nil
	default:
		return nil, fmt.Errorf("unknown parameter field %d", int(field))
	}
}

// Set assigns value to field, rejecting values of the wrong Go type.
// Optional fields accept nil to clear them.
func (p *Parameter) Set(field Field, value interface{}) error {
	switch field {
	case FieldName, FieldDescription, FieldParamType:
		s, ok := value.(string)
		if !ok {
			return typeError(field, "string", value)
		}
		switch field {
		case FieldName:
			p.Name = s
		case FieldDescription:
			p.Description = s
		default:
			p.ParamType = s
		}
		return nil

	case FieldIsMultipleValues, FieldIsReturnValue:
		b, ok := value.(bool)
		if !ok {
			return typeError(field, "bool", value)
		}
		if field == FieldIsMultipleValues {
			p.IsMultipleValues = b
		} else {
			p.IsReturnValue = b
		}
		return nil

	case FieldDefault, FieldPath:
		var s *string
		switch v := value.(type) {
		case nil:
		case string:
			s = String(v)
		case *string:
			if v != nil {
				s = String(*v)
			}
		default:
			return typeError(field, "string", value)
		}
		if field == FieldDefault {
			p.Default = s
		} else {
			p.Path = s
		}
		return nil

	case FieldPositionInSignature:
		switch v := value.(type) {
		case nil:
			p.PositionInSignature = nil
		case int:
			p.PositionInSignature = Int(v)
		case int64:
			p.PositionInSignature = Int(int(v))
		case *int:
			if v == nil {
				p.PositionInSignature = nil
			} else {
				p.PositionInSignature = Int(*v)
			}
		default:
			return typeError(field, "int", value)
		}
		return nil
	}

	return fmt.Errorf("unknown parameter field %d", int(field))
}

// SetFromString parses raw for the field's type and assigns it. An empty raw
// value clears optional fields.
func (p *Parameter) SetFromString(field Field, raw string) error {
	switch field {
	case FieldIsMultipleValues, FieldIsReturnValue:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", field, raw)
		}
		return p.Set(field, b)
	case FieldDefault, FieldPath:
		if raw == "" {
			return p.Set(field, nil)
		}
		return p.Set(field, raw)
	case FieldPositionInSignature:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return p.Set(field, nil)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", field, raw)
		}
		return p.Set(field, n)
	default:
		return p.Set(field, raw)
	}
}

func typeError(field Field, want string, got interface{}) error {
	return fmt.Errorf("%s: expected %s, got %T", field, want, got)
}
