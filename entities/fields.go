package entities

// FieldType is the input type of a FormField.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldSelect   FieldType = "select"
	FieldRepeater FieldType = "repeater"
)

// FieldTypes lists every supported field type.
func FieldTypes() []FieldType {
	return []FieldType{FieldText, FieldEmail, FieldPhone, FieldNumber, FieldBoolean, FieldSelect, FieldRepeater}
}

// RequiresOptions reports whether fields of this type must declare Options.
func (t FieldType) RequiresOptions() bool {
	return t == FieldSelect
}

// Valid reports whether t is a supported field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldEmail, FieldPhone, FieldNumber, FieldBoolean, FieldSelect, FieldRepeater:
		return true
	}
	return false
}
