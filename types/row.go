package types

import (
	"fmt"
	"math"

	e "github.com/gridkit/olympic-data-apis/errors"
)

const (
	FieldAthlete = "athlete"
	FieldAge     = "age"
	FieldCountry = "country"
	FieldYear    = "year"
	FieldDate    = "date"
	FieldSport   = "sport"
	FieldGold    = "gold"
	FieldSilver  = "silver"
	FieldBronze  = "bronze"
	FieldTotal   = "total"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumber
	kindInteger
)

var mutableFields = map[string]fieldKind{
	FieldAthlete: kindText,
	FieldAge:     kindNumber,
	FieldCountry: kindText,
	FieldYear:    kindInteger,
	FieldDate:    kindText,
	FieldSport:   kindText,
	FieldGold:    kindInteger,
	FieldSilver:  kindInteger,
	FieldBronze:  kindInteger,
	FieldTotal:   kindInteger,
}

// MutableFields lists, in column order, the fields a patch may change.
var MutableFields = []string{
	FieldAthlete, FieldAge, FieldCountry, FieldYear, FieldDate,
	FieldSport, FieldGold, FieldSilver, FieldBronze, FieldTotal,
}

// Row is one persisted athlete/medal record.
type Row struct {
	ID           string  `json:"_id" mapstructure:"_id"`
	CreationTime int64   `json:"_creationTime" mapstructure:"_creationTime"`
	Athlete      string  `json:"athlete"`
	Age          float64 `json:"age"`
	Country      string  `json:"country"`
	Year         *int    `json:"year,omitempty"`
	Date         *string `json:"date,omitempty"`
	Sport        string  `json:"sport"`
	Gold         *int    `json:"gold,omitempty"`
	Silver       *int    `json:"silver,omitempty"`
	Bronze       *int    `json:"bronze,omitempty"`
	Total        *int    `json:"total,omitempty"`
}

// RowFields holds the values supplied when inserting a row.
type RowFields struct {
	Athlete string  `json:"athlete" yaml:"athlete" validate:"required"`
	Age     float64 `json:"age" yaml:"age"`
	Country string  `json:"country" yaml:"country" validate:"required"`
	Year    *int    `json:"year,omitempty" yaml:"year,omitempty" validate:"omitempty,gte=-2147483648,lte=2147483647"`
	Date    *string `json:"date,omitempty" yaml:"date,omitempty"`
	Sport   string  `json:"sport" yaml:"sport" validate:"required"`
	Gold    *int    `json:"gold,omitempty" yaml:"gold,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Silver  *int    `json:"silver,omitempty" yaml:"silver,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Bronze  *int    `json:"bronze,omitempty" yaml:"bronze,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Total   *int    `json:"total,omitempty" yaml:"total,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
}

// RowPatch is a partial update: only non-nil fields are applied.
type RowPatch struct {
	Athlete *string  `json:"athlete,omitempty" validate:"omitempty,min=1"`
	Age     *float64 `json:"age,omitempty"`
	Country *string  `json:"country,omitempty" validate:"omitempty,min=1"`
	Year    *int     `json:"year,omitempty" validate:"omitempty,gte=-2147483648,lte=2147483647"`
	Date    *string  `json:"date,omitempty"`
	Sport   *string  `json:"sport,omitempty" validate:"omitempty,min=1"`
	Gold    *int     `json:"gold,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Silver  *int     `json:"silver,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Bronze  *int     `json:"bronze,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	Total   *int     `json:"total,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
}

// NewRow builds the row a store persists for the given fields.
func NewRow(id string, creationTime int64, fields RowFields) Row {
	return Row{
		ID:           id,
		CreationTime: creationTime,
		Athlete:      fields.Athlete,
		Age:          fields.Age,
		Country:      fields.Country,
		Year:         copyInt(fields.Year),
		Date:         copyString(fields.Date),
		Sport:        fields.Sport,
		Gold:         copyInt(fields.Gold),
		Silver:       copyInt(fields.Silver),
		Bronze:       copyInt(fields.Bronze),
		Total:        copyInt(fields.Total),
	}
}

// IsMutableField reports whether the field can be changed by a patch.
func IsMutableField(field string) bool {
	_, ok := mutableFields[field]
	return ok
}

// IsCounterField reports whether the field is a medal counter.
func IsCounterField(field string) bool {
	switch field {
	case FieldGold, FieldSilver, FieldBronze, FieldTotal:
		return true
	}
	return false
}

// IsRequiredField reports whether a row must always hold a non-empty value for the field.
func IsRequiredField(field string) bool {
	switch field {
	case FieldAthlete, FieldCountry, FieldSport:
		return true
	}
	return false
}

// IsNumericField reports whether the field holds a number.
func IsNumericField(field string) bool {
	kind, ok := mutableFields[field]
	return ok && kind != kindText
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	r.Year = copyInt(r.Year)
	r.Date = copyString(r.Date)
	r.Gold = copyInt(r.Gold)
	r.Silver = copyInt(r.Silver)
	r.Bronze = copyInt(r.Bronze)
	r.Total = copyInt(r.Total)
	return r
}

// Counter returns the value of a medal counter, 0 when unset.
func (r Row) Counter(field string) int {
	var value *int
	switch field {
	case FieldGold:
		value = r.Gold
	case FieldSilver:
		value = r.Silver
	case FieldBronze:
		value = r.Bronze
	case FieldTotal:
		value = r.Total
	}
	if value == nil {
		return 0
	}
	return *value
}

// Apply returns a copy of the row with the patch merged in.
func (r Row) Apply(patch RowPatch) Row {
	updated := r.Clone()
	if patch.Athlete != nil {
		updated.Athlete = *patch.Athlete
	}
	if patch.Age != nil {
		updated.Age = *patch.Age
	}
	if patch.Country != nil {
		updated.Country = *patch.Country
	}
	if patch.Year != nil {
		updated.Year = copyInt(patch.Year)
	}
	if patch.Date != nil {
		updated.Date = copyString(patch.Date)
	}
	if patch.Sport != nil {
		updated.Sport = *patch.Sport
	}
	if patch.Gold != nil {
		updated.Gold = copyInt(patch.Gold)
	}
	if patch.Silver != nil {
		updated.Silver = copyInt(patch.Silver)
	}
	if patch.Bronze != nil {
		updated.Bronze = copyInt(patch.Bronze)
	}
	if patch.Total != nil {
		updated.Total = copyInt(patch.Total)
	}
	return updated
}

// IsEmpty reports whether the patch changes nothing.
func (p RowPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the supplied fields by name, in column order.
func (p RowPatch) Fields() []string {
	fields := make([]string, 0, len(MutableFields))
	for _, field := range MutableFields {
		if _, ok := p.Value(field); ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Value returns the supplied value of a field.
func (p RowPatch) Value(field string) (interface{}, bool) {
	switch field {
	case FieldAthlete:
		return derefString(p.Athlete)
	case FieldAge:
		if p.Age != nil {
			return *p.Age, true
		}
	case FieldCountry:
		return derefString(p.Country)
	case FieldYear:
		return derefInt(p.Year)
	case FieldDate:
		return derefString(p.Date)
	case FieldSport:
		return derefString(p.Sport)
	case FieldGold:
		return derefInt(p.Gold)
	case FieldSilver:
		return derefInt(p.Silver)
	case FieldBronze:
		return derefInt(p.Bronze)
	case FieldTotal:
		return derefInt(p.Total)
	}
	return nil, false
}

// NewCounterPatch sets a single medal counter.
func NewCounterPatch(field string, value int) (RowPatch, error) {
	if !IsCounterField(field) {
		return RowPatch{}, e.NewValidationError(fmt.Sprintf("%s is not a counter field", field))
	}
	return NewRowPatch(field, value)
}

// NewRowPatch builds a patch that sets a single field. Numeric values must target numeric
// fields and text must target text fields; integer fields reject fractional values.
func NewRowPatch(field string, value interface{}) (RowPatch, error) {
	kind, ok := mutableFields[field]
	if !ok {
		return RowPatch{}, e.NewValidationError(fmt.Sprintf("%s is not a mutable field", field))
	}

	var patch RowPatch
	switch kind {
	case kindText:
		text, ok := value.(string)
		if !ok {
			return RowPatch{}, e.NewValidationError(fmt.Sprintf("%s must be a string", field))
		}
		switch field {
		case FieldAthlete:
			patch.Athlete = &text
		case FieldCountry:
			patch.Country = &text
		case FieldDate:
			patch.Date = &text
		case FieldSport:
			patch.Sport = &text
		}
	case kindNumber:
		number, ok := toFloat(value)
		if !ok {
			return RowPatch{}, e.NewValidationError(fmt.Sprintf("%s must be a number", field))
		}
		patch.Age = &number
	case kindInteger:
		number, ok := toFloat(value)
		if !ok || number != math.Trunc(number) {
			return RowPatch{}, e.NewValidationError(fmt.Sprintf("%s must be an integer", field))
		}
		// Integer columns are 32 bit in every store
		if number < math.MinInt32 || number > math.MaxInt32 {
			return RowPatch{}, e.NewValidationError(fmt.Sprintf("%s is out of range", field))
		}
		integer := int(number)
		switch field {
		case FieldYear:
			patch.Year = &integer
		case FieldGold:
			patch.Gold = &integer
		case FieldSilver:
			patch.Silver = &integer
		case FieldBronze:
			patch.Bronze = &integer
		case FieldTotal:
			patch.Total = &integer
		}
	}

	if err := ValidateRowPatch(patch); err != nil {
		return RowPatch{}, err
	}
	return patch, nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return toFloat(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func derefString(v *string) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	return *v, true
}

func derefInt(v *int) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	return *v, true
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// IntPtr and StringPtr help building optional fields.
func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }
