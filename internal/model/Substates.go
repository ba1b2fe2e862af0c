package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// Substates is an ordered set of free-form record tags, stored as a JSON array.
type Substates []string

func NewSubstates(values ...string) Substates {
	s := Substates{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s Substates) Contains(v string) bool {
	return slices.Contains(s, v)
}

// Add appends v when absent and reports whether the set changed.
func (s *Substates) Add(v string) bool {
	if v == "" || s.Contains(v) {
		return false
	}
	*s = append(*s, v)
	return true
}

// Remove deletes the exact value v and reports whether the set changed.
func (s *Substates) Remove(v string) bool {
	i := slices.Index(*s, v)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

func (s Substates) Clone() Substates {
	if s == nil {
		return Substates{}
	}
	return slices.Clone(s)
}

func (s Substates) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Substates) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = Substates{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("substates: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*s = Substates{}
		return nil
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return err
	}
	*s = NewSubstates(values...)
	return nil
}
