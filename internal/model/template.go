package model

// IrisTemplate is the binary encoding of one iris: a bit code derived
// from a filter bank over the normalized iris strip, and a mask marking
// which code positions carry trustworthy texture.
//
// Code and Mask always have equal length. The length is fixed by the
// normalization parameters (strip rows x strip cols x filter count) and
// is the same for every template produced by one system instance.
type IrisTemplate struct {
	Code []bool `json:"code"`
	Mask []bool `json:"mask"`
}

// Len returns the number of bits in the template.
func (t *IrisTemplate) Len() int {
	return len(t.Code)
}

// Valid reports whether the template is structurally usable:
// non-empty with matching code and mask lengths.
func (t *IrisTemplate) Valid() bool {
	return t != nil && len(t.Code) > 0 && len(t.Code) == len(t.Mask)
}
