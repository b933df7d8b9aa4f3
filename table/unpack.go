package table

// Unpack assigns values to dst in order.
//
// The number of values must match the number of destinations exactly.
// On a mismatch a *ShapeError is returned and no destination is written.
//
//	var name, email, phone string
//	err := Unpack([]string{"Christopher", "Brooks", "brooksch@umich.edu", "Ann Arbor"}, &name, &email, &phone)
//	// err: unpack: too many values (expected 3, got 4)
func Unpack(values []string, dst ...*string) error {
	if len(values) != len(dst) {
		return &ShapeError{What: "unpack", Want: len(dst), Got: len(values)}
	}
	for i, v := range values {
		*dst[i] = v
	}
	return nil
}
