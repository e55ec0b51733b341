package sdc

import "fmt"

// ColumnsOrder records the column names a data block declared, in the order
// they appeared, and provides O(1) name-to-position lookup — the Go
// analogue of the original library's aux::ColumnsOrder.
type ColumnsOrder struct {
	names []string
	index map[string]int
}

// NewColumnsOrder builds a ColumnsOrder from an ordered list of column
// names. Duplicate names keep the first occurrence's position.
func NewColumnsOrder(names []string) ColumnsOrder {
	idx := make(map[string]int, len(names))

	ordered := make([]string, 0, len(names))
	for _, n := range names {
		if _, seen := idx[n]; seen {
			continue
		}

		idx[n] = len(ordered)
		ordered = append(ordered, n)
	}

	return ColumnsOrder{names: ordered, index: idx}
}

// Len returns the number of distinct columns.
func (c ColumnsOrder) Len() int {
	return len(c.names)
}

// Names returns the column names in declaration order. The returned slice
// must not be mutated by the caller.
func (c ColumnsOrder) Names() []string {
	return c.names
}

// IndexOf returns the 0-based position of name, or -1 and
// [ErrMissingColumn] if name was never declared.
func (c ColumnsOrder) IndexOf(name string) (int, error) {
	i, ok := c.index[name]
	if !ok {
		return -1, ErrMissingColumn
	}

	return i, nil
}

// Has reports whether name was declared.
func (c ColumnsOrder) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Row is a tokenized data row interpreted against a [ColumnsOrder]: a
// name-to-token mapping, the Go analogue of the original library's
// ColumnsOrder::CSVLine.
type Row struct {
	values map[string]string
}

// Interpret maps fields onto the declared column names, in declaration
// order. If fields has fewer tokens than some declared column's index
// requires, it fails with a *parse-error* citing the missing column's name,
// its 1-based position, and how many tokens the row actually had — the Go
// analogue of ColumnsOrder::interpret's "Columns number mismatch" error.
func (c ColumnsOrder) Interpret(fields []string) (Row, error) {
	values := make(map[string]string, len(c.names))

	for _, name := range c.names {
		idx := c.index[name]

		if idx >= len(fields) {
			return Row{}, &ParseError{
				Token: name,
				Err: fmt.Errorf("sdc: columns number mismatch; no column #%d expected for %q in current line (has only %d columns)",
					idx+1, name, len(fields)),
			}
		}

		values[name] = fields[idx]
	}

	return Row{values: values}, nil
}

// Get returns the token for name, or [ErrMissingColumn] if name was not
// declared for this row's column directory.
func (r Row) Get(name string) (string, error) {
	v, ok := r.values[name]
	if !ok {
		return "", ErrMissingColumn
	}

	return v, nil
}

// RowGet parses the token for name using parse, or returns def unchanged if
// name was not declared for this row — the Go analogue of CSVLine's
// templated operator()(name, default_). Go forbids type parameters on
// methods, so this is a free function, matching the package's [MetaGet]
// convention.
func RowGet[T any](r Row, name string, def T, parse func(string) (T, error)) (T, error) {
	v, ok := r.values[name]
	if !ok {
		return def, nil
	}

	return parse(v)
}
