package trial

import (
	"procova/domain/core"
)

// InteractionSuffix names derived covariate-by-treatment product columns
// deterministically from the covariate name (e.g. "age" -> "age_w").
const InteractionSuffix = "_w"

// Frame is an in-memory tabular historical dataset: named numeric columns of
// equal length. Frames are read-only after construction; derived frames
// (interaction terms, prognostic scores) are produced by WithColumn and
// never alias back into the source frame's column set.
type Frame struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// NewFrame builds a frame from ordered column names and their values.
// Every named column must be present with the same length, and at least one
// row is required.
func NewFrame(names []string, cols map[string][]float64) (*Frame, error) {
	if len(names) == 0 {
		return nil, core.NewPreconditionError("data.hist", "must have at least one column")
	}
	rows := -1
	for _, name := range names {
		vals, ok := cols[name]
		if !ok {
			return nil, core.NewDataShapeError(name, "named but missing from column data")
		}
		if rows == -1 {
			rows = len(vals)
		} else if len(vals) != rows {
			return nil, core.NewDataShapeError(name, "has a different length than the other columns")
		}
	}
	if rows < 1 {
		return nil, core.NewPreconditionError("data.hist", "must have at least one row")
	}
	copied := make(map[string][]float64, len(names))
	order := make([]string, len(names))
	for i, name := range names {
		order[i] = name
		vals := make([]float64, rows)
		copy(vals, cols[name])
		copied[name] = vals
	}
	return &Frame{names: order, cols: copied, rows: rows}, nil
}

// NumRows returns the row count
func (f *Frame) NumRows() int {
	return f.rows
}

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// HasColumn reports whether the named column exists
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the values of the named column. The returned slice is owned
// by the frame and must not be mutated.
func (f *Frame) Column(name string) ([]float64, error) {
	vals, ok := f.cols[name]
	if !ok {
		return nil, core.NewAdjustmentSpecError(name)
	}
	return vals, nil
}

// WithColumn returns a derived frame with one column appended. The source
// frame is left untouched; existing column slices are shared but never
// written through.
func (f *Frame) WithColumn(name string, values []float64) (*Frame, error) {
	if f.HasColumn(name) {
		return nil, core.NewDataShapeError(name, "already exists")
	}
	if len(values) != f.rows {
		return nil, core.NewDataShapeError(name, "has a different length than the frame")
	}
	names := make([]string, 0, len(f.names)+1)
	names = append(names, f.names...)
	names = append(names, name)
	cols := make(map[string][]float64, len(names))
	for k, v := range f.cols {
		cols[k] = v
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	cols[name] = vals
	return &Frame{names: names, cols: cols, rows: f.rows}, nil
}

// WithInteractions returns a derived frame carrying one product column per
// covariate (covariate * treatment indicator), plus the names of the new
// columns in covariate order. Product columns are recomputed fresh on every
// call; the source frame is never mutated.
func (f *Frame) WithInteractions(covariates []string, treatment string) (*Frame, []string, error) {
	w, err := f.Column(treatment)
	if err != nil {
		return nil, nil, err
	}
	derived := f
	added := make([]string, 0, len(covariates))
	for _, cov := range covariates {
		vals, err := f.Column(cov)
		if err != nil {
			return nil, nil, err
		}
		product := make([]float64, f.rows)
		for i := range product {
			product[i] = vals[i] * w[i]
		}
		name := cov + InteractionSuffix
		derived, err = derived.WithColumn(name, product)
		if err != nil {
			return nil, nil, err
		}
		added = append(added, name)
	}
	return derived, added, nil
}
