package selection

// Not selects exactly the rows its child did not.
type Not struct {
	bits *Mask
}

// NewNot inverts child. The result covers child.RowCount() rows.
func NewNot(child Predicate) *Not {
	return &Not{bits: maskNot(MaskOf(child))}
}

// RowCount implements Predicate.
func (p *Not) RowCount() int { return p.bits.Len() }

// IsSelected implements Predicate.
func (p *Not) IsSelected(row int) bool { return p.bits.Get(row) }

func (p *Not) mask() *Mask { return p.bits }

// And selects the rows selected by both children.
type And struct {
	bits *Mask
}

// NewAnd combines first and second row by row.
// Returns a *DimensionMismatchError if their row counts differ.
func NewAnd(first, second Predicate) (*And, error) {
	a, b, err := pair("and", first, second)
	if err != nil {
		return nil, err
	}
	return &And{bits: maskAnd(a, b)}, nil
}

// RowCount implements Predicate.
func (p *And) RowCount() int { return p.bits.Len() }

// IsSelected implements Predicate.
func (p *And) IsSelected(row int) bool { return p.bits.Get(row) }

func (p *And) mask() *Mask { return p.bits }

// Or selects the rows selected by either child.
type Or struct {
	bits *Mask
}

// NewOr combines first and second row by row.
// Returns a *DimensionMismatchError if their row counts differ.
func NewOr(first, second Predicate) (*Or, error) {
	a, b, err := pair("or", first, second)
	if err != nil {
		return nil, err
	}
	return &Or{bits: maskOr(a, b)}, nil
}

// RowCount implements Predicate.
func (p *Or) RowCount() int { return p.bits.Len() }

// IsSelected implements Predicate.
func (p *Or) IsSelected(row int) bool { return p.bits.Get(row) }

func (p *Or) mask() *Mask { return p.bits }

// pair fetches the masks of a binary composite's children, first then second.
func pair(op string, first, second Predicate) (*Mask, *Mask, error) {
	if first.RowCount() != second.RowCount() {
		return nil, nil, &DimensionMismatchError{
			Op:     op,
			First:  first.RowCount(),
			Second: second.RowCount(),
		}
	}
	return MaskOf(first), MaskOf(second), nil
}
