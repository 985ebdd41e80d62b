package generator

// Constant always returns the same configured value. Used where a
// workload parameter is fixed rather than drawn from a distribution, e.g.
// fieldlengthdistribution=constant.
type Constant struct {
	value uint64
}

// NewConstant returns a Constant generator fixed at value.
func NewConstant(value uint64) Constant {
	return Constant{value: value}
}

func (c Constant) Next() uint64 { return c.value }
func (c Constant) Last() uint64 { return c.value }
