package parser

// PrecedenceTable is the mutable mapping from single-byte operator to
// binding priority that drives ParseBinOpRHS's precedence climbing.
//
// It is owned by the top-level driver rather than kept as a
// package-level global: an `op` declaration mutates the table its
// parser was constructed with, which must be visible to every
// descendant driver spawned by `import` in the same session but need
// not be visible across unrelated sessions in the same process.
type PrecedenceTable struct {
	priority map[byte]int
}

// NewPrecedenceTable returns a table seeded with the built-in
// operators from the language's fixed grammar.
func NewPrecedenceTable() *PrecedenceTable {
	return &PrecedenceTable{
		priority: map[byte]int{
			'=': 2,
			'<': 10,
			'+': 20,
			'-': 20,
			'*': 40,
			'/': 40,
		},
	}
}

// Precedence returns op's binding priority, or -1 if op is not
// registered as an operator (entries <= 0 also mean "not an
// operator", per the data model).
func (t *PrecedenceTable) Precedence(op byte) int {
	p, ok := t.priority[op]
	if !ok || p <= 0 {
		return -1
	}
	return p
}

// Set installs or overrides op's precedence; called when an `op`
// declaration is parsed.
func (t *PrecedenceTable) Set(op byte, precedence int) {
	t.priority[op] = precedence
}
