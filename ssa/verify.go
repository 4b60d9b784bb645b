package ssa

import "fmt"

// Verify checks the structural invariants the executor relies on:
// every block ends in exactly one terminator, and the function has an
// entry block.
func Verify(fn *Function) error {
	if fn.Entry == nil {
		return fmt.Errorf("function '%s' has no entry block", fn.Name)
	}
	for _, blk := range fn.Blocks {
		if len(blk.Instrs) == 0 {
			return fmt.Errorf("function '%s': block '%s' is empty", fn.Name, blk.Name)
		}
		for idx, i := range blk.Instrs {
			isLast := idx == len(blk.Instrs)-1
			if i.IsTerminator() != isLast {
				if i.IsTerminator() {
					return fmt.Errorf("function '%s': block '%s' has a terminator before its end", fn.Name, blk.Name)
				}
				return fmt.Errorf("function '%s': block '%s' does not end in a terminator", fn.Name, blk.Name)
			}
		}
	}
	return nil
}
