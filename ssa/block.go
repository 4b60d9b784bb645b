package ssa

// Block is a basic block: a straight-line list of instructions ending
// in exactly one terminator (OpBr/OpCondBr/OpRet). Preds is populated
// as branches targeting this block are built.
type Block struct {
	ID     int
	Name   string
	Fn     *Function
	Instrs []*Instr
	Preds  []*Block
}

func (b *Block) append(i *Instr) {
	i.ID = b.Fn.allocID()
	i.Block = b
	b.Instrs = append(b.Instrs, i)
}

// prependPhi inserts a freshly created phi at the head of the block's
// instruction list, ahead of any non-phi instruction, matching the
// convention that phis occupy the top of a block.
func (b *Block) prependPhi() *Instr {
	phi := &Instr{Op: OpPhi, Block: b, ID: b.Fn.allocID()}
	b.Instrs = append([]*Instr{phi}, b.Instrs...)
	return phi
}

// Terminator returns the block's terminating instruction, or nil if
// the block has not been terminated yet.
func (b *Block) Terminator() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	last := b.Instrs[len(b.Instrs)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

func addPred(target, from *Block) {
	for _, p := range target.Preds {
		if p == from {
			return
		}
	}
	target.Preds = append(target.Preds, from)
}
