package ssa

// RunMem2Reg promotes stack slots (Alloca/Load/Store triples) to
// direct SSA values, in the style of Braun, Buchwald, Hack, Leißa,
// Mehofer & Scholz ("Simple and Efficient Construction of SSA Form"):
// each Load is resolved to the nearest dominating Store, inserting a
// phi at any join point with more than one reaching definition, and
// trivial phis (every edge reaching the same value) are collapsed
// away. Because the whole CFG is known up front before this pass
// runs, every block is effectively "sealed": a loop header's
// back-edge predecessor is already present in Preds, so the usual
// incomplete-phi bookkeeping needed for on-the-fly construction is
// unnecessary — a placeholder phi written into the cache before
// recursing into predecessors is enough to break the cycle.
//
// Promotion never deletes instructions: a promoted Load gets its
// replacedBy pointer set to the value it was proven equal to, and
// every consumer resolves that chain at evaluation time. A slot that
// cannot be proven safe to promote (referenced some way other than as
// the Addr of a Load/Store) is left untouched; the closure executor
// falls back to interpreting it as an ordinary memory cell.
func RunMem2Reg(fn *Function) {
	for _, slot := range promotableSlots(fn) {
		p := &promoter{fn: fn, slot: slot, entryCache: map[*Block]*Instr{}}
		p.run()
	}
}

// promotableSlots returns every Alloca in the entry block whose only
// uses are as the Addr of a Load or Store elsewhere in the function.
func promotableSlots(fn *Function) []*Instr {
	var slots []*Instr
	for _, i := range fn.Entry.Instrs {
		if i.Op == OpAlloca {
			slots = append(slots, i)
		}
	}

	addressTaken := map[*Instr]bool{}
	for _, blk := range fn.Blocks {
		for _, i := range blk.Instrs {
			visit := func(v *Instr) {
				if v == nil {
					return
				}
				for _, s := range slots {
					if v == s {
						addressTaken[s] = true
					}
				}
			}
			switch i.Op {
			case OpLoad, OpStore:
				// Addr usage is the promotable reference itself.
			default:
				visit(i.A)
				visit(i.B)
				visit(i.Value)
				visit(i.Cond)
				for _, a := range i.Args {
					visit(a)
				}
				for _, e := range i.Incoming {
					visit(e.Value)
				}
			}
		}
	}

	var out []*Instr
	for _, s := range slots {
		if !addressTaken[s] {
			out = append(out, s)
		}
	}
	return out
}

type promoter struct {
	fn         *Function
	slot       *Instr
	entryCache map[*Block]*Instr
}

func (p *promoter) run() {
	for _, blk := range p.fn.Blocks {
		p.processBlock(blk)
	}
}

// processBlock walks blk's instructions in order, tracking the
// current reaching value for the slot, redirecting each matching
// Load to it and recording the block's entry value into the cache the
// first time it's needed.
func (p *promoter) processBlock(blk *Block) {
	var current *Instr
	for _, instr := range blk.Instrs {
		switch instr.Op {
		case OpStore:
			if instr.Addr == p.slot {
				current = resolve(instr.Value)
			}
		case OpLoad:
			if instr.Addr == p.slot {
				if current == nil {
					current = p.entryValue(blk)
				}
				instr.replacedBy = current
			}
		}
	}
}

// entryValue returns the value of the slot flowing into blk, computed
// lazily and cached.
func (p *promoter) entryValue(blk *Block) *Instr {
	if v, ok := p.entryCache[blk]; ok {
		return v
	}
	switch len(blk.Preds) {
	case 0:
		zero := &Instr{Op: OpConst, Imm: 0, ID: p.fn.allocID(), Block: blk}
		p.entryCache[blk] = zero
		return zero
	case 1:
		v := p.exitValue(blk.Preds[0])
		p.entryCache[blk] = v
		return v
	default:
		phi := blk.prependPhi()
		p.entryCache[blk] = phi // breaks cycles through loop back-edges
		for _, pred := range blk.Preds {
			phi.AddIncoming(pred, p.exitValue(pred))
		}
		final := trivialPhiValue(phi)
		if final != phi {
			phi.replacedBy = final
			p.entryCache[blk] = final
		}
		return final
	}
}

// exitValue returns the value of the slot flowing out of blk: the
// last store to the slot within blk, or its entry value if blk never
// stores to it.
func (p *promoter) exitValue(blk *Block) *Instr {
	var last *Instr
	for _, instr := range blk.Instrs {
		if instr.Op == OpStore && instr.Addr == p.slot {
			last = resolve(instr.Value)
		}
	}
	if last != nil {
		return last
	}
	return p.entryValue(blk)
}

// trivialPhiValue returns the single distinct value phi's incoming
// edges agree on (ignoring self-references), or phi itself if no such
// single value exists.
func trivialPhiValue(phi *Instr) *Instr {
	var same *Instr
	for _, e := range phi.Incoming {
		v := resolve(e.Value)
		if v == phi {
			continue
		}
		if same == nil {
			same = v
			continue
		}
		if same != v {
			return phi
		}
	}
	if same == nil {
		return phi
	}
	return same
}
