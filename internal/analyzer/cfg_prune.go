package analyzer

// removeEmptyBlocks collapses the element-free linear blocks left behind by
// the backward construction. Every such block resolves to its first
// non-empty successor through a substitution map; remaining blocks then have
// their successor references rewritten through that map in one pass, so no
// block is mutated while it is still being consulted.
func (b *CFGBuilder) removeEmptyBlocks(start *Block) *Block {
	replacements := make(map[*Block]*Block)
	for _, block := range b.blocks {
		if block.isWiringBlock() {
			replacements[block] = block.firstNonEmptySuccessor()
		}
	}

	kept := make([]*Block, 0, len(b.blocks)-len(replacements))
	for _, block := range b.blocks {
		if _, removed := replacements[block]; !removed {
			kept = append(kept, block)
		}
	}
	b.blocks = kept

	for _, block := range b.blocks {
		block.replaceSuccessors(replacements)
	}

	return replacement(replacements, start)
}

// computePredecessors derives the reverse edges once all structural edges
// are final
func (b *CFGBuilder) computePredecessors() {
	for _, block := range b.blocks {
		for _, successor := range block.Successors() {
			successor.addPredecessor(block)
		}
	}
}
