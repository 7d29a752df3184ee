package service

// redactCosts hides purchase costs and supplier identities from the
// aggregated tree. It runs after aggregation on purpose: weighted averages
// are computed from the unredacted ledger and only then withheld, so a
// privileged and an unprivileged caller always agree on quantities and
// structure.
func redactCosts(nodes []*CategoryNode) {
	for _, cat := range nodes {
		for _, spec := range cat.Specifications {
			for _, leaf := range spec.Qualities {
				leaf.PricePerUnit = nil
				leaf.PricePerGram = nil
				for _, batch := range leaf.Batches {
					redactBatchView(batch)
				}
			}
		}
	}
}

// redactBatchView nulls the cost and supplier fields of one batch view,
// leaving quantities and structural fields untouched.
func redactBatchView(b *BatchView) {
	b.PricePerUnit = nil
	b.PricePerGram = nil
	b.SupplierName = nil
}
