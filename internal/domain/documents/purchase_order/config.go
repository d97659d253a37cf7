package purchase_order

import "purchasing/pkg/numerator"

const (
	// ModuleCode identifies the purchasing module in approval configuration
	// and status checks.
	ModuleCode = "PO"

	// DocumentTypeCode identifies the purchase order document type.
	DocumentTypeCode = "PO"

	// NumberPrefix for generated document numbers.
	NumberPrefix = "PO"

	// NumeratorStrategy: purchase orders are accounting documents, numbers
	// must be gap-free.
	NumeratorStrategy = numerator.StrategyStrict
)
