package assessment

import "context"

// ReferenceLookup resolves catalog values to risk bands. Implementations
// return sentinel.ErrNotFound (possibly wrapped) when a value has no catalog
// entry; the engine treats that as "no factor" rather than a failure. Any
// other error aborts the assessment.
type ReferenceLookup interface {
	CountryBand(ctx context.Context, name string) (RiskBand, error)
	EmploymentBand(ctx context.Context, name string) (RiskBand, error)
	ProductBand(ctx context.Context, name string) (RiskBand, error)
	BusinessBand(ctx context.Context, name string) (RiskBand, error)
}
