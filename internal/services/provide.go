package services

import "github.com/samber/do"

// Provide registers the ledger services. Databases, redis clients, caches,
// the limiter, redsync and the remote collaborators are provided by the
// caller.
func Provide(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ServiceConfig, error) {
		return NewServiceConfig(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceLedger, error) {
		return NewServiceLedger(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServicePrizePool, error) {
		return NewServicePrizePool(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceRandomness, error) {
		return NewServiceRandomness(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceClaim, error) {
		return NewServiceClaim(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceTransfer, error) {
		return NewServiceTransfer(i)
	})
}
