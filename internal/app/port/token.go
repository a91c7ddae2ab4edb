package port

import "txprepare/internal/domain/entity"

// TokenRegistry supplies token balance records for a network.
type TokenRegistry interface {
	// FeeCurrencies returns the candidate fee currencies for the network in
	// priority order (native asset first).
	FeeCurrencies(netDef entity.NetworkDefinition) ([]entity.TokenBalance, error)

	// TokenByID looks up a single token record.
	TokenByID(netDef entity.NetworkDefinition, tokenID string) (entity.TokenBalance, error)
}
