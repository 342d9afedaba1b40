package repository

// Repos conjunto de repositorios atados a una misma transacción (o al pool, fuera de ella).
type Repos struct {
	Documents      DocumentRepository
	Sequences      SequenceRepository
	Checks         CheckRepository
	Accounts       TreasuryAccountRepository
	Movements      CashMovementRepository
	Settlements    SettlementRepository
	Counterparties CounterpartyRepository
}
