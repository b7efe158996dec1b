package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anybank/anybank-backend/internal/common"
	"github.com/anybank/anybank-backend/internal/domain"
	"github.com/anybank/anybank-backend/internal/usecase/accountlock"
)

// Service owns account balances and the append-only transaction history.
// Every mutating operation is serialized per account through the lock
// registry, and commits balance plus record in one repository call.
type Service struct {
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	Locks           *accountlock.Registry
	Log             *common.Logger
}

// NewService creates a new ledger Service instance
func NewService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	locks *accountlock.Registry,
	log *common.Logger,
) *Service {
	return &Service{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		Locks:           locks,
		Log:             log,
	}
}

// Deposit increases the account balance and appends a deposit transaction
func (s *Service) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	unlock := s.Locks.Lock(accountID)
	defer unlock()

	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Balance = account.Balance.Add(amount)

	tx := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Kind:        domain.KindDeposit,
		Entry:       domain.EntryCredit,
		Amount:      amount,
		Date:        time.Now(),
		Description: defaultDescription(description, "Deposit"),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Commit(ctx, []*domain.Account{account}, []*domain.Transaction{tx}); err != nil {
		return nil, err
	}

	s.Log.Info().
		Str("account_id", accountID.String()).
		Str("amount", amount.String()).
		Msg("deposit settled")
	return tx, nil
}

// Withdraw decreases the account balance and appends a withdraw transaction.
// Fails with ErrInsufficientFunds when the amount exceeds the balance.
func (s *Service) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	unlock := s.Locks.Lock(accountID)
	defer unlock()

	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.CanDebit(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(amount)

	tx := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Kind:        domain.KindWithdraw,
		Entry:       domain.EntryDebit,
		Amount:      amount,
		Date:        time.Now(),
		Description: defaultDescription(description, "Withdrawal"),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Commit(ctx, []*domain.Account{account}, []*domain.Transaction{tx}); err != nil {
		return nil, err
	}

	s.Log.Info().
		Str("account_id", accountID.String()).
		Str("amount", amount.String()).
		Msg("withdrawal settled")
	return tx, nil
}

// Transfer atomically moves amount between two accounts, appending a linked
// debit/credit pair that shares one transfer id. Returns the two legs,
// debit first.
func (s *Service) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, description string) ([]*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, domain.ErrSameAccount
	}

	unlock := s.Locks.LockPair(fromID, toID)
	defer unlock()

	from, err := s.AccountRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.AccountRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}

	if !from.CanDebit(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	transferID := uuid.New()
	now := time.Now()

	debit := &domain.Transaction{
		ID:                    uuid.New(),
		AccountID:             fromID,
		Kind:                  domain.KindTransfer,
		Entry:                 domain.EntryDebit,
		Amount:                amount,
		CounterpartyAccountID: &toID,
		TransferID:            &transferID,
		Date:                  now,
		Description:           defaultDescription(description, "Transfer sent"),
	}
	credit := &domain.Transaction{
		ID:                    uuid.New(),
		AccountID:             toID,
		Kind:                  domain.KindTransfer,
		Entry:                 domain.EntryCredit,
		Amount:                amount,
		CounterpartyAccountID: &fromID,
		TransferID:            &transferID,
		Date:                  now,
		Description:           defaultDescription(description, "Transfer received"),
	}
	for _, tx := range []*domain.Transaction{debit, credit} {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
	}

	if err := s.TransactionRepo.Commit(ctx, []*domain.Account{from, to}, []*domain.Transaction{debit, credit}); err != nil {
		return nil, err
	}

	s.Log.Info().
		Str("from_account_id", fromID.String()).
		Str("to_account_id", toID.String()).
		Str("amount", amount.String()).
		Msg("transfer settled")
	return []*domain.Transaction{debit, credit}, nil
}

// GetBalance returns the current committed balance of an account
func (s *Service) GetBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// GetTransactions returns an account's history, newest first
func (s *Service) GetTransactions(ctx context.Context, accountID uuid.UUID, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if _, err := s.AccountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.TransactionRepo.List(ctx, accountID, filter)
}

// CountTransactions returns the total history length for pagination
func (s *Service) CountTransactions(ctx context.Context, accountID uuid.UUID) (int, error) {
	return s.TransactionRepo.Count(ctx, accountID)
}

// Settle commits a trade-settlement mutation against the account ledger:
// delta is signed (negative debits, positive credits) and tx is the buy or
// sell record carrying the settlement metadata. The caller must already
// hold the account's lock.
func (s *Service) Settle(ctx context.Context, account *domain.Account, delta decimal.Decimal, tx *domain.Transaction) error {
	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	account.Balance = newBalance

	if err := tx.Validate(); err != nil {
		return err
	}
	return s.TransactionRepo.Commit(ctx, []*domain.Account{account}, []*domain.Transaction{tx})
}

func defaultDescription(description, fallback string) string {
	if description == "" {
		return fallback
	}
	return description
}
