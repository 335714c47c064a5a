package wallet

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/matheusmosca/growth-storefront/internal/database"
)

// UseCase contém a lógica de negócio da carteira
type UseCase struct {
	repository     Repository
	currency       string
	maxDeposit     decimal.Decimal
	logger         logrus.FieldLogger
	movementsTotal metric.Int64Counter
}

// NewUseCase cria uma nova instância de UseCase
func NewUseCase(repository Repository, currency string, maxDeposit decimal.Decimal, logger logrus.FieldLogger) *UseCase {
	movements, _ := otel.Meter("storefront/wallet").Int64Counter(
		"wallet_movements_total",
		metric.WithDescription("Balance mutations written to the wallet ledger"),
	)

	return &UseCase{
		repository:     repository,
		currency:       currency,
		maxDeposit:     maxDeposit,
		logger:         logger.WithField("component", "wallet"),
		movementsTotal: movements,
	}
}

// GetWallet devolve a carteira do usuário
func (uc *UseCase) GetWallet(ctx context.Context, userID string) (*Wallet, error) {
	return uc.repository.GetWalletByUserID(ctx, userID)
}

// ListTransactions devolve o extrato do usuário
func (uc *UseCase) ListTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	return uc.repository.ListTransactions(ctx, userID)
}

// Fund credita amount na carteira (depósito manual) de forma atômica
func (uc *UseCase) Fund(ctx context.Context, userID string, amount decimal.Decimal) (*Wallet, *Transaction, error) {
	amount = RoundMoney(amount)
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	if amount.GreaterThan(uc.maxDeposit) {
		return nil, nil, ErrAmountTooLarge
	}

	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	wallet, entry, err := uc.Credit(ctx, tx, Movement{
		UserID:      userID,
		Amount:      amount,
		Type:        TransactionTypeDeposit,
		Description: "Manual Funding",
	})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("erro ao comitar depósito: %w", err)
	}

	uc.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount.StringFixed(moneyPlaces),
	}).Info("✅ [FUND] Wallet funded")

	return wallet, entry, nil
}

// Open cria a carteira de um usuário recém-registrado dentro de tx
func (uc *UseCase) Open(ctx context.Context, tx database.Tx, userID string) (*Wallet, error) {
	wallet := NewWallet(userID, uc.currency)
	if err := uc.repository.CreateWallet(ctx, tx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Debit debita a carteira dentro de tx usando lock pessimista.
// O chamador é dono da transação (commit/rollback).
func (uc *UseCase) Debit(ctx context.Context, tx database.Tx, m Movement) (*Wallet, *Transaction, error) {
	// Obtém a carteira com LOCK PESSIMISTA (SELECT FOR UPDATE)
	wallet, err := uc.repository.GetWalletForUpdate(ctx, tx, m.UserID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := wallet.Debit(m)
	if err != nil {
		uc.logger.WithFields(logrus.Fields{
			"user_id": m.UserID,
			"amount":  m.Amount.String(),
			"balance": wallet.Balance.String(),
		}).Warn("❌ DEBIT FAILED")
		return nil, nil, err
	}

	if err := uc.repository.SaveMovement(ctx, tx, wallet, entry); err != nil {
		return nil, nil, err
	}

	uc.movementsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("type", m.Type)))
	return wallet, entry, nil
}

// Credit credita a carteira dentro de tx usando lock pessimista
func (uc *UseCase) Credit(ctx context.Context, tx database.Tx, m Movement) (*Wallet, *Transaction, error) {
	wallet, err := uc.repository.GetWalletForUpdate(ctx, tx, m.UserID)
	if err != nil {
		return nil, nil, err
	}

	entry, err := wallet.Credit(m)
	if err != nil {
		return nil, nil, err
	}

	if err := uc.repository.SaveMovement(ctx, tx, wallet, entry); err != nil {
		return nil, nil, err
	}

	uc.movementsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("type", m.Type)))
	return wallet, entry, nil
}
