package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAmountTooLarge      = errors.New("amount exceeds the maximum deposit")
)

// Tipos de lançamento no extrato
const (
	TransactionTypeDeposit      = "deposit"
	TransactionTypeOrderPayment = "order_payment"
	TransactionTypeRefund       = "refund"
)

// moneyPlaces é a quantidade de casas decimais de valores monetários
const moneyPlaces = 2

// Wallet representa a carteira de um usuário
type Wallet struct {
	ID            string          `json:"id" db:"id"`
	UserID        string          `json:"user_id" db:"user_id"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	LockedBalance decimal.Decimal `json:"locked_balance" db:"locked_balance"`
	Currency      string          `json:"currency" db:"currency"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// NewWallet cria uma nova carteira com saldo zero
func NewWallet(userID, currency string) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:            uuid.New().String(),
		UserID:        userID,
		Balance:       decimal.Zero,
		LockedBalance: decimal.Zero,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Transaction é uma linha do extrato: toda mutação de saldo gera exatamente uma
type Transaction struct {
	ID            string          `json:"id" db:"id"`
	UserID        string          `json:"user_id" db:"user_id"`
	WalletID      string          `json:"wallet_id" db:"wallet_id"`
	OrderID       *string         `json:"order_id,omitempty" db:"order_id"`
	Type          string          `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before" db:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after" db:"balance_after"`
	Description   string          `json:"description" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Movement descreve uma mutação de saldo pedida por outro módulo
type Movement struct {
	UserID      string
	Amount      decimal.Decimal
	Type        string
	OrderID     string
	Description string
}

// RoundMoney arredonda para duas casas (meio para longe do zero)
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyPlaces)
}

// Debit retira amount do saldo e devolve o lançamento correspondente.
// A carteira só é alterada se o débito for válido.
func (w *Wallet) Debit(m Movement) (*Transaction, error) {
	amount := RoundMoney(m.Amount)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if w.Balance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	return w.apply(m, amount, w.Balance.Sub(amount)), nil
}

// Credit adiciona amount ao saldo e devolve o lançamento correspondente
func (w *Wallet) Credit(m Movement) (*Transaction, error) {
	amount := RoundMoney(m.Amount)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return w.apply(m, amount, w.Balance.Add(amount)), nil
}

func (w *Wallet) apply(m Movement, amount, after decimal.Decimal) *Transaction {
	now := time.Now().UTC()

	entry := &Transaction{
		ID:            uuid.New().String(),
		UserID:        w.UserID,
		WalletID:      w.ID,
		Type:          m.Type,
		Amount:        amount,
		BalanceBefore: w.Balance,
		BalanceAfter:  after,
		Description:   m.Description,
		CreatedAt:     now,
	}
	if m.OrderID != "" {
		orderID := m.OrderID
		entry.OrderID = &orderID
	}

	w.Balance = after
	w.UpdatedAt = now

	return entry
}
