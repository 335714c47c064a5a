// Package dbtest traz dublês de teste para o pacote database.
package dbtest

import (
	"github.com/stretchr/testify/mock"
)

// MockTx simula uma transação de banco de dados
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// NewCommittingTx devolve um MockTx que espera Commit com sucesso.
// Rollback é aceito (defer após commit) sem ser obrigatório.
func NewCommittingTx() *MockTx {
	tx := new(MockTx)
	tx.On("Commit").Return(nil).Once()
	tx.On("Rollback").Return(nil).Maybe()
	return tx
}

// NewRollbackTx devolve um MockTx que exige Rollback e não aceita Commit
func NewRollbackTx() *MockTx {
	tx := new(MockTx)
	tx.On("Rollback").Return(nil)
	return tx
}
