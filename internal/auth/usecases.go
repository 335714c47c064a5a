package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/matheusmosca/growth-storefront/internal/database"
	"github.com/matheusmosca/growth-storefront/internal/wallet"
)

// WalletOpener abre a carteira de um usuário dentro de uma transação existente
type WalletOpener interface {
	Open(ctx context.Context, tx database.Tx, userID string) (*wallet.Wallet, error)
}

// UseCase contém a lógica de cadastro e login
type UseCase struct {
	repository Repository
	wallets    WalletOpener
	tokens     *TokenIssuer
	logger     logrus.FieldLogger
	hashCost   int
}

// NewUseCase cria uma nova instância de UseCase
func NewUseCase(repository Repository, wallets WalletOpener, tokens *TokenIssuer, logger logrus.FieldLogger) *UseCase {
	return &UseCase{
		repository: repository,
		wallets:    wallets,
		tokens:     tokens,
		logger:     logger.WithField("component", "auth"),
		hashCost:   bcryptCost,
	}
}

// Register cadastra o usuário e abre sua carteira numa única transação
func (uc *UseCase) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, err := uc.repository.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar hash da senha: %w", err)
	}

	user := NewUser(req.Email, string(hash), req.FullName)

	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	if err := uc.repository.CreateUser(ctx, tx, user); err != nil {
		return nil, err
	}

	if _, err := uc.wallets.Open(ctx, tx, user.ID); err != nil {
		return nil, fmt.Errorf("erro ao abrir carteira: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao comitar cadastro: %w", err)
	}

	uc.logger.WithField("user_id", user.ID).Info("✅ [REGISTER] User registered with wallet")

	return uc.session(user)
}

// Login confere as credenciais e emite um token
func (uc *UseCase) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	user, err := uc.repository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		uc.logger.WithField("user_id", user.ID).Warn("❌ [LOGIN] Wrong password")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, ErrAccountDisabled
	}

	return uc.session(user)
}

// Me devolve o perfil do usuário autenticado
func (uc *UseCase) Me(ctx context.Context, userID string) (*UserView, error) {
	user, err := uc.repository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := viewOf(user)
	return &view, nil
}

func (uc *UseCase) session(user *User) (*Session, error) {
	token, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: viewOf(user)}, nil
}
