package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akylbek/payment-system/fraud-detector/internal/interfaces"
	"github.com/akylbek/payment-system/fraud-detector/internal/models"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
)

// AccountService registers and authenticates accounts.
type AccountService struct {
	repo      interfaces.AccountRepository
	cost      int
	dummyHash []byte
}

func NewAccountService(repo interfaces.AccountRepository) *AccountService {
	return NewAccountServiceWithCost(repo, bcrypt.DefaultCost)
}

// NewAccountServiceWithCost lets tests use bcrypt.MinCost.
func NewAccountServiceWithCost(repo interfaces.AccountRepository, cost int) *AccountService {
	// Compared against when the username is unknown, so both failure paths hash once.
	dummy, err := bcrypt.GenerateFromPassword([]byte("fraud-detector-placeholder"), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt dummy hash: %v", err))
	}
	return &AccountService{repo: repo, cost: cost, dummyHash: dummy}
}

func (s *AccountService) Register(ctx context.Context, username, email, password string) (models.Account, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "AccountService.Register")
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		outcome := "error"
		if errors.Is(err, models.ErrDuplicateUsername) || errors.Is(err, models.ErrDuplicateEmail) {
			outcome = "duplicate"
		}
		telemetry.AuthAttemptsTotal.WithLabelValues("register", outcome).Inc()
		return models.Account{}, err
	}

	telemetry.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	telemetry.Logger.Info("Account registered",
		zap.Int64("account_id", account.ID),
		zap.String("username", account.Username),
	)
	return account, nil
}

// Authenticate returns models.ErrInvalidCredentials for unknown usernames and
// wrong passwords alike.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (models.Account, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "AccountService.Authenticate")
	defer span.End()

	account, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrAccountNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		telemetry.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return models.Account{}, models.ErrInvalidCredentials
	}
	if err != nil {
		telemetry.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return models.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		telemetry.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return models.Account{}, models.ErrInvalidCredentials
	}

	telemetry.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return account, nil
}

func (s *AccountService) AccountByID(ctx context.Context, id int64) (models.Account, error) {
	return s.repo.GetByID(ctx, id)
}
