package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/mail"
	"cashtrackr/internal/models"
	"cashtrackr/internal/storage"
)

// AccountService orchestrates the account lifecycle: registration,
// confirmation, login and password recovery. It drives a small state
// machine per user, keyed on the confirmed flag and the pending
// verification action:
//
//	unregistered --Register--> unconfirmed, confirm token set
//	unconfirmed  --Confirm--> confirmed, no pending action
//	confirmed    --ForgotPassword--> confirmed, reset token set
//	             --ResetPassword--> confirmed, no pending action, new digest
type AccountService struct {
	store     storage.Store
	hasher    auth.Hasher
	jwt       *auth.JWTManager
	sender    mail.Sender
	actionTTL time.Duration
	logger    *slog.Logger
}

// NewAccountService creates the account lifecycle service. actionTTL is
// how long confirmation and reset codes stay valid.
func NewAccountService(store storage.Store, hasher auth.Hasher, jwt *auth.JWTManager, sender mail.Sender, actionTTL time.Duration, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:     store,
		hasher:    hasher,
		jwt:       jwt,
		sender:    sender,
		actionTTL: actionTTL,
		logger:    logger,
	}
}

// Register creates an unconfirmed account and dispatches the confirmation
// email. Fails with ErrDuplicateEmail if the email is already on file.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(name, email, digest)
	token := auth.GenerateActionToken()
	user.SetAction(models.ActionConfirm, token, time.Now().Add(s.actionTTL))

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	// Delivery is fire-and-forget: a mail failure must not undo a
	// successful registration.
	if err := s.sender.SendConfirmation(ctx, mail.Notification{
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}); err != nil {
		s.logger.Error("failed to send confirmation email", "email", user.Email, "error", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Confirm flips the account to confirmed and consumes the token.
// Fails with ErrInvalidToken if no user holds the token, the token is not
// a confirmation token, or it expired. Consuming the token makes a second
// call with the same code fail.
func (s *AccountService) Confirm(ctx context.Context, token string) error {
	user, err := s.lookupAction(ctx, token, models.ActionConfirm)
	if err != nil {
		return err
	}

	user.Confirmed = true
	user.ClearAction()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("account confirmed", "user_id", user.ID)
	return nil
}

// Login verifies credentials and issues a session token. Failure precedence:
// ErrUserNotFound, then ErrNotConfirmed, then ErrBadCredentials. A
// successful login performs no mutation.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	if !user.Confirmed {
		return "", ErrNotConfirmed
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrBadCredentials
	}

	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// ForgotPassword sets a fresh reset token on the account and dispatches the
// reset email. Fails with ErrUserNotFound if the email is not on file.
// Any previously pending action, including an unconsumed confirmation
// token, is replaced.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	token := auth.GenerateActionToken()
	user.SetAction(models.ActionReset, token, time.Now().Add(s.actionTTL))

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	if err := s.sender.SendPasswordReset(ctx, mail.Notification{
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}); err != nil {
		s.logger.Error("failed to send password reset email", "email", user.Email, "error", err)
	}

	s.logger.Info("password reset requested", "user_id", user.ID)
	return nil
}

// ValidateToken checks that a reset token exists and is still valid,
// without consuming it.
func (s *AccountService) ValidateToken(ctx context.Context, token string) error {
	_, err := s.lookupAction(ctx, token, models.ActionReset)
	return err
}

// ResetPassword replaces the password digest and consumes the reset token.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.lookupAction(ctx, token, models.ActionReset)
	if err != nil {
		return err
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = digest
	user.ClearAction()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

// ChangePassword replaces the password of an authenticated user after
// verifying the current one. Fails with ErrBadCredentials if the current
// password does not verify.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrBadCredentials
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = digest
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

// CheckPassword is the read-only variant of ChangePassword, used as a
// standalone "confirm it's really you" check.
func (s *AccountService) CheckPassword(ctx context.Context, userID, password string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return ErrBadCredentials
	}

	return nil
}

// CurrentUser resolves a user ID to the non-sensitive principal projection.
func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*auth.Principal, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &auth.Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// lookupAction finds the user holding a pending action token and checks
// the tag and expiry. Every failure collapses to ErrInvalidToken so the
// caller cannot distinguish a wrong code from an expired one.
func (s *AccountService) lookupAction(ctx context.Context, token string, kind models.ActionKind) (*models.User, error) {
	user, err := s.store.GetUserByActionToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if user.ActionKind != kind || user.ActionExpired(time.Now()) {
		return nil, ErrInvalidToken
	}

	return user, nil
}
