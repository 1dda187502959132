package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-pay/custodia/internal/beacon"
	"github.com/custodia-pay/custodia/internal/config"
	"github.com/custodia-pay/custodia/internal/gateway"
)

var (
	// ErrAccountLimit indicates the user already owns the configured maximum
	// number of accounts. No RPC is attempted once the limit is hit.
	ErrAccountLimit = errors.New("accounts-per-user limit reached")
	// ErrNotOwner indicates the account is not assigned to the caller.
	ErrNotOwner = errors.New("account not owned by user")
)

// Gateway is the slice of the command gateway the orchestrator drives.
// *gateway.Gateway satisfies it.
type Gateway interface {
	GetAccountInfo(ctx context.Context, ownedNames []string) gateway.Result
	GetAccountReceipts(ctx context.Context, name string) gateway.Result
	Connect(ctx context.Context, name, beacon string) gateway.Result
	Clear(ctx context.Context, name string) gateway.Result
	Remove(ctx context.Context, name string) gateway.Result
	Create(ctx context.Context, name string, capMsats, startMsats int64) gateway.Result
}

// removalState tracks the remove-account workflow. A failure at any step is
// terminal: effects already committed remotely stay as-is, and no
// compensating rollback is attempted.
type removalState int

const (
	removalActive removalState = iota
	removalClearPending
	removalClearedAwaitingRemoval
	removalRemoved
	removalFailed
)

func (s removalState) String() string {
	switch s {
	case removalActive:
		return "active"
	case removalClearPending:
		return "clear_pending"
	case removalClearedAwaitingRemoval:
		return "cleared_awaiting_removal"
	case removalRemoved:
		return "removed"
	case removalFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Service sequences account workflows: gateway calls combined with local
// assignment updates, stopping at the first failure.
type Service struct {
	repo    Repository
	gw      Gateway
	account config.AccountConfig
	relay   string
	logger  *slog.Logger
}

// NewService builds the account orchestrator.
func NewService(repo Repository, gw Gateway, account config.AccountConfig, relay string, logger *slog.Logger) *Service {
	return &Service{repo: repo, gw: gw, account: account, relay: relay, logger: logger}
}

// List returns the accounts view for a user. A gateway failure renders as an
// inline error on an empty list rather than an error return.
func (s *Service) List(ctx context.Context, userID string) (AccountsView, error) {
	names, err := s.repo.ListNamesByOwner(ctx, userID)
	if err != nil {
		return AccountsView{}, fmt.Errorf("list owned accounts: %w", err)
	}

	view := AccountsView{View: "accounts", Accounts: []AccountRow{}}
	if len(names) == 0 {
		return view, nil
	}

	res := s.gw.GetAccountInfo(ctx, names)
	if !res.OK {
		view.Error = res.Err
		return view, nil
	}
	view.Accounts = accountRowsFromPayload(res.Payload)
	return view, nil
}

// Receipts fetches and formats the receipt history for one owned account.
func (s *Service) Receipts(ctx context.Context, userID, name string) (ReceiptsView, error) {
	if err := s.requireOwner(ctx, userID, name); err != nil {
		return ReceiptsView{}, err
	}

	res := s.gw.GetAccountReceipts(ctx, name)
	if !res.OK {
		return ReceiptsView{}, errors.New(res.Err)
	}
	return ReceiptsView{
		View:     "receipts",
		Account:  name,
		Sessions: sessionsFromPayload(res.Payload),
	}, nil
}

// GenerateBeacon mints a relay beacon for the account and registers it with
// terminus.
func (s *Service) GenerateBeacon(ctx context.Context, userID, name string) error {
	if err := s.requireOwner(ctx, userID, name); err != nil {
		return err
	}

	encoded, err := beacon.NewRelay(s.relay).Encode()
	if err != nil {
		return fmt.Errorf("encode beacon: %w", err)
	}

	if res := s.gw.Connect(ctx, name, encoded); !res.OK {
		return errors.New(res.Err)
	}
	return nil
}

// ClearBeacons disconnects all beacons from the account.
func (s *Service) ClearBeacons(ctx context.Context, userID, name string) error {
	if err := s.requireOwner(ctx, userID, name); err != nil {
		return err
	}
	if res := s.gw.Clear(ctx, name); !res.OK {
		return errors.New(res.Err)
	}
	return nil
}

// RemoveAccount clears the account's beacons, removes the account on
// terminus, and only when both calls succeed deletes the local assignment.
// A failed clear never issues the remove RPC.
func (s *Service) RemoveAccount(ctx context.Context, userID, name string) error {
	if err := s.requireOwner(ctx, userID, name); err != nil {
		return err
	}

	state := removalActive

	state = s.transition(name, state, removalClearPending)
	if res := s.gw.Clear(ctx, name); !res.OK {
		s.transition(name, state, removalFailed)
		return errors.New(res.Err)
	}

	state = s.transition(name, state, removalClearedAwaitingRemoval)
	if res := s.gw.Remove(ctx, name); !res.OK {
		s.transition(name, state, removalFailed)
		return errors.New(res.Err)
	}

	s.transition(name, state, removalRemoved)

	if err := s.repo.DeleteByName(ctx, userID, name); err != nil {
		// The remote account is gone but the local row survived; surface it
		// so the divergence is visible instead of silent.
		return fmt.Errorf("remote account removed but local assignment not deleted: %w", err)
	}
	return nil
}

// CreateAccount provisions a new account for the user, enforcing the
// per-user limit before any RPC is attempted.
func (s *Service) CreateAccount(ctx context.Context, userID, username string) error {
	count, err := s.repo.CountByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("count owned accounts: %w", err)
	}
	if count >= s.account.PerUser {
		return ErrAccountLimit
	}

	res := s.gw.Create(ctx, username, s.account.CapMsats, s.account.StartMsats)
	if !res.OK {
		return errors.New(res.Err)
	}

	name, _ := res.Payload["name"].(string)
	if name == "" {
		return errors.New("create reported success without an account name")
	}

	return s.repo.Create(ctx, Assignment{
		ID:          uuid.New().String(),
		UserID:      userID,
		AccountName: name,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *Service) requireOwner(ctx context.Context, userID, name string) error {
	names, err := s.repo.ListNamesByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list owned accounts: %w", err)
	}
	for _, owned := range names {
		if owned == name {
			return nil
		}
	}
	return ErrNotOwner
}

func (s *Service) transition(name string, from, to removalState) removalState {
	s.logger.Info("account removal state",
		slog.String("account", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
	return to
}
