package service

import (
	"context"
	"fmt"

	"name_guard/repository"

	"go.uber.org/zap"
)

// ClaimOutcome is the result of claiming a name.
type ClaimOutcome int

const (
	// ClaimAccepted means the name was new and is now stored.
	ClaimAccepted ClaimOutcome = iota
	// ClaimRejected means the filter reported the name as present. The store
	// was not consulted.
	ClaimRejected
	// ClaimTaken means the filter let the name through but the store already
	// had it: a concurrent claim, or a name beyond the warm-start bound.
	ClaimTaken
)

func (o ClaimOutcome) String() string {
	switch o {
	case ClaimAccepted:
		return "accepted"
	case ClaimRejected:
		return "rejected"
	case ClaimTaken:
		return "taken"
	default:
		return "unknown"
	}
}

// ClaimService is the request-side consumer of the guarded filter.
type ClaimService struct {
	guard  *GuardedFilter
	repo   repository.NameRepository
	logger *zap.Logger
}

func NewClaimService(guard *GuardedFilter, repo repository.NameRepository, logger *zap.Logger) *ClaimService {
	return &ClaimService{guard: guard, repo: repo, logger: logger}
}

// ValidateName rejects names the stores cannot key on.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrNameTooLong, len(name), MaxNameLength)
	}
	return nil
}

// Claim checks the filter first and writes the store second, never the
// reverse. The store write happens outside the filter lock.
//
// Once the filter accepts a name the store write runs to completion even if
// ctx is cancelled, so a shutdown never leaves a name in the filter that the
// store lacks. A write that fails anyway leaves the name in the filter; later
// claims for it are rejected, the same cost as a false positive. Every error
// path reports ClaimRejected.
func (s *ClaimService) Claim(ctx context.Context, name string) (ClaimOutcome, error) {
	if err := ValidateName(name); err != nil {
		return ClaimRejected, err
	}

	if s.guard.LookupAndMaybeInsert(name) == Rejected {
		return ClaimRejected, nil
	}

	inserted, err := s.repo.InsertIfAbsent(context.WithoutCancel(ctx), name)
	if err != nil {
		s.logger.Error("store write failed after filter accepted name",
			zap.String("name", name),
			zap.Error(err),
		)
		return ClaimRejected, fmt.Errorf("claim %q: %w", name, err)
	}
	if !inserted {
		return ClaimTaken, nil
	}
	return ClaimAccepted, nil
}

// Guard exposes the shared filter for stats and snapshots.
func (s *ClaimService) Guard() *GuardedFilter {
	return s.guard
}
