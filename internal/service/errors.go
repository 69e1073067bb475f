package service

import (
	"fmt"

	"github.com/phrazzld/splitledger/internal/domain"
)

// Business-rule violations surfaced by the consistency engine. All wrap
// domain.ErrInvalidState so callers can classify them uniformly.
var (
	// ErrPayerNotMember is returned when an expense's payer does not
	// belong to the expense's group.
	ErrPayerNotMember = fmt.Errorf("%w: expense payer is not a group member", domain.ErrInvalidState)

	// ErrDebtorNotMember is returned when an expense share's debtor does
	// not belong to the expense's group.
	ErrDebtorNotMember = fmt.Errorf("%w: expense debtor is not a group member", domain.ErrInvalidState)

	// ErrSettlementPartyNotMember is returned when a group-scoped
	// settlement names a payer or payee outside the group.
	ErrSettlementPartyNotMember = fmt.Errorf("%w: settlement party is not a member of the scoping group", domain.ErrInvalidState)
)
