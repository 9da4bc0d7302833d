package leave

import (
	"context"
	"time"

	"go-hrms/internal/shared/clock"
)

var defaultAllocation = map[string]int{
	TypeCasual:    12,
	TypeSick:      10,
	TypeEarned:    15,
	TypeMaternity: 180,
	TypePaternity: 15,
}

// AllocationPolicy is the yearly entitlement in days per leave type.
type AllocationPolicy struct {
	days map[string]int
}

func DefaultAllocationPolicy() AllocationPolicy {
	return NewAllocationPolicy(nil)
}

// NewAllocationPolicy applies overrides on top of the defaults. Unknown types and negative values are ignored.
func NewAllocationPolicy(overrides map[string]int) AllocationPolicy {
	days := make(map[string]int, len(defaultAllocation))
	for t, d := range defaultAllocation {
		days[t] = d
	}
	for t, d := range overrides {
		if isKnownType(t) && d >= 0 {
			days[t] = d
		}
	}
	return AllocationPolicy{days: days}
}

func (p AllocationPolicy) Allocated(leaveType string) int {
	return p.days[leaveType]
}

// BalanceCalculator derives the remaining allowance from the approved requests of the current year.
type BalanceCalculator struct {
	repo   Repository
	policy AllocationPolicy
	clock  clock.Clock
}

func NewBalanceCalculator(repo Repository, policy AllocationPolicy, clk clock.Clock) *BalanceCalculator {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &BalanceCalculator{repo: repo, policy: policy, clock: clk}
}

func (b *BalanceCalculator) Calculate(ctx context.Context, employeeID string) (BalanceResponse, error) {
	from, to := yearRange(b.clock.Now())

	used, err := b.repo.SumApprovedDaysByType(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	balance := make(BalanceResponse, len(Types))
	for _, t := range Types {
		allocated := b.policy.Allocated(t)
		balance[t] = BalanceEntry{
			Allocated: allocated,
			Used:      used[t],
			Remaining: max(0, allocated-used[t]),
		}
	}
	return balance, nil
}

// yearRange returns Jan 1 and Dec 31 of the year containing now.
func yearRange(now time.Time) (time.Time, time.Time) {
	year := now.Year()
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// inclusiveDays counts calendar days from start to end, both included.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
