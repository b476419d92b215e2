package condition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh-io/orchestrator/internal/domain/entity"
)

func TestEvaluate_MatchesObservedStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		condition entity.EntryCondition
		status    Status
		want      bool
	}{
		{entity.PreviousProcessing, StatusProcessing, true},
		{entity.PreviousProcessing, StatusCompleted, false},
		{entity.PreviousCompleted, StatusCompleted, true},
		{entity.PreviousCompleted, StatusFailed, false},
		{entity.PreviousFailed, StatusFailed, true},
		{entity.PreviousCancelled, StatusCancelled, true},
		{entity.Always, StatusFailed, true},
		{entity.Never, StatusCompleted, false},
		{entity.EntryCondition("bogus"), StatusCompleted, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Evaluate(tc.condition, tc.status))
	}
}
