package quota

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDishPolicy(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		limit   int
		admit   bool
	}{
		{name: "under limit", current: 4, limit: 5, admit: true},
		{name: "at limit", current: 5, limit: 5, admit: false},
		{name: "over limit", current: 9, limit: 5, admit: false},
		{name: "zero limit blocks first dish", current: 0, limit: 0, admit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := evaluate(KindDish, tt.current, tt.limit)
			if tt.admit {
				require.NoError(t, err)
				assert.True(t, d.Admitted)
				assert.False(t, d.Inactive)
				return
			}
			var limitErr *LimitReachedError
			require.True(t, errors.As(err, &limitErr))
			assert.Equal(t, KindDish, limitErr.Kind)
			assert.Equal(t, tt.current, limitErr.Current)
			assert.Equal(t, tt.limit, limitErr.Max)
			assert.False(t, d.Admitted)
		})
	}
}

func TestEvaluateStaffOverflowCreatesInactive(t *testing.T) {
	d, err := evaluate(KindStaff, 2, 5)
	require.NoError(t, err)
	assert.True(t, d.Admitted)
	assert.False(t, d.Inactive)
	assert.Empty(t, d.Warning)

	d, err = evaluate(KindStaff, 5, 5)
	require.NoError(t, err)
	assert.True(t, d.Admitted)
	assert.True(t, d.Inactive)
	assert.Equal(t, StaffOverLimitWarning, d.Warning)
}

// Simulates a burst of concurrent dish creations against one tenant: with the
// per-tenant lock held around check-then-insert, exactly limit admissions
// succeed regardless of interleaving.
func TestKeyedMutexSerializesAdmissions(t *testing.T) {
	const (
		limit      = 5
		contenders = limit + 20
	)

	locks := newKeyedMutex()
	var current int64
	var admitted int

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.lock(42)
			defer release()

			d, err := evaluate(KindDish, current, limit)
			if err != nil {
				return
			}
			if d.Admitted {
				current++
				admitted++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, admitted)
	assert.EqualValues(t, limit, current)
}

func TestKeyedMutexReleasesIndependentTenants(t *testing.T) {
	locks := newKeyedMutex()

	releaseA := locks.lock(1)
	// A second tenant must not block on the first tenant's lock.
	done := make(chan struct{})
	go func() {
		releaseB := locks.lock(2)
		releaseB()
		close(done)
	}()
	<-done
	releaseA()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks, "released locks should be evicted")
}

func TestLimitReachedErrorMessage(t *testing.T) {
	err := &LimitReachedError{Kind: KindDish, Current: 5, Max: 5}
	assert.Equal(t, "dish limit reached: 5 of 5", err.Error())
}
