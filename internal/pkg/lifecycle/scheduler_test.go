package lifecycle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/menupilot/menupilot/app/models"
	"github.com/menupilot/menupilot/internal/pkg/payment"
	"github.com/menupilot/menupilot/internal/pkg/subscription"
)

// sweepRepo serves one overdue tenant, then nothing. Expirations are counted
// under a mutex because the scheduler sweeps from its own goroutine.
type sweepRepo struct {
	mu      sync.Mutex
	overdue []models.Restaurant
	expired int
}

func (r *sweepRepo) GetRestaurant(id uint) (*models.Restaurant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *sweepRepo) GetPlan(id uint) (*models.Plan, error) { return nil, gorm.ErrRecordNotFound }

func (r *sweepRepo) CountActiveDishes(restaurantID uint) (int64, error) { return 0, nil }

func (r *sweepRepo) CountActiveStaff(restaurantID uint) (int64, error) { return 0, nil }

func (r *sweepRepo) CreateRestaurant(restaurant *models.Restaurant, entry *models.SubscriptionLog) error {
	return nil
}

func (r *sweepRepo) SaveTransition(restaurant *models.Restaurant, entry *models.SubscriptionLog) error {
	return nil
}

func (r *sweepRepo) ExpireRestaurant(restaurantID uint, entry *models.SubscriptionLog) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired++
	return true, nil
}

func (r *sweepRepo) ListExpiredActive(limit int) ([]models.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.overdue
	r.overdue = nil
	return out, nil
}

func (r *sweepRepo) CreatePaymentOrder(order *models.PaymentOrder) error { return nil }

func (r *sweepRepo) GetPaymentOrder(id string) (*models.PaymentOrder, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *sweepRepo) CapturePayment(order *models.PaymentOrder, restaurant *models.Restaurant, entry *models.SubscriptionLog) error {
	return nil
}

func (r *sweepRepo) expiredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expired
}

func TestSweepOnceExpiresOverdue(t *testing.T) {
	repo := &sweepRepo{overdue: []models.Restaurant{{ID: 1}, {ID: 2}}}
	svc := subscription.NewService(repo, payment.NewGateway("test"))
	s := NewScheduler(svc, time.Hour)

	s.SweepOnce()
	assert.Equal(t, 2, repo.expiredCount())

	// Nothing left on the next run.
	s.SweepOnce()
	assert.Equal(t, 2, repo.expiredCount())
}

func TestSchedulerStartRunsInitialSweep(t *testing.T) {
	repo := &sweepRepo{overdue: []models.Restaurant{{ID: 1}}}
	svc := subscription.NewService(repo, payment.NewGateway("test"))
	s := NewScheduler(svc, time.Hour)

	s.Start()
	// Start is idempotent while running.
	s.Start()
	s.Stop()

	assert.Equal(t, 1, repo.expiredCount())
}

func TestSchedulerRestart(t *testing.T) {
	repo := &sweepRepo{}
	svc := subscription.NewService(repo, payment.NewGateway("test"))
	s := NewScheduler(svc, time.Hour)

	s.Start()
	s.Stop()
	// Stop again is a no-op.
	s.Stop()

	repo.mu.Lock()
	repo.overdue = []models.Restaurant{{ID: 3}}
	repo.mu.Unlock()

	s.Start()
	s.Stop()
	require.Equal(t, 1, repo.expiredCount())
}

func TestNewSchedulerFromEnvDefaultInterval(t *testing.T) {
	s := NewSchedulerFromEnv(subscription.NewService(&sweepRepo{}, payment.NewGateway("test")))
	assert.Equal(t, 5*time.Minute, s.interval)
}
