package reservation

import (
	"sync"
	"testing"
	"time"

	"parkhive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(id string) (*models.Reservation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepo) GetByOwner(id, email string) (*models.Reservation, error) {
	args := m.Called(id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepo) GetAll() ([]models.Reservation, error) {
	args := m.Called()
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *mockRepo) GetByUser(email string) ([]models.Reservation, error) {
	args := m.Called(email)
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *mockRepo) GetBySlotDate(slot int, date string) ([]models.Reservation, error) {
	args := m.Called(slot, date)
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *mockRepo) GetByDate(date string) ([]models.Reservation, error) {
	args := m.Called(date)
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *mockRepo) GetBySchedule(slot int, date, startTime, endTime string) (*models.Reservation, error) {
	args := m.Called(slot, date, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepo) Create(res *models.Reservation) error { return m.Called(res).Error(0) }
func (m *mockRepo) Update(res *models.Reservation) error { return m.Called(res).Error(0) }
func (m *mockRepo) Delete(id string) error               { return m.Called(id).Error(0) }

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) IsValid(slot int) bool {
	return m.Called(slot).Bool(0)
}

func (m *mockRegistry) AllSlotIDs() []int {
	return m.Called().Get(0).([]int)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(event models.NotificationEvent) error {
	return m.Called(event).Error(0)
}

// fixedRegistry is a stub registry over a static slot set.
type fixedRegistry struct {
	ids []int
}

func (r fixedRegistry) IsValid(slot int) bool {
	for _, id := range r.ids {
		if id == slot {
			return true
		}
	}
	return false
}

func (r fixedRegistry) AllSlotIDs() []int { return r.ids }

const testDate = "2026-09-01"

// testClock is 08:00 local on testDate.
func testClock() time.Time {
	return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
}

func newTestService(repo *mockRepo, pub *mockPublisher) *DefaultReservationService {
	return &DefaultReservationService{
		Repo:      repo,
		Registry:  fixedRegistry{ids: []int{1, 2, 3}},
		Locks:     NewLocalLocker(),
		Publisher: pub,
		Now:       testClock,
	}
}

func TestReserve(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		repo.On("GetBySlotDate", 1, testDate).Return([]models.Reservation{}, nil).Once()
		repo.On("Create", mock.AnythingOfType("*models.Reservation")).Return(nil).Once()
		pub.On("Publish", mock.MatchedBy(func(e models.NotificationEvent) bool {
			return e.Type == models.EventReservation && e.Data.Slot == 1
		})).Return(nil).Once()

		res, err := svc.Reserve(1, "09:00:00", "10:00:00", testDate, "alice@example.com")
		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, 1, res.Slot)
		assert.False(t, res.Status)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockPublisher))

		_, err := svc.Reserve(1, "10:00:00", "09:00:00", testDate, "alice@example.com")
		assert.True(t, HasCode(err, CodeInvalidSchedule))
	})

	t.Run("ZeroDuration", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockPublisher))

		_, err := svc.Reserve(1, "09:00:00", "09:00:00", testDate, "alice@example.com")
		assert.True(t, HasCode(err, CodeInvalidSchedule))
	})

	t.Run("MalformedTime", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockPublisher))

		_, err := svc.Reserve(1, "9:00", "10:00:00", testDate, "alice@example.com")
		assert.True(t, HasCode(err, CodeInvalidSchedule))
	})

	t.Run("InvalidSlot", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockPublisher))

		_, err := svc.Reserve(9, "09:00:00", "10:00:00", testDate, "alice@example.com")
		assert.True(t, HasCode(err, CodeInvalidSlot))
	})

	t.Run("StartInThePast", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockPublisher))

		_, err := svc.Reserve(1, "07:00:00", "07:30:00", testDate, "alice@example.com")
		assert.True(t, HasCode(err, CodeInvalidSchedulingWindow))
	})

	t.Run("TomorrowAllowed", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		repo.On("GetBySlotDate", 1, "2026-09-02").Return([]models.Reservation{}, nil).Once()
		repo.On("Create", mock.AnythingOfType("*models.Reservation")).Return(nil).Once()
		pub.On("Publish", mock.Anything).Return(nil).Once()

		_, err := svc.Reserve(1, "09:00:00", "10:00:00", "2026-09-02", "alice@example.com")
		assert.NoError(t, err)
	})

	t.Run("BeyondOneDayAhead", func(t *testing.T) {
		svc := newTestService(new(mockRepo), new(mockPublisher))

		_, err := svc.Reserve(1, "09:00:00", "10:00:00", "2026-09-03", "alice@example.com")
		assert.True(t, HasCode(err, CodeInvalidSchedulingWindow))
	})

	t.Run("Conflict", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		existing := []models.Reservation{{
			ID: "r1", Slot: 1, Date: testDate,
			StartTime: "09:00:00", EndTime: "10:00:00", UserEmail: "alice@example.com",
		}}
		repo.On("GetBySlotDate", 1, testDate).Return(existing, nil).Once()

		_, err := svc.Reserve(1, "09:30:00", "10:30:00", testDate, "bob@example.com")
		assert.True(t, HasCode(err, CodeSlotConflict))
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("TouchingIntervalsAdmitted", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		existing := []models.Reservation{{
			ID: "r1", Slot: 1, Date: testDate,
			StartTime: "09:00:00", EndTime: "10:00:00", UserEmail: "alice@example.com",
		}}
		repo.On("GetBySlotDate", 1, testDate).Return(existing, nil).Once()
		repo.On("Create", mock.AnythingOfType("*models.Reservation")).Return(nil).Once()
		pub.On("Publish", mock.Anything).Return(nil).Once()

		_, err := svc.Reserve(1, "10:00:00", "11:00:00", testDate, "bob@example.com")
		assert.NoError(t, err)
	})

	t.Run("PublishFailureDoesNotFailReserve", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		repo.On("GetBySlotDate", 1, testDate).Return([]models.Reservation{}, nil).Once()
		repo.On("Create", mock.AnythingOfType("*models.Reservation")).Return(nil).Once()
		pub.On("Publish", mock.Anything).Return(assert.AnError).Once()

		res, err := svc.Reserve(1, "09:00:00", "10:00:00", testDate, "alice@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, res)
	})
}

// racingRepo is a stateful in-memory store that pauses between the conflict
// scan and the write, widening the gap a concurrent admission could fall into.
type racingRepo struct {
	mu        sync.Mutex
	stored    []models.Reservation
	scanDelay time.Duration
}

func (r *racingRepo) GetBySlotDate(slot int, date string) ([]models.Reservation, error) {
	r.mu.Lock()
	out := make([]models.Reservation, 0, len(r.stored))
	for _, res := range r.stored {
		if res.Slot == slot && res.Date == date {
			out = append(out, res)
		}
	}
	r.mu.Unlock()

	time.Sleep(r.scanDelay)
	return out, nil
}

func (r *racingRepo) Create(res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, *res)
	return nil
}

func (r *racingRepo) GetByID(string) (*models.Reservation, error)            { return nil, nil }
func (r *racingRepo) GetByOwner(string, string) (*models.Reservation, error) { return nil, nil }
func (r *racingRepo) GetAll() ([]models.Reservation, error)                  { return nil, nil }
func (r *racingRepo) GetByUser(string) ([]models.Reservation, error)         { return nil, nil }
func (r *racingRepo) GetByDate(string) ([]models.Reservation, error)         { return nil, nil }
func (r *racingRepo) GetBySchedule(int, string, string, string) (*models.Reservation, error) {
	return nil, nil
}
func (r *racingRepo) Update(*models.Reservation) error { return nil }
func (r *racingRepo) Delete(string) error              { return nil }

func TestReserveSerializesConcurrentAdmissions(t *testing.T) {
	repo := &racingRepo{scanDelay: 20 * time.Millisecond}
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything).Return(nil)
	svc := newTestService(nil, nil)
	svc.Repo = repo
	svc.Publisher = pub

	windows := [][2]string{
		{"09:00:00", "10:00:00"},
		{"09:30:00", "10:30:00"},
	}
	errs := make([]error, len(windows))
	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func(i int, start, end string) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(1, start, end, testDate, "alice@example.com")
		}(i, w[0], w[1])
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case HasCode(err, CodeSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, repo.stored, 1)
}

func TestUpdate(t *testing.T) {
	owned := &models.Reservation{
		ID: "r1", Slot: 1, Date: testDate,
		StartTime: "09:00:00", EndTime: "10:00:00",
		UserEmail: "alice@example.com", Status: true,
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		repo.On("GetByOwner", "r1", "alice@example.com").Return(owned, nil).Once()
		repo.On("GetBySlotDate", 2, testDate).Return([]models.Reservation{}, nil).Once()
		repo.On("Update", mock.AnythingOfType("*models.Reservation")).Return(nil).Once()
		pub.On("Publish", mock.MatchedBy(func(e models.NotificationEvent) bool {
			return e.Type == models.EventUpdate && e.Data.Slot == 2
		})).Return(nil).Once()

		res, err := svc.Update("r1", "alice@example.com", 2, "11:00:00", "12:00:00", testDate)
		assert.NoError(t, err)
		assert.Equal(t, 2, res.Slot)
		// A schedule change resets check-in.
		assert.False(t, res.Status)
		repo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		repo.On("GetByOwner", "missing", "alice@example.com").Return(nil, nil).Once()

		_, err := svc.Update("missing", "alice@example.com", 2, "11:00:00", "12:00:00", testDate)
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("SameScheduleDoesNotSelfConflict", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		repo.On("GetByOwner", "r1", "alice@example.com").Return(owned, nil).Once()
		// The stored copy of the record being updated is in the conflict set.
		repo.On("GetBySlotDate", 1, testDate).Return([]models.Reservation{*owned}, nil).Once()
		repo.On("Update", mock.AnythingOfType("*models.Reservation")).Return(nil).Once()
		pub.On("Publish", mock.Anything).Return(nil).Once()

		_, err := svc.Update("r1", "alice@example.com", 1, "09:00:00", "10:00:00", testDate)
		assert.NoError(t, err)
	})

	t.Run("ConflictWithOtherReservation", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		other := models.Reservation{
			ID: "r2", Slot: 2, Date: testDate,
			StartTime: "11:00:00", EndTime: "12:00:00", UserEmail: "bob@example.com",
		}
		repo.On("GetByOwner", "r1", "alice@example.com").Return(owned, nil).Once()
		repo.On("GetBySlotDate", 2, testDate).Return([]models.Reservation{other}, nil).Once()

		_, err := svc.Update("r1", "alice@example.com", 2, "11:30:00", "12:30:00", testDate)
		assert.True(t, HasCode(err, CodeSlotConflict))
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestCancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		res := &models.Reservation{
			ID: "r1", Slot: 1, Date: testDate,
			StartTime: "09:00:00", EndTime: "10:00:00", UserEmail: "alice@example.com",
		}
		repo.On("GetByOwner", "r1", "alice@example.com").Return(res, nil).Once()
		pub.On("Publish", mock.MatchedBy(func(e models.NotificationEvent) bool {
			return e.Type == models.EventCancellation
		})).Return(nil).Once()
		repo.On("Delete", "r1").Return(nil).Once()

		assert.NoError(t, svc.Cancel("r1", "alice@example.com"))
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("SecondCancelNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		repo.On("GetByOwner", "r1", "alice@example.com").Return(nil, nil).Once()

		err := svc.Cancel("r1", "alice@example.com")
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("WrongOwnerNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		repo.On("GetByOwner", "r1", "mallory@example.com").Return(nil, nil).Once()

		err := svc.Cancel("r1", "mallory@example.com")
		assert.True(t, HasCode(err, CodeNotFound))
	})
}

func TestAdminDelete(t *testing.T) {
	t.Run("NoOwnershipCheck", func(t *testing.T) {
		repo := new(mockRepo)
		pub := new(mockPublisher)
		svc := newTestService(repo, pub)

		res := &models.Reservation{
			ID: "r1", Slot: 1, Date: testDate,
			StartTime: "09:00:00", EndTime: "10:00:00", UserEmail: "alice@example.com",
		}
		repo.On("GetByID", "r1").Return(res, nil).Once()
		pub.On("Publish", mock.MatchedBy(func(e models.NotificationEvent) bool {
			return e.Type == models.EventCancellationAdmin
		})).Return(nil).Once()
		repo.On("Delete", "r1").Return(nil).Once()

		assert.NoError(t, svc.AdminDelete("r1"))
		pub.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		repo.On("GetByID", "missing").Return(nil, nil).Once()

		assert.True(t, HasCode(svc.AdminDelete("missing"), CodeNotFound))
	})
}

func TestVerify(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		res := &models.Reservation{
			ID: "r1", Slot: 1, Date: testDate,
			StartTime: "09:00:00", EndTime: "10:00:00", UserEmail: "alice@example.com",
		}
		repo.On("GetBySchedule", 1, testDate, "09:00:00", "10:00:00").Return(res, nil).Once()
		repo.On("Update", mock.MatchedBy(func(r *models.Reservation) bool {
			return r.ID == "r1" && r.Status
		})).Return(nil).Once()

		checked, found, err := svc.Verify(1, "09:00:00", "10:00:00", testDate)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.True(t, checked.Status)
		repo.AssertExpectations(t)
	})

	t.Run("NotFoundIsNotAnError", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		repo.On("GetBySchedule", 1, testDate, "09:00:00", "10:00:00").Return(nil, nil).Once()

		res, found, err := svc.Verify(1, "09:00:00", "10:00:00", testDate)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, res)
	})
}

func TestReads(t *testing.T) {
	t.Run("GetStatusNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		repo.On("GetBySchedule", 1, testDate, "09:00:00", "10:00:00").Return(nil, nil).Once()

		_, err := svc.GetStatus(1, "09:00:00", "10:00:00", testDate)
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("GetAllForUserEmpty", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		repo.On("GetByUser", "alice@example.com").Return([]models.Reservation{}, nil).Once()

		_, err := svc.GetAllForUser("alice@example.com")
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("GetAllForUser", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo, new(mockPublisher))

		owned := []models.Reservation{{ID: "r1", UserEmail: "alice@example.com"}}
		repo.On("GetByUser", "alice@example.com").Return(owned, nil).Once()

		got, err := svc.GetAllForUser("alice@example.com")
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
