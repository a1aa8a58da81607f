package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/nadzzz/chime/internal/reminder"
	"github.com/nadzzz/chime/internal/store"
)

type notification struct {
	title   string
	message string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (n *fakeNotifier) Notify(_ context.Context, title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{title: title, message: message})
	return n.err
}

func (n *fakeNotifier) Sent() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 10, hour, minute, 0, 0, time.Local)
}

type testSuite struct {
	suite.Suite
	store     *store.Store
	notifier  *fakeNotifier
	scheduler *Scheduler
}

func (s *testSuite) SetupTest() {
	s.store = store.Open(filepath.Join(s.T().TempDir(), "reminders.json"))
	s.notifier = &fakeNotifier{}
	s.scheduler = New(s.store, s.notifier, time.Minute)
}

func (s *testSuite) add(title, hhmm string) {
	c, err := reminder.ParseClock(hhmm)
	s.Require().NoError(err)
	s.store.Add(title, c)
}

func TestScheduler(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestFiresDueReminderOnce() {
	s.add("call mom", "17:30")

	fired := s.scheduler.Tick(context.Background(), at(18, 0))

	s.Require().Len(fired, 1)
	s.Equal("call mom", fired[0].Title)
	s.Equal(0, s.store.Len())
	s.Equal([]notification{{title: "call mom", message: "It's time for call mom!"}}, s.notifier.Sent())

	for i := 0; i < 5; i++ {
		s.Empty(s.scheduler.Tick(context.Background(), at(18, 1+i)))
	}
	s.Len(s.notifier.Sent(), 1)
}

func (s *testSuite) TestNothingDueLeavesStoreUnchanged() {
	s.add("dinner", "19:00")
	s.add("bed", "23:00")
	before := s.store.List()

	for i := 0; i < 3; i++ {
		s.Empty(s.scheduler.Tick(context.Background(), at(18, 0)))
	}

	s.Equal(before, s.store.List())
	s.Empty(s.notifier.Sent())
}

func (s *testSuite) TestExactTimeIsNotYetDue() {
	s.add("call mom", "17:30")

	s.Empty(s.scheduler.Tick(context.Background(), at(17, 30)))
	s.Len(s.scheduler.Tick(context.Background(), at(17, 30).Add(time.Second)), 1)
}

func (s *testSuite) TestFiresAllDueInStoreOrder() {
	s.add("b", "10:00")
	s.add("later", "20:00")
	s.add("a", "08:00")
	s.add("b", "10:00")

	fired := s.scheduler.Tick(context.Background(), at(12, 0))

	s.Require().Len(fired, 3)
	s.Equal("b", fired[0].Title)
	s.Equal("a", fired[1].Title)
	s.Equal("b", fired[2].Title)
	s.Equal([]reminder.Reminder{{Title: "later", Time: reminder.Clock{Hour: 20}}}, s.store.Reminders())
}

func (s *testSuite) TestNotifierFailureStillRemoves() {
	s.notifier.err = errors.New("no display")
	s.add("call mom", "17:30")

	s.Len(s.scheduler.Tick(context.Background(), at(18, 0)), 1)
	s.Equal(0, s.store.Len())
	s.Empty(s.scheduler.Tick(context.Background(), at(18, 5)))
	s.Len(s.notifier.Sent(), 1)
}

func (s *testSuite) TestConcurrentTicksFireOnce() {
	for i := 0; i < 20; i++ {
		s.add("stretch", "09:00")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.scheduler.Tick(context.Background(), at(10, 0))
		}()
	}
	wg.Wait()

	s.Len(s.notifier.Sent(), 20)
	s.Equal(0, s.store.Len())
}

func (s *testSuite) TestRunTicksUntilCancelled() {
	s.add("call mom", "17:30")
	sched := New(s.store, s.notifier, 10*time.Millisecond, WithClock(func() time.Time { return at(18, 0) }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	s.Eventually(func() bool { return len(s.notifier.Sent()) == 1 }, time.Second, 5*time.Millisecond)
	s.add("meeting", "09:00")
	s.Eventually(func() bool { return len(s.notifier.Sent()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	s.NoError(<-done)
	s.Equal(0, s.store.Len())
}
