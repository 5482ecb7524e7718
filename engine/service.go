package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finlearn/content"
	"finlearn/core"
)

var (
	// ErrUnknownLesson rejects operations naming a lesson outside the catalog.
	ErrUnknownLesson = errors.New("unknown lesson")
	// ErrLessonLocked rejects completing a lesson the level gate still holds.
	ErrLessonLocked = errors.New("lesson locked at current level")
	// ErrNoSession is returned when no session has been started.
	ErrNoSession = errors.New("no active session")
)

// ProgressService is the single writer over the active progress record.
// Every operation loads the snapshot, applies the core mutators, saves the
// result (log-and-continue on failure), and publishes the resulting events.
type ProgressService struct {
	storage Storage
	bus     *EventBus
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	slot core.Slot
	open bool
}

// NewProgressService wires storage and event bus into the service.
func NewProgressService(storage Storage, bus *EventBus, logger *slog.Logger, now func() time.Time) *ProgressService {
	if storage == nil || bus == nil {
		panic("NewProgressService requires non-nil storage and bus")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &ProgressService{storage: storage, bus: bus, logger: logger, now: now}
}

// Subscribe convenience method.
func (s *ProgressService) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

func (s *ProgressService) Publish(ctx context.Context, ev core.Event) {
	s.bus.Publish(ctx, ev)
}

func (s *ProgressService) Close() { s.bus.Close() }

// LoginAsGuest activates the guest slot, creating a fresh record if none is
// stored yet.
func (s *ProgressService) LoginAsGuest(ctx context.Context) (core.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = core.SlotGuest
	s.open = true
	return s.loadOrDefault(ctx, "")
}

// Login activates the account slot for the given user id.
func (s *ProgressService) Login(ctx context.Context, userID string) (core.Progress, error) {
	normalized, err := core.NormalizeUserID(userID)
	if err != nil {
		return core.Progress{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = core.SlotAccount
	s.open = true
	return s.loadOrDefault(ctx, normalized)
}

// Logout deactivates the session. The stored snapshot is left in place.
func (s *ProgressService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// GetProgress returns the active record with the daily challenge set
// refreshed across the reset boundary.
func (s *ProgressService) GetProgress(ctx context.Context) (core.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return core.Progress{}, ErrNoSession
	}
	p, err := s.loadOrDefault(ctx, "")
	if err != nil {
		return core.Progress{}, err
	}
	refreshed := core.RefreshDailyChallenges(p, s.now())
	if !refreshed.ChallengesResetAt.Equal(p.ChallengesResetAt) {
		s.saveOrLog(ctx, refreshed)
	}
	return refreshed, nil
}

// WeeklyChallenges derives the weekly challenge view for the active record.
func (s *ProgressService) WeeklyChallenges(ctx context.Context) ([]core.ChallengeInstance, error) {
	p, err := s.GetProgress(ctx)
	if err != nil {
		return nil, err
	}
	return core.WeeklyChallenges(p), nil
}

// CompleteLesson records a lesson completion, awards its XP, advances the
// daily lesson challenge, and extends the streak. Completing an already
// completed lesson is a no-op returning the current record.
func (s *ProgressService) CompleteLesson(ctx context.Context, lessonID string) (core.Progress, core.SideEffects, error) {
	lesson, ok := content.LessonByID(lessonID)
	if !ok {
		return core.Progress{}, core.SideEffects{}, fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return core.Progress{}, core.SideEffects{}, ErrNoSession
	}
	p, err := s.loadOrDefault(ctx, "")
	if err != nil {
		return core.Progress{}, core.SideEffects{}, err
	}
	now := s.now()
	p = core.RefreshDailyChallenges(p, now)

	if !lesson.Unlocked(p) {
		return p, core.SideEffects{}, fmt.Errorf("%w: %s", ErrLessonLocked, lessonID)
	}
	if p.HasLesson(lessonID) {
		return p, core.SideEffects{}, nil
	}

	touched := core.TouchStreak(p, now)
	challenges := core.AdvanceChallenges(touched.DailyChallenges, core.ChallengeLesson, 1)
	if touched.Streak != p.Streak {
		challenges = core.AdvanceChallenges(challenges, core.ChallengeStreak, 1)
	}

	// The pre-touch record is the diff base so a streak that just crossed a
	// badge threshold still reads as newly earned.
	xp := p.XP + lesson.XP
	next, effects := core.ApplyUpdate(p, core.Update{
		XP:               &xp,
		Streak:           &touched.Streak,
		CompletedLessons: append(append([]string(nil), p.CompletedLessons...), lessonID),
		DailyChallenges:  challenges,
		LastActive:       &now,
	}, now)

	s.saveOrLog(ctx, next)
	s.publishEffects(ctx, next, effects)
	s.bus.Publish(ctx, core.NewLessonCompleted(next.UserID, lessonID))
	s.bus.Publish(ctx, core.NewXPAdded(next.UserID, lesson.XP, next.XP))
	if touched.Streak != p.Streak {
		s.bus.Publish(ctx, core.NewStreakExtended(next.UserID, next.Streak))
	}
	return next, effects, nil
}

// SubmitQuiz grades the answers for a lesson's quiz and applies the result.
// A retake of an already recorded quiz is graded but changes no state.
func (s *ProgressService) SubmitQuiz(ctx context.Context, lessonID string, selections []int) (content.QuizResult, core.Progress, core.SideEffects, error) {
	result, ok := content.Grade(lessonID, selections)
	if !ok {
		return content.QuizResult{}, core.Progress{}, core.SideEffects{}, fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return content.QuizResult{}, core.Progress{}, core.SideEffects{}, ErrNoSession
	}
	p, err := s.loadOrDefault(ctx, "")
	if err != nil {
		return content.QuizResult{}, core.Progress{}, core.SideEffects{}, err
	}
	now := s.now()
	p = core.RefreshDailyChallenges(p, now)

	if p.HasQuiz(lessonID) {
		return result, p, core.SideEffects{}, nil
	}

	touched := p
	if result.Passed {
		touched = core.TouchStreak(p, now)
	}
	challenges := core.AdvanceChallenges(touched.DailyChallenges, core.ChallengeQuiz, 1)
	if touched.Streak != p.Streak {
		challenges = core.AdvanceChallenges(challenges, core.ChallengeStreak, 1)
	}

	xp := p.XP + result.XPEarned
	next, effects := core.ApplyUpdate(p, core.Update{
		XP:               &xp,
		Streak:           &touched.Streak,
		CompletedQuizzes: append(append([]string(nil), p.CompletedQuizzes...), lessonID),
		DailyChallenges:  challenges,
		LastActive:       &now,
	}, now)

	s.saveOrLog(ctx, next)
	s.publishEffects(ctx, next, effects)
	s.bus.Publish(ctx, core.NewQuizSubmitted(next.UserID, lessonID, result.Passed))
	s.bus.Publish(ctx, core.NewXPAdded(next.UserID, result.XPEarned, next.XP))
	if touched.Streak != p.Streak {
		s.bus.Publish(ctx, core.NewStreakExtended(next.UserID, next.Streak))
	}
	return result, next, effects, nil
}

// EndMonth runs one month of the budget simulator. The simulation state is
// owned by the caller; the progress record only absorbs XP and the
// simulation counter. An over-budget allocation changes nothing.
func (s *ProgressService) EndMonth(ctx context.Context, sim core.Simulation, alloc core.Allocation) (core.Simulation, core.MonthResult, core.Progress, core.SideEffects, error) {
	nextSim, res, err := sim.EndMonth(alloc)
	if err != nil {
		return sim, core.MonthResult{}, core.Progress{}, core.SideEffects{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return sim, core.MonthResult{}, core.Progress{}, core.SideEffects{}, ErrNoSession
	}
	p, err := s.loadOrDefault(ctx, "")
	if err != nil {
		return sim, core.MonthResult{}, core.Progress{}, core.SideEffects{}, err
	}
	now := s.now()
	p = core.RefreshDailyChallenges(p, now)

	xp := p.XP + res.XPEarned
	sims := p.CompletedSimulations + 1
	next, effects := core.ApplyUpdate(p, core.Update{
		XP:                   &xp,
		CompletedSimulations: &sims,
		DailyChallenges:      core.AdvanceChallenges(p.DailyChallenges, core.ChallengeSimulator, 1),
		LastActive:           &now,
	}, now)

	s.saveOrLog(ctx, next)
	s.publishEffects(ctx, next, effects)
	s.bus.Publish(ctx, core.NewMonthEnded(next.UserID, res.Month, res.XPEarned))
	s.bus.Publish(ctx, core.NewXPAdded(next.UserID, res.XPEarned, next.XP))
	return nextSim, res, next, effects, nil
}

// ClaimChallenge claims a daily challenge reward. Claiming an unmet or
// already claimed challenge is a no-op, not an error.
func (s *ProgressService) ClaimChallenge(ctx context.Context, challengeID string) (core.Progress, core.SideEffects, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return core.Progress{}, core.SideEffects{}, ErrNoSession
	}
	p, err := s.loadOrDefault(ctx, "")
	if err != nil {
		return core.Progress{}, core.SideEffects{}, err
	}
	now := s.now()
	p = core.RefreshDailyChallenges(p, now)

	challenges, delta := core.ClaimChallenge(p.DailyChallenges, challengeID)
	if delta == 0 {
		return p, core.SideEffects{}, nil
	}

	xp := p.XP + delta
	next, effects := core.ApplyUpdate(p, core.Update{
		XP:              &xp,
		DailyChallenges: challenges,
		LastActive:      &now,
	}, now)

	s.saveOrLog(ctx, next)
	s.publishEffects(ctx, next, effects)
	s.bus.Publish(ctx, core.NewChallengeClaimed(next.UserID, challengeID, delta))
	s.bus.Publish(ctx, core.NewXPAdded(next.UserID, delta, next.XP))
	return next, effects, nil
}

// AddFriend appends a friend id to the record. Adding an existing friend is
// a no-op.
func (s *ProgressService) AddFriend(ctx context.Context, friendID string) (core.Progress, core.SideEffects, error) {
	normalized, err := core.NormalizeUserID(friendID)
	if err != nil {
		return core.Progress{}, core.SideEffects{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return core.Progress{}, core.SideEffects{}, ErrNoSession
	}
	p, err := s.loadOrDefault(ctx, "")
	if err != nil {
		return core.Progress{}, core.SideEffects{}, err
	}
	for _, f := range p.Friends {
		if f == normalized {
			return p, core.SideEffects{}, nil
		}
	}
	now := s.now()

	next, effects := core.ApplyUpdate(p, core.Update{
		Friends:    append(append([]string(nil), p.Friends...), normalized),
		LastActive: &now,
	}, now)

	s.saveOrLog(ctx, next)
	s.publishEffects(ctx, next, effects)
	return next, effects, nil
}

// ApplyUpdate exposes the raw mutator on the active record for callers that
// compose their own partial updates.
func (s *ProgressService) ApplyUpdate(ctx context.Context, u core.Update) (core.Progress, core.SideEffects, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return core.Progress{}, core.SideEffects{}, ErrNoSession
	}
	p, err := s.loadOrDefault(ctx, "")
	if err != nil {
		return core.Progress{}, core.SideEffects{}, err
	}
	next, effects := core.ApplyUpdate(p, u, s.now())
	s.saveOrLog(ctx, next)
	s.publishEffects(ctx, next, effects)
	return next, effects, nil
}

// loadOrDefault loads the active slot, creating a fresh record when the slot
// is empty and falling back to one when the stored snapshot is corrupt.
// Callers must hold s.mu.
func (s *ProgressService) loadOrDefault(ctx context.Context, userID string) (core.Progress, error) {
	p, err := s.storage.Load(ctx, s.slot)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, ErrNotFound):
	case errors.Is(err, ErrCorruptSnapshot):
		s.logger.Warn("discarding corrupt progress snapshot", "slot", s.slot, "error", err)
	default:
		return core.Progress{}, err
	}

	now := s.now()
	fresh := core.NewGuestProgress(now)
	if s.slot == core.SlotAccount {
		if userID == "" {
			userID = "user"
		}
		fresh = core.NewAccountProgress(userID, now)
	}
	s.saveOrLog(ctx, fresh)
	return fresh, nil
}

// saveOrLog persists the snapshot; persistence is fire-and-forget and a
// failed write never rolls back the in-memory result.
func (s *ProgressService) saveOrLog(ctx context.Context, p core.Progress) {
	if err := s.storage.Save(ctx, s.slot, p); err != nil {
		s.logger.Error("saving progress snapshot", "slot", s.slot, "error", err)
	}
}

func (s *ProgressService) publishEffects(ctx context.Context, p core.Progress, effects core.SideEffects) {
	if effects.LeveledUp {
		s.bus.Publish(ctx, core.NewLevelUp(p.UserID, p.Level))
	}
	for _, def := range effects.NewBadges {
		s.bus.Publish(ctx, core.NewBadgeEarned(p.UserID, def.ID))
	}
}
