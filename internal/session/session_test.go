package session

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/bubblemath/internal/core"
	"github.com/vovakirdan/bubblemath/internal/field"
	"github.com/vovakirdan/bubblemath/internal/progress"
	"github.com/vovakirdan/bubblemath/internal/round"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

type scriptedRand struct {
	vals []int
	i    int
}

func (s *scriptedRand) Intn(n int) int {
	if s.i < len(s.vals) {
		v := s.vals[s.i] % n
		s.i++
		return v
	}
	return 0
}

func (s *scriptedRand) Float64() float64 { return 0 }

type fakeLeaderboard struct {
	submitted []int
	err       error
}

func (l *fakeLeaderboard) Submit(score int) error {
	l.submitted = append(l.submitted, score)
	return l.err
}

type fakeFeedback struct {
	correct  int
	wrong    int
	selected []int
}

func (f *fakeFeedback) CorrectAnswer()           { f.correct++ }
func (f *fakeFeedback) WrongAnswer()             { f.wrong++ }
func (f *fakeFeedback) BubbleSelected(digit int) { f.selected = append(f.selected, digit) }

type failingProgress struct{}

func (failingProgress) Load() (progress.Record, error) { return progress.Record{}, errors.New("disk gone") }
func (failingProgress) Save(progress.Record) error      { return errors.New("disk gone") }

func testTable() tier.Table {
	var tb tier.Table
	multipliers := [tier.Count]float64{1, 1.25, 1.5, 2, 2.5}
	for i := range tb {
		tb[i] = tier.Params{
			Add:             tier.Range{Min: 10, Max: 20},
			Sub:             tier.Range{Min: 1, Max: 15},
			Mul:             tier.Range{Min: 4, Max: 20},
			Div:             tier.Range{Min: 2, Max: 10},
			DigitMin:        2,
			DigitMax:        6,
			SpawnInterval:   time.Second,
			Lifetime:        3 * time.Second,
			ScoreMultiplier: multipliers[i],
		}
	}
	return tb
}

func testConfig() Config {
	return Config{
		Tiers:      testTable(),
		BasePoints: 20,
		RoundTime:  30 * time.Second,
		EndDelay:   700 * time.Millisecond,
	}
}

type harness struct {
	m        *Machine
	store    *progress.MemoryStore
	board    *fakeLeaderboard
	feedback *fakeFeedback
}

func newHarness(rng core.Rand, cfg Config, rec progress.Record) *harness {
	h := &harness{
		store:    progress.NewMemoryStore(rec),
		board:    &fakeLeaderboard{},
		feedback: &fakeFeedback{},
	}
	f := field.New(field.Settings{
		Bounds:        core.NewRect(core.V(0, 0), core.V(50, 50)),
		MinSeparation: 0.5,
	}, rand.New(rand.NewSource(1)), nil, nil)
	gen := round.NewGenerator(rng, round.Settings{Count: 30, ExcludeOne: true}, nil)
	h.m = New(cfg, gen, f, Collaborators{
		Progress:    h.store,
		Leaderboard: h.board,
		Feedback:    h.feedback,
	}, nil)
	return h
}

func (h *harness) record(t *testing.T) progress.Record {
	t.Helper()
	rec, err := h.store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return rec
}

func TestCorrectAnswerScenario(t *testing.T) {
	// First round: Add, digit 3, target 15.
	h := newHarness(&scriptedRand{vals: []int{0, 1, 5}}, testConfig(), progress.Record{})
	h.m.Start()

	r := h.m.Round()
	if r.Op != round.Add || r.Start != 12 || r.Target != 15 || r.Digit != 3 {
		t.Fatalf("first round = %s, expected 12 + ? = 15", r.Expression())
	}

	if got := h.m.OnDigitSelected(3); got != Correct {
		t.Fatalf("OnDigitSelected(3) = %v, expected Correct", got)
	}
	if h.m.Score() != 20 || h.m.LastGain() != 20 {
		t.Errorf("score = %d (gain %d), expected 20", h.m.Score(), h.m.LastGain())
	}
	if h.m.RoundNumber() != 2 {
		t.Errorf("RoundNumber() = %d, expected a fresh round", h.m.RoundNumber())
	}
	if rec := h.record(t); rec.CurrentScore != 20 {
		t.Errorf("persisted score = %d, expected 20", rec.CurrentScore)
	}
	if h.feedback.correct != 1 {
		t.Errorf("feedback saw %d correct answers", h.feedback.correct)
	}
}

func TestWrongAnswerEndsAfterDelay(t *testing.T) {
	h := newHarness(&scriptedRand{vals: []int{0, 1, 5}}, testConfig(), progress.Record{})
	h.m.Start()
	savesBefore := h.store.Saves()

	if got := h.m.OnDigitSelected(4); got != Wrong {
		t.Fatalf("OnDigitSelected(4) = %v, expected Wrong", got)
	}
	if h.m.Score() != 0 {
		t.Errorf("wrong answer changed the score to %d", h.m.Score())
	}
	if h.store.Saves() != savesBefore+1 {
		t.Errorf("wrong answer should persist once, saves %d -> %d", savesBefore, h.store.Saves())
	}
	if !h.m.Ending() || h.m.State() != Active {
		t.Fatalf("expected an active session waiting to end, got %v ending=%v", h.m.State(), h.m.Ending())
	}
	if got := h.m.OnDigitSelected(3); got != Ignored {
		t.Errorf("selection during the end delay = %v, expected Ignored", got)
	}

	h.m.Advance(699 * time.Millisecond)
	if h.m.State() != Active {
		t.Fatal("session ended before the delay elapsed")
	}
	h.m.Advance(time.Millisecond)
	if h.m.State() != Ended {
		t.Fatalf("State() = %v after the delay, expected Ended", h.m.State())
	}
	if h.feedback.wrong != 1 {
		t.Errorf("feedback saw %d wrong answers", h.feedback.wrong)
	}
}

func TestWrongAnswerNeverIncreasesScore(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(5)), testConfig(), progress.Record{})
	for i := 0; i < 200; i++ {
		h.m.Start()
		h.m.score = i * 10
		r := h.m.Round()
		wrong := r.Digit + 100
		if h.m.OnDigitSelected(wrong) != Wrong {
			t.Fatalf("digit %d should be wrong for %s", wrong, r.Expression())
		}
		if h.m.Score() != i*10 {
			t.Fatalf("score changed from %d to %d", i*10, h.m.Score())
		}
		if rec := h.record(t); rec.CurrentScore != i*10 {
			t.Fatalf("persisted %d, expected %d", rec.CurrentScore, i*10)
		}
		h.m.Advance(time.Second)
		if h.m.State() != Ended {
			t.Fatalf("iteration %d: session did not end", i)
		}
	}
}

func TestSelectBubble(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(9)), testConfig(), progress.Record{})
	h.m.Start()

	if got := h.m.Select(12345); got != Ignored {
		t.Errorf("Select(unknown) = %v, expected Ignored", got)
	}

	for step := 0; step < 400; step++ {
		h.m.Advance(100 * time.Millisecond)
		b, ok := h.m.Field().FindDigit(h.m.Round().Digit)
		if !ok {
			continue
		}
		if got := h.m.Select(b.ID); got != Correct {
			t.Fatalf("Select(correct bubble) = %v", got)
		}
		if _, live := h.m.Field().Get(b.ID); live {
			t.Error("selected bubble still on the field")
		}
		if len(h.feedback.selected) != 1 || h.feedback.selected[0] != b.Digit {
			t.Errorf("feedback selections = %v", h.feedback.selected)
		}
		return
	}
	t.Fatal("correct digit never appeared on the field")
}

func TestTierAdvancesWithScore(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(3)), testConfig(), progress.Record{})
	h.m.Start()
	h.m.score = 240

	h.m.OnDigitSelected(h.m.Round().Digit)
	if h.m.Score() != 260 || h.m.Tier() != tier.T1 {
		t.Fatalf("score %d tier %v, expected 260 in T1", h.m.Score(), h.m.Tier())
	}

	h.m.OnDigitSelected(h.m.Round().Digit)
	if h.m.LastGain() != 25 {
		t.Errorf("T1 gain = %d, expected round(20 × 1.25) = 25", h.m.LastGain())
	}
}

func TestRoundTimeoutRollsOver(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(4)), testConfig(), progress.Record{})
	h.m.Start()

	h.m.Advance(29 * time.Second)
	if h.m.RoundNumber() != 1 {
		t.Fatalf("round rolled over early: %d", h.m.RoundNumber())
	}
	h.m.Advance(time.Second)
	if h.m.RoundNumber() != 2 {
		t.Fatalf("RoundNumber() = %d after the budget, expected 2", h.m.RoundNumber())
	}
	if h.m.State() != Active || h.m.Score() != 0 {
		t.Errorf("timeout must not end the session or score: %v, %d", h.m.State(), h.m.Score())
	}
	if h.m.RoundRemaining() != 30*time.Second {
		t.Errorf("round timer not reset: %v", h.m.RoundRemaining())
	}
}

func TestPauseSuspendsEverything(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(6)), testConfig(), progress.Record{})
	h.m.Start()
	h.m.Advance(10 * time.Second)

	fieldNow := h.m.Field().Now()
	live := h.m.Field().Len()

	h.m.Pause()
	h.m.Advance(time.Hour)
	if h.m.State() != Paused || h.m.RoundNumber() != 1 {
		t.Fatalf("pause leaked: state %v round %d", h.m.State(), h.m.RoundNumber())
	}
	if h.m.Field().Now() != fieldNow || h.m.Field().Len() != live {
		t.Fatal("field advanced while paused")
	}
	if h.m.OnDigitSelected(h.m.Round().Digit) != Ignored {
		t.Error("answers must be ignored while paused")
	}
	if b := h.m.Field().Bubbles(); len(b) > 0 && h.m.Select(b[0].ID) != Ignored {
		t.Error("selections must be ignored while paused")
	}

	h.m.Resume()
	h.m.Advance(19999 * time.Millisecond)
	if h.m.RoundNumber() != 1 {
		t.Fatal("round timed out early after resume")
	}
	h.m.Advance(time.Millisecond)
	if h.m.RoundNumber() != 2 {
		t.Error("round should time out exactly at the pre-pause remaining time")
	}
}

func TestPauseFreezesEndDelay(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(7)), testConfig(), progress.Record{})
	h.m.Start()
	h.m.OnDigitSelected(h.m.Round().Digit + 100)

	h.m.Pause()
	h.m.Advance(time.Hour)
	if h.m.State() != Paused {
		t.Fatalf("State() = %v while paused", h.m.State())
	}
	h.m.Resume()
	h.m.Advance(700 * time.Millisecond)
	if h.m.State() != Ended {
		t.Errorf("State() = %v, expected Ended once the delay ran", h.m.State())
	}
}

func TestSessionClock(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTime = 60 * time.Second
	h := newHarness(rand.New(rand.NewSource(8)), cfg, progress.Record{})
	h.m.Start()

	h.m.Advance(30 * time.Second)
	h.m.Advance(29 * time.Second)
	if h.m.State() != Active {
		t.Fatal("session ended before its clock ran out")
	}

	h.m.OnDigitSelected(h.m.Round().Digit)
	if h.m.SessionRemaining() != 60*time.Second {
		t.Fatalf("correct answer should reset the clock, got %v", h.m.SessionRemaining())
	}

	h.m.Advance(59 * time.Second)
	if h.m.State() != Active {
		t.Fatal("session ended early after the reset")
	}
	h.m.Advance(time.Second)
	if h.m.State() != Ended {
		t.Errorf("State() = %v, expected Ended when the clock ran out", h.m.State())
	}
}

func TestEndSubmitsNewHighScore(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(10)), testConfig(), progress.Record{HighScore: 100})
	h.m.Start()
	h.m.score = 300

	h.m.End()

	if len(h.board.submitted) != 1 || h.board.submitted[0] != 300 {
		t.Errorf("leaderboard submissions = %v, expected [300]", h.board.submitted)
	}
	if h.m.HighScore() != 300 || h.m.Score() != 0 || h.m.State() != Ended {
		t.Errorf("after End: high %d score %d state %v", h.m.HighScore(), h.m.Score(), h.m.State())
	}
	if h.m.Field().Len() != 0 || h.m.Field().Pending() != 0 {
		t.Error("End should stop spawning and clear the field")
	}
	if !h.m.CanContinue() {
		t.Error("ended session should offer continue")
	}

	rec := h.record(t)
	if rec.CurrentScore != 0 || rec.HighScore != 300 || !rec.HasContinue() || *rec.SavedForContinue != 300 {
		t.Errorf("persisted record = %+v", rec)
	}
}

func TestEndKeepsHighScoreAndIgnoresLeaderboardErrors(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(11)), testConfig(), progress.Record{HighScore: 500})
	h.m.Start()
	h.m.score = 500
	h.m.End()
	if len(h.board.submitted) != 0 {
		t.Errorf("equal score should not be submitted: %v", h.board.submitted)
	}

	h.board.err = errors.New("offline")
	h.m.Start()
	h.m.score = 900
	h.m.End()
	if h.m.HighScore() != 900 {
		t.Errorf("HighScore() = %d, a failed submit must not change the outcome", h.m.HighScore())
	}

	h.m.End() // idempotent
	if len(h.board.submitted) != 1 {
		t.Errorf("End on an ended session submitted again: %v", h.board.submitted)
	}
}

func TestContinueRestoresScoreAndTier(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(12)), testConfig(), progress.Record{})
	h.m.Start()
	h.m.score = 800
	h.m.End()

	if err := h.m.Continue(); err != nil {
		t.Fatalf("Continue() error: %v", err)
	}
	if h.m.Score() != 800 || h.m.Tier() != tier.T2 || h.m.State() != Active {
		t.Errorf("after Continue: score %d tier %v state %v", h.m.Score(), h.m.Tier(), h.m.State())
	}
	if h.m.CanContinue() {
		t.Error("continue score should be consumed")
	}
	if err := h.m.Continue(); !errors.Is(err, ErrStillActive) {
		t.Errorf("Continue() while active = %v, expected ErrStillActive", err)
	}
}

func TestContinueFromPersistedRecord(t *testing.T) {
	saved := 1600
	h := newHarness(rand.New(rand.NewSource(13)), testConfig(), progress.Record{HighScore: 2000, SavedForContinue: &saved})

	if err := h.m.Continue(); err != nil {
		t.Fatalf("Continue() error: %v", err)
	}
	if h.m.Score() != 1600 || h.m.Tier() != tier.T3 || h.m.HighScore() != 2000 {
		t.Errorf("restored score %d tier %v high %d", h.m.Score(), h.m.Tier(), h.m.HighScore())
	}
	if h.record(t).HasContinue() {
		t.Error("persisted continue score should be consumed")
	}
}

func TestContinueWithoutSavedScore(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(14)), testConfig(), progress.Record{})
	if err := h.m.Continue(); !errors.Is(err, ErrNothingToContinue) {
		t.Errorf("Continue() = %v, expected ErrNothingToContinue", err)
	}
}

func TestStartDiscardsSavedScore(t *testing.T) {
	saved := 40
	h := newHarness(rand.New(rand.NewSource(15)), testConfig(), progress.Record{HighScore: 70, SavedForContinue: &saved})
	h.m.Start()

	if h.m.HighScore() != 70 || h.m.Score() != 0 || h.m.Tier() != tier.T0 {
		t.Errorf("Start(): high %d score %d tier %v", h.m.HighScore(), h.m.Score(), h.m.Tier())
	}
	if h.record(t).HasContinue() {
		t.Error("a fresh start must clear the saved continue score")
	}
}

func TestUnavailableProgressIsTolerated(t *testing.T) {
	f := field.New(field.Settings{Bounds: core.NewRect(core.V(0, 0), core.V(10, 10))},
		rand.New(rand.NewSource(1)), nil, nil)
	gen := round.NewGenerator(rand.New(rand.NewSource(2)), round.Settings{Count: 5}, nil)
	m := New(testConfig(), gen, f, Collaborators{Progress: failingProgress{}}, nil)

	m.Start()
	if m.State() != Active || m.Score() != 0 || m.Tier() != tier.T0 {
		t.Fatalf("Start() with broken storage: state %v score %d tier %v", m.State(), m.Score(), m.Tier())
	}
	if m.OnDigitSelected(m.Round().Digit) != Correct {
		t.Error("answers should still be evaluated without storage")
	}
}

func TestSnapshotRestore(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTime = 60 * time.Second
	a := newHarness(rand.New(rand.NewSource(16)), cfg, progress.Record{})
	a.m.Start()
	a.m.score = 800
	a.m.Advance(2500 * time.Millisecond)

	data, err := yaml.Marshal(a.m.Snapshot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	b := newHarness(rand.New(rand.NewSource(99)), cfg, progress.Record{})
	b.m.ApplySnapshot(snap)

	if b.m.State() != Active || b.m.Score() != 800 || b.m.Tier() != tier.T2 {
		t.Errorf("restored state %v score %d tier %v", b.m.State(), b.m.Score(), b.m.Tier())
	}
	if b.m.Round().Expression() != a.m.Round().Expression() {
		t.Errorf("round %q, expected %q", b.m.Round().Expression(), a.m.Round().Expression())
	}
	if b.m.RoundRemaining() != a.m.RoundRemaining() || b.m.SessionRemaining() != a.m.SessionRemaining() {
		t.Error("timers not restored")
	}
	if b.m.Field().Len() != a.m.Field().Len() || b.m.Field().Now() != a.m.Field().Now() {
		t.Error("field not restored")
	}

	a.m.Advance(27500 * time.Millisecond)
	b.m.Advance(27500 * time.Millisecond)
	if a.m.RoundNumber() != 2 || b.m.RoundNumber() != 2 {
		t.Errorf("round numbers %d/%d after the budget, expected 2", a.m.RoundNumber(), b.m.RoundNumber())
	}
}

func TestHighScoreFromAnotherSessionSurvives(t *testing.T) {
	h := newHarness(rand.New(rand.NewSource(17)), testConfig(), progress.Record{HighScore: 100})
	h.m.Start()

	// Another session of the same player stores a better score mid-game.
	if err := h.store.Save(progress.Record{HighScore: 500}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if h.m.OnDigitSelected(h.m.Round().Digit) != Correct {
		t.Fatal("expected a correct answer")
	}
	if got := h.record(t).HighScore; got != 500 {
		t.Fatalf("stored high score = %d after an answer, expected 500", got)
	}

	if err := h.store.Save(progress.Record{HighScore: 800}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	h.m.score = 600
	h.m.End()

	if len(h.board.submitted) != 0 {
		t.Errorf("submitted %v although the stored high score is higher", h.board.submitted)
	}
	if h.m.HighScore() != 800 || h.record(t).HighScore != 800 {
		t.Errorf("high score = %d, stored %d, expected 800", h.m.HighScore(), h.record(t).HighScore)
	}
	if rec := h.record(t); rec.SavedForContinue == nil || *rec.SavedForContinue != 600 {
		t.Errorf("continue score = %v, expected 600", rec.SavedForContinue)
	}
}
