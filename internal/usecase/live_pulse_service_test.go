package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/canmnt-live/internal/domain/matchevent"
	"github.com/riskibarqy/canmnt-live/internal/domain/roster"
	rostermock "github.com/riskibarqy/canmnt-live/internal/mocks/domain/roster"
	"github.com/stretchr/testify/mock"
)

var pulseNow = time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

func boolPtr(v bool) *bool { return &v }

func pulseRoster() []roster.TrackedPlayer {
	return []roster.TrackedPlayer{
		{Name: "Alphonso Davies", Club: "Bayern Munich", IDs: map[roster.Source]int64{roster.SourceSofaScore: 100, roster.SourceAPIFootball: 1001}},
		{Name: "Jonathan David", Club: "Juventus", IDs: map[roster.Source]int64{roster.SourceSofaScore: 200, roster.SourceAPIFootball: 1002}},
		{Name: "Jonathan Osorio", Club: "Toronto FC", IDs: map[roster.Source]int64{roster.SourceAPIFootball: 2928}},
	}
}

func newPulseService(t *testing.T, source roster.Source, players []roster.TrackedPlayer, pm PlayerMatchProvider, fx FixtureProvider) *LivePulseService {
	t.Helper()

	rosterRepo := rostermock.NewRepository(t)
	rosterRepo.On("List", mock.Anything).Return(players, nil).Once()

	svc := NewLivePulseService(rosterRepo, pm, fx, LivePulseConfig{Source: source}, nil, nil)
	svc.now = func() time.Time { return pulseNow }
	return svc
}

func TestLivePulseService_RecentEvents_PlayerMatches(t *testing.T) {
	t.Parallel()

	provider := &playerMatchProviderMock{}
	m1 := ExternalMatch{ID: 1, StartAt: pulseNow.Add(-2 * time.Hour), HomeTeam: "Bayern Munich", AwayTeam: "Juventus", HomeScore: 2, AwayScore: 1, Competition: "UEFA Champions League", Status: MatchStatusFinished}
	m2 := ExternalMatch{ID: 2, StartAt: pulseNow.Add(-1 * time.Hour), Status: MatchStatusScheduled}
	m3 := ExternalMatch{ID: 3, StartAt: pulseNow.Add(-72 * time.Hour), Status: MatchStatusFinished}
	m4 := ExternalMatch{ID: 4, StartAt: pulseNow.Add(-3 * time.Hour), Status: MatchStatusFinished}
	m5 := ExternalMatch{ID: 5, StartAt: pulseNow.Add(-5 * time.Hour), Status: MatchStatusFinished}
	m7 := ExternalMatch{ID: 7, StartAt: pulseNow.Add(-6 * time.Hour), HomeTeam: "Lazio", AwayTeam: "Juventus", HomeScore: 0, AwayScore: 0, Competition: "Serie A", Status: MatchStatusFinished}

	provider.On("FetchPlayerRecentMatches", mock.Anything, int64(100)).Return([]ExternalMatch{m1, m2, m3, m4}, nil).Once()
	provider.On("FetchPlayerRecentMatches", mock.Anything, int64(200)).Return([]ExternalMatch{m1, m5, m7}, nil).Once()
	provider.On("FetchMatchIncidents", mock.Anything, int64(1)).Return([]ExternalIncident{
		{Type: "goal", Detail: "regular", PlayerID: 100, AssistPlayerID: 200, Minute: 23, IsHome: boolPtr(true)},
		{Type: "card", Detail: "yellow", PlayerID: 999, Minute: 30, IsHome: boolPtr(false)},
		{Type: "substitution", PlayerID: 100, PlayerInID: 555, Minute: 70, IsHome: boolPtr(true)},
		{Type: "period", Detail: "HT", Minute: 45},
	}, nil).Twice()
	provider.On("FetchMatchIncidents", mock.Anything, int64(5)).Return(nil, errors.New("upstream 503")).Once()
	provider.On("FetchMatchIncidents", mock.Anything, int64(7)).Return([]ExternalIncident{
		{Type: "substitution", PlayerID: 321, PlayerInID: 200, Minute: 61, IsHome: boolPtr(false)},
	}, nil).Once()

	svc := newPulseService(t, roster.SourceSofaScore, pulseRoster(), provider, nil)
	events := svc.RecentEvents(context.Background())

	provider.AssertExpectations(t)
	provider.AssertNotCalled(t, "FetchMatchIncidents", mock.Anything, int64(2))
	provider.AssertNotCalled(t, "FetchMatchIncidents", mock.Anything, int64(3))
	provider.AssertNotCalled(t, "FetchMatchIncidents", mock.Anything, int64(4))

	if len(events) != 3 {
		t.Fatalf("unexpected event count: got=%d want=3 (%+v)", len(events), events)
	}

	want := []struct {
		id     int
		player string
		kind   matchevent.Kind
		event  string
		team   string
	}{
		{id: 2, player: "Jonathan David", kind: matchevent.KindAssist, event: "Assist", team: "Bayern Munich"},
		{id: 1, player: "Alphonso Davies", kind: matchevent.KindGoal, event: "Goal", team: "Bayern Munich"},
		{id: 3, player: "Jonathan David", kind: matchevent.KindSubstitution, event: "Substitution", team: "Juventus"},
	}
	for i, w := range want {
		got := events[i]
		if got.ID != w.id || got.Player != w.player || got.Type != w.kind || got.Event != w.event || got.Team != w.team {
			t.Fatalf("event %d mismatch: got=%+v want=%+v", i, got, w)
		}
	}

	if events[1].Context != "Bayern Munich 2-1 Juventus" {
		t.Fatalf("unexpected context: %q", events[1].Context)
	}
	if events[1].Minute != "23'" {
		t.Fatalf("unexpected minute: %q", events[1].Minute)
	}
	if events[1].Timestamp != "2 hours ago" {
		t.Fatalf("unexpected timestamp: %q", events[1].Timestamp)
	}
	if events[1].League != "UEFA Champions League" {
		t.Fatalf("unexpected league: %q", events[1].League)
	}
}

func TestLivePulseService_RecentEvents_Fixtures(t *testing.T) {
	t.Parallel()

	provider := &fixtureProviderMock{}
	f1 := ExternalMatch{ID: 11, StartAt: pulseNow.Add(-1 * time.Hour), HomeTeam: "Bayern Munich", AwayTeam: "Juventus", HomeScore: 1, AwayScore: 0, Competition: "UEFA Champions League", Status: MatchStatusLive}
	f2 := ExternalMatch{ID: 12, StartAt: pulseNow.Add(-20 * time.Hour), Status: MatchStatusFinished}

	provider.On("FetchLiveFixtures", mock.Anything).Return([]ExternalMatch{f1}, nil).Once()
	provider.On("FetchFixturesBetween", mock.Anything, pulseNow.Add(-24*time.Hour), pulseNow).Return([]ExternalMatch{f1, f2}, nil).Once()
	provider.On("FetchFixtureIncidents", mock.Anything, int64(11)).Return([]ExternalIncident{
		{Type: "Goal", Detail: "Normal Goal", PlayerID: 1001, AssistPlayerID: 1002, Minute: 10, TeamName: "Bayern Munich"},
		{Type: "subst", Detail: "Substitution 1", PlayerID: 2928, PlayerInID: 5555, Minute: 46, TeamName: "Juventus"},
		{Type: "Card", Detail: "Yellow Card", PlayerID: 1002, Minute: 50, TeamName: "Juventus"},
	}, nil).Once()
	provider.On("FetchFixtureIncidents", mock.Anything, int64(12)).Return(nil, errors.New("timeout")).Once()

	svc := newPulseService(t, roster.SourceAPIFootball, pulseRoster(), nil, provider)
	events := svc.RecentEvents(context.Background())

	provider.AssertExpectations(t)

	if len(events) != 3 {
		t.Fatalf("unexpected event count: got=%d want=3 (%+v)", len(events), events)
	}
	if events[0].Type != matchevent.KindCard || events[0].Event != "Yellow Card" || events[0].Timestamp != "10 minutes ago" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Type != matchevent.KindAssist || events[1].Player != "Jonathan David" || events[1].ID != 2 {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
	if events[2].Type != matchevent.KindGoal || events[2].Player != "Alphonso Davies" || events[2].Timestamp != "50 minutes ago" {
		t.Fatalf("unexpected third event: %+v", events[2])
	}
	if events[2].Team != "Bayern Munich" {
		t.Fatalf("unexpected team: %q", events[2].Team)
	}
}

func TestLivePulseService_RecentEvents_FixturesCapped(t *testing.T) {
	t.Parallel()

	provider := &fixtureProviderMock{}
	fixture := ExternalMatch{ID: 21, StartAt: pulseNow.Add(-3 * time.Hour), HomeTeam: "A", AwayTeam: "B", Status: MatchStatusFinished}
	incidents := make([]ExternalIncident, 0, 12)
	for minute := 1; minute <= 12; minute++ {
		incidents = append(incidents, ExternalIncident{Type: "Goal", Detail: "Normal Goal", PlayerID: 1001, Minute: minute})
	}

	provider.On("FetchLiveFixtures", mock.Anything).Return(nil, errors.New("rate limited")).Once()
	provider.On("FetchFixturesBetween", mock.Anything, mock.Anything, mock.Anything).Return([]ExternalMatch{fixture}, nil).Once()
	provider.On("FetchFixtureIncidents", mock.Anything, int64(21)).Return(incidents, nil).Once()

	svc := newPulseService(t, roster.SourceAPIFootball, pulseRoster(), nil, provider)
	events := svc.RecentEvents(context.Background())

	if len(events) != 10 {
		t.Fatalf("unexpected event count: got=%d want=10", len(events))
	}
	if events[0].Minute != "12'" || events[9].Minute != "3'" {
		t.Fatalf("unexpected ordering: first=%s last=%s", events[0].Minute, events[9].Minute)
	}
	for _, e := range events {
		if !e.Type.Canonical() {
			t.Fatalf("non-canonical kind in output: %+v", e)
		}
	}
}

func TestLivePulseService_RecentEvents_PlayerMatchesCappedAtEight(t *testing.T) {
	t.Parallel()

	provider := &playerMatchProviderMock{}
	match := ExternalMatch{ID: 31, StartAt: pulseNow.Add(-4 * time.Hour), Status: MatchStatusFinished}
	incidents := make([]ExternalIncident, 0, 9)
	for i := 0; i < 9; i++ {
		incidents = append(incidents, ExternalIncident{Type: "card", Detail: "yellow", PlayerID: 100, Minute: 10 + i})
	}

	players := pulseRoster()[:1]
	provider.On("FetchPlayerRecentMatches", mock.Anything, int64(100)).Return([]ExternalMatch{match}, nil).Once()
	provider.On("FetchMatchIncidents", mock.Anything, int64(31)).Return(incidents, nil).Once()

	svc := newPulseService(t, roster.SourceSofaScore, players, provider, nil)
	events := svc.RecentEvents(context.Background())

	if len(events) != 8 {
		t.Fatalf("unexpected event count: got=%d want=8", len(events))
	}
	// Same instant for every event: later sequence ids come first.
	if events[0].ID != 9 || events[7].ID != 2 {
		t.Fatalf("unexpected tie ordering: first=%d last=%d", events[0].ID, events[7].ID)
	}
}

func TestLivePulseService_RecentEvents_EmptyUpstream(t *testing.T) {
	t.Parallel()

	t.Run("player matches", func(t *testing.T) {
		t.Parallel()

		provider := &playerMatchProviderMock{}
		provider.On("FetchPlayerRecentMatches", mock.Anything, mock.Anything).Return([]ExternalMatch{}, nil)

		svc := newPulseService(t, roster.SourceSofaScore, pulseRoster(), provider, nil)
		events := svc.RecentEvents(context.Background())
		if events == nil || len(events) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", events)
		}
	})

	t.Run("fixtures", func(t *testing.T) {
		t.Parallel()

		provider := &fixtureProviderMock{}
		provider.On("FetchLiveFixtures", mock.Anything).Return([]ExternalMatch{}, nil)
		provider.On("FetchFixturesBetween", mock.Anything, mock.Anything, mock.Anything).Return([]ExternalMatch{}, nil)

		svc := newPulseService(t, roster.SourceAPIFootball, pulseRoster(), nil, provider)
		events := svc.RecentEvents(context.Background())
		if events == nil || len(events) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", events)
		}
		provider.AssertNotCalled(t, "FetchFixtureIncidents", mock.Anything, mock.Anything)
	})
}

func TestLivePulseService_RecentEvents_RosterFailure(t *testing.T) {
	t.Parallel()

	rosterRepo := rostermock.NewRepository(t)
	rosterRepo.On("List", mock.Anything).Return(nil, errors.New("roster unavailable")).Once()

	svc := NewLivePulseService(rosterRepo, &playerMatchProviderMock{}, nil, LivePulseConfig{}, nil, nil)
	if events := svc.RecentEvents(context.Background()); len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestLivePulseService_RecentEvents_ParallelWorkersKeepOrder(t *testing.T) {
	t.Parallel()

	provider := &playerMatchProviderMock{}
	start := pulseNow.Add(-1 * time.Hour)
	provider.On("FetchPlayerRecentMatches", mock.Anything, int64(100)).Return([]ExternalMatch{{ID: 41, StartAt: start, Status: MatchStatusFinished}}, nil)
	provider.On("FetchPlayerRecentMatches", mock.Anything, int64(200)).Return([]ExternalMatch{{ID: 42, StartAt: start, Status: MatchStatusFinished}}, nil)
	provider.On("FetchMatchIncidents", mock.Anything, int64(41)).Return([]ExternalIncident{{Type: "goal", PlayerID: 100, Minute: 5}}, nil)
	provider.On("FetchMatchIncidents", mock.Anything, int64(42)).Return([]ExternalIncident{{Type: "goal", PlayerID: 200, Minute: 7}}, nil)

	rosterRepo := rostermock.NewRepository(t)
	rosterRepo.On("List", mock.Anything).Return(pulseRoster(), nil).Once()

	svc := NewLivePulseService(rosterRepo, provider, nil, LivePulseConfig{Workers: 4}, nil, nil)
	svc.now = func() time.Time { return pulseNow }

	events := svc.RecentEvents(context.Background())
	if len(events) != 2 {
		t.Fatalf("unexpected event count: %d", len(events))
	}
	if events[0].Player != "Jonathan David" || events[0].ID != 2 {
		t.Fatalf("sequence ids must follow roster order: %+v", events)
	}
}

func TestAttributeIncident(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		inc      ExternalIncident
		wantKind matchevent.Kind
		wantOK   bool
	}{
		{name: "scorer", inc: ExternalIncident{Type: "goal", PlayerID: 7}, wantKind: matchevent.KindGoal, wantOK: true},
		{name: "assist provider", inc: ExternalIncident{Type: "goal", PlayerID: 8, AssistPlayerID: 7}, wantKind: matchevent.KindAssist, wantOK: true},
		{name: "subbed on", inc: ExternalIncident{Type: "substitution", PlayerID: 8, PlayerInID: 7}, wantKind: matchevent.KindSubstitution, wantOK: true},
		{name: "subbed off", inc: ExternalIncident{Type: "substitution", PlayerID: 7, PlayerInID: 8}, wantOK: false},
		{name: "unclassified", inc: ExternalIncident{Type: "varDecision", PlayerID: 7}, wantOK: false},
		{name: "someone else", inc: ExternalIncident{Type: "card", Detail: "red", PlayerID: 9}, wantOK: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			kind, _, ok := attributeIncident(7, tc.inc)
			if ok != tc.wantOK {
				t.Fatalf("attributeIncident ok=%v want=%v", ok, tc.wantOK)
			}
			if ok && kind != tc.wantKind {
				t.Fatalf("attributeIncident kind=%s want=%s", kind, tc.wantKind)
			}
		})
	}
}

func TestDedupeMatches_KeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	live := []ExternalMatch{{ID: 1, Competition: "live"}, {ID: 2}}
	recent := []ExternalMatch{{ID: 1, Competition: "recent"}, {ID: 3}, {ID: 0}}

	got := dedupeMatches(live, recent)
	if len(got) != 3 {
		t.Fatalf("unexpected match count: %d", len(got))
	}
	if got[0].Competition != "live" || got[2].ID != 3 {
		t.Fatalf("unexpected dedupe result: %+v", got)
	}
}
