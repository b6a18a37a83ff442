package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type playerMatchProviderMock struct {
	mock.Mock
}

func (m *playerMatchProviderMock) FetchPlayerRecentMatches(ctx context.Context, playerID int64) ([]ExternalMatch, error) {
	args := m.Called(ctx, playerID)
	matches, _ := args.Get(0).([]ExternalMatch)
	return matches, args.Error(1)
}

func (m *playerMatchProviderMock) FetchMatchIncidents(ctx context.Context, matchID int64) ([]ExternalIncident, error) {
	args := m.Called(ctx, matchID)
	incidents, _ := args.Get(0).([]ExternalIncident)
	return incidents, args.Error(1)
}

type fixtureProviderMock struct {
	mock.Mock
}

func (m *fixtureProviderMock) FetchLiveFixtures(ctx context.Context) ([]ExternalMatch, error) {
	args := m.Called(ctx)
	matches, _ := args.Get(0).([]ExternalMatch)
	return matches, args.Error(1)
}

func (m *fixtureProviderMock) FetchFixturesBetween(ctx context.Context, from, to time.Time) ([]ExternalMatch, error) {
	args := m.Called(ctx, from, to)
	matches, _ := args.Get(0).([]ExternalMatch)
	return matches, args.Error(1)
}

func (m *fixtureProviderMock) FetchFixtureIncidents(ctx context.Context, fixtureID int64) ([]ExternalIncident, error) {
	args := m.Called(ctx, fixtureID)
	incidents, _ := args.Get(0).([]ExternalIncident)
	return incidents, args.Error(1)
}

type seasonStatsProviderMock struct {
	mock.Mock
}

func (m *seasonStatsProviderMock) FetchPlayerTournamentSeasons(ctx context.Context, playerID int64) ([]ExternalTournamentSeason, error) {
	args := m.Called(ctx, playerID)
	seasons, _ := args.Get(0).([]ExternalTournamentSeason)
	return seasons, args.Error(1)
}

func (m *seasonStatsProviderMock) FetchCompetitionStatistics(ctx context.Context, playerID, tournamentID, seasonID int64) (ExternalCompetitionStatistics, error) {
	args := m.Called(ctx, playerID, tournamentID, seasonID)
	stats, _ := args.Get(0).(ExternalCompetitionStatistics)
	return stats, args.Error(1)
}
