package sofascore

// Optional objects are pointers: SofaScore omits them rather than sending nulls, and
// a missing team or score must decode to the zero value instead of failing.

type lastEventsEnvelope struct {
	Events      []eventItem `json:"events"`
	HasNextPage bool        `json:"hasNextPage"`
}

type eventItem struct {
	ID             int64        `json:"id"`
	StartTimestamp int64        `json:"startTimestamp"`
	Status         *eventStatus `json:"status"`
	HomeTeam       *teamRef     `json:"homeTeam"`
	AwayTeam       *teamRef     `json:"awayTeam"`
	HomeScore      *scoreRef    `json:"homeScore"`
	AwayScore      *scoreRef    `json:"awayScore"`
	Tournament     *namedRef    `json:"tournament"`
}

type eventStatus struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type teamRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type scoreRef struct {
	Current *int `json:"current"`
	Display *int `json:"display"`
}

func (s *scoreRef) value() int {
	switch {
	case s == nil:
		return 0
	case s.Current != nil:
		return *s.Current
	case s.Display != nil:
		return *s.Display
	default:
		return 0
	}
}

type namedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (n *namedRef) name() string {
	if n == nil {
		return ""
	}
	return n.Name
}

type incidentsEnvelope struct {
	Incidents []incidentItem `json:"incidents"`
}

type incidentItem struct {
	IncidentType  string     `json:"incidentType"`
	IncidentClass string     `json:"incidentClass"`
	Time          int        `json:"time"`
	AddedTime     *int       `json:"addedTime"`
	IsHome        *bool      `json:"isHome"`
	Player        *playerRef `json:"player"`
	Assist1       *playerRef `json:"assist1"`
	PlayerIn      *playerRef `json:"playerIn"`
	PlayerOut     *playerRef `json:"playerOut"`
}

type playerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (p *playerRef) id() int64 {
	if p == nil {
		return 0
	}
	return p.ID
}

type seasonsEnvelope struct {
	UniqueTournamentSeasons []tournamentSeasons `json:"uniqueTournamentSeasons"`
}

type tournamentSeasons struct {
	UniqueTournament *namedRef    `json:"uniqueTournament"`
	Seasons          []seasonItem `json:"seasons"`
}

type seasonItem struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Year string   `json:"year"`
	Team *teamRef `json:"team"`
}

type statisticsEnvelope struct {
	Statistics statisticsBlock `json:"statistics"`
}

type statisticsBlock struct {
	Appearances   int     `json:"appearances"`
	MinutesPlayed int     `json:"minutesPlayed"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	Rating        float64 `json:"rating"`
}
