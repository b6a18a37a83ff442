package apifootball

// envelope is the common API-Football wrapper. Errors is either an empty array or an
// object keyed by field, so it stays untyped.
type envelope[T any] struct {
	Get      string `json:"get"`
	Errors   any    `json:"errors"`
	Results  int    `json:"results"`
	Response []T    `json:"response"`
}

func (e envelope[T]) errorText() string {
	switch v := e.Errors.(type) {
	case map[string]any:
		for key, value := range v {
			if text, ok := value.(string); ok && text != "" {
				return key + ": " + text
			}
			return key
		}
	case []any:
		for _, value := range v {
			if text, ok := value.(string); ok && text != "" {
				return text
			}
		}
	}
	return ""
}

type fixtureItem struct {
	Fixture fixtureInfo `json:"fixture"`
	League  leagueInfo  `json:"league"`
	Teams   teamsInfo   `json:"teams"`
	Goals   goalsInfo   `json:"goals"`
}

type fixtureInfo struct {
	ID        int64         `json:"id"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Status    fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
}

type teamsInfo struct {
	Home teamInfo `json:"home"`
	Away teamInfo `json:"away"`
}

type teamInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type eventItem struct {
	Time     eventTime `json:"time"`
	Team     teamInfo  `json:"team"`
	Player   personRef `json:"player"`
	Assist   personRef `json:"assist"`
	Type     string    `json:"type"`
	Detail   string    `json:"detail"`
	Comments *string   `json:"comments"`
}

type eventTime struct {
	Elapsed *int `json:"elapsed"`
	Extra   *int `json:"extra"`
}

type personRef struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

func (p personRef) id() int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
