package sepush

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the root every endpoint path is resolved against.
	DefaultBaseURL = "https://developer.sepush.co.za/business/2.0"

	// TokenHeader carries the API token on every request.
	TokenHeader = "token"

	// Paths of the API operations, relative to DefaultBaseURL.
	PathStatus         = "/status"
	PathAreaInfo       = "/area"
	PathAreasSearch    = "/areas_search"
	PathAreasNearby    = "/areas_nearby"
	PathTopicsNearby   = "/topics_nearby"
	PathAllowanceCheck = "/api_allowance"
)

// Endpoint describes one API operation independently of the transport that
// will execute it.
type Endpoint interface {
	Path() string
	Method() string
	// Query validates the descriptor and returns its query parameters.
	Query() (url.Values, error)
}

// ResolveURL validates e and joins it onto base.
func ResolveURL(base string, e Endpoint) (string, error) {
	q, err := e.Query()
	if err != nil {
		return "", err
	}
	u := strings.TrimRight(base, "/") + e.Path()
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

type get struct{}

func (get) Method() string { return http.MethodGet }

// StatusURL is the national and municipal load shedding status.
type StatusURL struct{ get }

// NewStatusURL never fails.
func NewStatusURL() StatusURL { return StatusURL{} }

func (StatusURL) Path() string               { return PathStatus }
func (StatusURL) Query() (url.Values, error) { return nil, nil }
func (s StatusURL) URL() (string, error)     { return ResolveURL(DefaultBaseURL, s) }

// AllowanceCheckURL reports the quota used by the token. It does not count
// towards the quota itself.
type AllowanceCheckURL struct{ get }

// NewAllowanceCheckURL never fails.
func NewAllowanceCheckURL() AllowanceCheckURL { return AllowanceCheckURL{} }

func (AllowanceCheckURL) Path() string               { return PathAllowanceCheck }
func (AllowanceCheckURL) Query() (url.Values, error) { return nil, nil }
func (a AllowanceCheckURL) URL() (string, error)     { return ResolveURL(DefaultBaseURL, a) }

// AreaInfoURL fetches the schedule and upcoming events for one area.
type AreaInfoURL struct {
	get
	AreaID string
}

// NewAreaInfoURL fails with ErrAreaIDNotSet when id is blank.
func NewAreaInfoURL(id string) (AreaInfoURL, error) {
	a := AreaInfoURL{AreaID: id}
	if _, err := a.Query(); err != nil {
		return AreaInfoURL{}, err
	}
	return a, nil
}

func (AreaInfoURL) Path() string { return PathAreaInfo }

func (a AreaInfoURL) Query() (url.Values, error) {
	if strings.TrimSpace(a.AreaID) == "" {
		return nil, &Error{Kind: KindAreaIDNotSet}
	}
	return url.Values{"id": {a.AreaID}}, nil
}

func (a AreaInfoURL) URL() (string, error) { return ResolveURL(DefaultBaseURL, a) }

// AreaSearchURL searches areas by free text.
type AreaSearchURL struct {
	get
	Text string
}

// NewAreaSearchURL fails with ErrSearchTextNotSet when text is blank.
func NewAreaSearchURL(text string) (AreaSearchURL, error) {
	a := AreaSearchURL{Text: text}
	if _, err := a.Query(); err != nil {
		return AreaSearchURL{}, err
	}
	return a, nil
}

func (AreaSearchURL) Path() string { return PathAreasSearch }

func (a AreaSearchURL) Query() (url.Values, error) {
	if strings.TrimSpace(a.Text) == "" {
		return nil, &Error{Kind: KindSearchTextNotSet}
	}
	return url.Values{"text": {a.Text}}, nil
}

func (a AreaSearchURL) URL() (string, error) { return ResolveURL(DefaultBaseURL, a) }

// Coordinates is a latitude/longitude pair. A zero or non-finite component
// counts as unset.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinates) query() (url.Values, error) {
	if !validCoordinate(c.Latitude) || !validCoordinate(c.Longitude) {
		return nil, &Error{Kind: KindCoordinatesNotSet, Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return url.Values{
		"lat":  {formatCoordinate(c.Latitude)},
		"long": {formatCoordinate(c.Longitude)},
	}, nil
}

func validCoordinate(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AreasNearbyURL finds areas around a GPS position. The first area returned
// is usually the closest.
type AreasNearbyURL struct {
	get
	Coordinates
}

// NewAreasNearbyURL fails with ErrCoordinatesNotSet for unset coordinates.
func NewAreasNearbyURL(lat, long float64) (AreasNearbyURL, error) {
	a := AreasNearbyURL{Coordinates: Coordinates{Latitude: lat, Longitude: long}}
	if _, err := a.Query(); err != nil {
		return AreasNearbyURL{}, err
	}
	return a, nil
}

func (AreasNearbyURL) Path() string                 { return PathAreasNearby }
func (a AreasNearbyURL) Query() (url.Values, error) { return a.Coordinates.query() }
func (a AreasNearbyURL) URL() (string, error)       { return ResolveURL(DefaultBaseURL, a) }

// TopicsNearbyURL finds user-created topics around a GPS position, useful to
// spot local outages.
type TopicsNearbyURL struct {
	get
	Coordinates
}

// NewTopicsNearbyURL fails with ErrCoordinatesNotSet for unset coordinates.
func NewTopicsNearbyURL(lat, long float64) (TopicsNearbyURL, error) {
	t := TopicsNearbyURL{Coordinates: Coordinates{Latitude: lat, Longitude: long}}
	if _, err := t.Query(); err != nil {
		return TopicsNearbyURL{}, err
	}
	return t, nil
}

func (TopicsNearbyURL) Path() string                 { return PathTopicsNearby }
func (t TopicsNearbyURL) Query() (url.Values, error) { return t.Coordinates.query() }
func (t TopicsNearbyURL) URL() (string, error)       { return ResolveURL(DefaultBaseURL, t) }
