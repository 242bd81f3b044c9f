package movie

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// notAvailable is the placeholder the metadata API uses for missing values
const notAvailable = "N/A"

// Record is a single title/identifier lookup result from the metadata API
type Record struct {
	Title      string         `json:"Title"`
	Year       Year           `json:"Year"`
	Rated      string         `json:"Rated"`
	Released   string         `json:"Released"`
	Runtime    string         `json:"Runtime"`
	Genre      string         `json:"Genre"`
	Director   string         `json:"Director"`
	Writer     string         `json:"Writer"`
	Actors     string         `json:"Actors"`
	Plot       string         `json:"Plot"`
	Language   string         `json:"Language"`
	Country    string         `json:"Country"`
	Awards     string         `json:"Awards"`
	Poster     string         `json:"Poster"`
	Ratings    []SourceRating `json:"Ratings"`
	Metascore  string         `json:"Metascore"`
	IMDbRating Score          `json:"imdbRating"`
	IMDbVotes  string         `json:"imdbVotes"`
	IMDbID     string         `json:"imdbID"`
	Type       string         `json:"Type"` // "movie", "series", "episode"
	DVD        string         `json:"DVD,omitempty"`
	BoxOffice  string         `json:"BoxOffice,omitempty"`
	Production string         `json:"Production,omitempty"`
	Website    string         `json:"Website,omitempty"`

	// Response is "True" or "False"; Error is set when it is "False"
	Response string `json:"Response"`
	Error    string `json:"Error,omitempty"`
}

// SourceRating is one entry of the per-source ratings list.
// Value stays a string because formats vary ("8.6/10", "96%").
type SourceRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Failed reports whether the API flagged the lookup as unsuccessful
func (r *Record) Failed() bool {
	return strings.EqualFold(r.Response, "false")
}

// RuntimeMinutes parses Runtime ("142 min") into minutes, 0 when unknown
func (r *Record) RuntimeMinutes() int {
	runtime := strings.TrimSpace(strings.TrimSuffix(r.Runtime, " min"))
	minutes, _ := strconv.Atoi(runtime)
	return minutes
}

// Year is a release year. Zero means unknown.
type Year int

// UnmarshalJSON accepts a number, a year string ("1994"), a range
// ("2008–2013", the first year is kept) or "N/A".
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}

	if data[0] != '"' {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*y = Year(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		*y = 0
		return nil
	}
	*y = Year(n)
	return nil
}

// String renders the year, or N/A when unknown
func (y Year) String() string {
	if y == 0 {
		return notAvailable
	}
	return strconv.Itoa(int(y))
}

// Score is a numeric rating that may be unknown
type Score struct {
	Value float64
	Valid bool
}

// NewScore returns a known score
func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// UnmarshalJSON accepts a number, a numeric string ("9.3") or "N/A"
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}

	if data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*s = NewScore(f)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		*s = Score{}
		return nil
	}
	*s = NewScore(f)
	return nil
}

// String renders the shortest decimal form (9.3, 8), or N/A when unknown
func (s Score) String() string {
	if !s.Valid {
		return notAvailable
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// LookupKey turns a document name into a title lookup key
func LookupKey(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "+")
}
