// Package frontmatter renders movie records as a delimited note header.
package frontmatter

import (
	"strings"

	"github.com/blakestevenson/moviedetails/internal/movie"
)

// Delimiter opens and closes the block
const Delimiter = "---"

// Format renders a record as a front-matter block. Values are written
// verbatim. The block has no trailing newline.
func Format(r movie.Record) string {
	var b strings.Builder

	b.WriteString(Delimiter + "\n")
	b.WriteString("Year: " + r.Year.String() + "\n")
	b.WriteString("Genre: \n")
	for _, genre := range SplitGenres(r.Genre) {
		b.WriteString("  - " + genre + "\n")
	}
	b.WriteString("\n")
	b.WriteString("Director: " + r.Director + "\n")
	b.WriteString("IMDB ID: " + r.IMDbID + "\n")
	b.WriteString("Rating: " + r.IMDbRating.String() + "\n")
	b.WriteString("Poster: " + r.Poster + "\n")
	b.WriteString(Delimiter)

	return b.String()
}

// SplitGenres splits a comma-separated genre string into trimmed,
// non-empty entries
func SplitGenres(genre string) []string {
	parts := strings.Split(genre, ",")
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			genres = append(genres, part)
		}
	}
	return genres
}
