// Package parse reads the league's plain-text input files: a game list where
// date lines open a new playing day and result lines follow, and a name list
// mapping short keys to display names. It only produces records, rating
// state is none of its business.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/rating"
)

// GameRecord is one parsed result line, tagged with the date line that
// preceded it.
type GameRecord struct {
	White string
	Black string
	Score domain.Score
	Date  time.Time
}

const dateLayout = "20060102"

// ReadGames parses a game list:
//
//	# comment
//	20230312
//	SF ME 1 0
//	NB LB 0.5 0.5
//
// A date line (YYYYMMDD) sets the playing day for the result lines after it.
// Score pairs must sum to one and each side must be 0, 0.5 or 1.
func ReadGames(r io.Reader) ([]GameRecord, error) {
	var games []GameRecord
	var date time.Time
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if isDateLine(text) {
			d, err := time.Parse(dateLayout, text)
			if err != nil {
				return nil, fmt.Errorf("line %d: date %q: %w", line, text, rating.ErrMalformedInput)
			}
			date = d
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 4 {
			continue
		}
		if date.IsZero() {
			return nil, fmt.Errorf("line %d: result before any date line: %w", line, rating.ErrMalformedInput)
		}
		score, err := parseScore(fields[2], fields[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		games = append(games, GameRecord{
			White: fields[0],
			Black: fields[1],
			Score: score,
			Date:  date,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// ReadNames parses a name list, one "short long" pair per line.
func ReadNames(r io.Reader) (map[string]string, error) {
	names := make(map[string]string)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want %q, got %q: %w", line, "short long", text, rating.ErrMalformedInput)
		}
		if _, ok := names[fields[0]]; ok {
			return nil, fmt.Errorf("line %d: name %q taken twice: %w", line, fields[0], rating.ErrMalformedInput)
		}
		names[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func isDateLine(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseScore(white, black string) (domain.Score, error) {
	w, err := strconv.ParseFloat(white, 64)
	if err != nil {
		return 0, fmt.Errorf("white score %q: %w", white, rating.ErrMalformedInput)
	}
	b, err := strconv.ParseFloat(black, 64)
	if err != nil {
		return 0, fmt.Errorf("black score %q: %w", black, rating.ErrMalformedInput)
	}
	score := domain.Score(w)
	if !score.Valid() || b != float64(score.Inverse()) {
		return 0, fmt.Errorf("score pair %s %s: %w", white, black, rating.ErrMalformedInput)
	}
	return score, nil
}
