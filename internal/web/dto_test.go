package web

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goserg/chesstable/internal/domain"
)

func Test_createGame_Validate(t *testing.T) {
	tests := []struct {
		name    string
		game    createGame
		wantErr bool
	}{
		{
			name: "white wins",
			game: createGame{
				WhiteID: uuid.NameSpaceDNS,
				BlackID: uuid.NameSpaceURL,
				Score:   1,
			},
			wantErr: false,
		},
		{
			name: "black wins",
			game: createGame{
				WhiteID: uuid.NameSpaceDNS,
				BlackID: uuid.NameSpaceURL,
				Score:   0,
			},
			wantErr: false,
		},
		{
			name: "draw",
			game: createGame{
				WhiteID: uuid.NameSpaceDNS,
				BlackID: uuid.NameSpaceURL,
				Score:   0.5,
			},
			wantErr: false,
		},
		{
			name: "missing white",
			game: createGame{
				WhiteID: uuid.Nil,
				BlackID: uuid.NameSpaceURL,
				Score:   1,
			},
			wantErr: true,
		},
		{
			name: "missing black",
			game: createGame{
				WhiteID: uuid.NameSpaceDNS,
				BlackID: uuid.Nil,
				Score:   0,
			},
			wantErr: true,
		},
		{
			name: "same player",
			game: createGame{
				WhiteID: uuid.NameSpaceDNS,
				BlackID: uuid.NameSpaceDNS,
				Score:   1,
			},
			wantErr: true,
		},
		{
			name: "bad score",
			game: createGame{
				WhiteID: uuid.NameSpaceDNS,
				BlackID: uuid.NameSpaceURL,
				Score:   0.7,
			},
			wantErr: true,
		},
		{
			name: "negative score",
			game: createGame{
				WhiteID: uuid.NameSpaceDNS,
				BlackID: uuid.NameSpaceURL,
				Score:   -1,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.game.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_unwrap_nested(t *testing.T) {
	err := ErrMissingPlayer
	errs := unwrap(err)
	if len(errs) != 1 {
		t.Fatalf("unwrap() len = %d, want 1", len(errs))
	}
}

func snapshots(ratings ...float64) []domain.Snapshot {
	series := make([]domain.Snapshot, 0, len(ratings))
	for i, r := range ratings {
		series = append(series, domain.Snapshot{
			Period: i,
			Rating: domain.Rating{Rating: r},
		})
	}
	return series
}

func Test_ratingChart(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		if got := ratingChart(nil); got != "" {
			t.Errorf("ratingChart(nil) = %q, want empty", got)
		}
	})
	t.Run("renders polyline", func(t *testing.T) {
		series := snapshots(1500, 1516, 1484, 1520)
		svg := string(ratingChart(series))
		if !strings.Contains(svg, "<polyline") {
			t.Errorf("chart has no polyline: %s", svg)
		}
		if !strings.Contains(svg, "1520") || !strings.Contains(svg, "1484") {
			t.Errorf("chart is missing min/max labels: %s", svg)
		}
	})
	t.Run("flat series stays renderable", func(t *testing.T) {
		svg := string(ratingChart(snapshots(1500, 1500, 1500)))
		if !strings.Contains(svg, "<polyline") {
			t.Errorf("flat chart has no polyline: %s", svg)
		}
	})
}
