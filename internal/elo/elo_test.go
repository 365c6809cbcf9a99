package elo

import (
	"math"
	"testing"

	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/rating"
)

func settings(k float64) rating.Settings {
	s := rating.DefaultSettings()
	s.KFactor = k
	return s
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name       string
		k          float64
		pre        float64
		encounters []rating.Encounter
		want       float64
	}{
		{
			name: "equal ratings win",
			k:    32,
			pre:  1500,
			encounters: []rating.Encounter{
				{Opponent: domain.Rating{Rating: 1500}, Score: domain.WhiteWins},
			},
			want: 1516,
		},
		{
			name: "equal ratings loss",
			k:    32,
			pre:  1500,
			encounters: []rating.Encounter{
				{Opponent: domain.Rating{Rating: 1500}, Score: domain.BlackWins},
			},
			want: 1484,
		},
		{
			name: "equal ratings draw",
			k:    32,
			pre:  1500,
			encounters: []rating.Encounter{
				{Opponent: domain.Rating{Rating: 1500}, Score: domain.Draw},
			},
			want: 1500,
		},
		{
			name:       "idle period keeps rating",
			k:          20,
			pre:        1621.5,
			encounters: nil,
			want:       1621.5,
		},
		{
			name: "favorite beats underdog",
			k:    20,
			pre:  1700,
			encounters: []rating.Encounter{
				{Opponent: domain.Rating{Rating: 1300}, Score: domain.WhiteWins},
			},
			want: 1700 + 20*(1-1.0/(1.0+math.Pow(10, -1))),
		},
		{
			name: "two games same period sum independently",
			k:    20,
			pre:  1500,
			encounters: []rating.Encounter{
				{Opponent: domain.Rating{Rating: 1600}, Score: domain.WhiteWins},
				{Opponent: domain.Rating{Rating: 1400}, Score: domain.BlackWins},
			},
			want: 1500 + 20*((1-Expected(1500, 1600))+(0-Expected(1500, 1400))),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			alg := New(settings(tt.k))
			got, err := alg.Update(domain.Rating{Rating: tt.pre}, tt.encounters)
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if math.Abs(got.Rating-tt.want) > 1e-9 {
				t.Errorf("Update() = %v, want %v", got.Rating, tt.want)
			}
		})
	}
}

func TestUpdateWinnerLoserSymmetry(t *testing.T) {
	alg := New(settings(32))
	winner := domain.Rating{Rating: 1450}
	loser := domain.Rating{Rating: 1580}
	e := Expected(winner.Rating, loser.Rating)

	newWinner, err := alg.Update(winner, []rating.Encounter{{Opponent: loser, Score: domain.WhiteWins}})
	if err != nil {
		t.Fatal(err)
	}
	newLoser, err := alg.Update(loser, []rating.Encounter{{Opponent: winner, Score: domain.BlackWins}})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := newWinner.Rating-winner.Rating, 32*(1-e); math.Abs(got-want) > 1e-9 {
		t.Errorf("winner delta = %v, want %v", got, want)
	}
	if got, want := loser.Rating-newLoser.Rating, 32*(1-e); math.Abs(got-want) > 1e-9 {
		t.Errorf("loser delta = %v, want %v", got, want)
	}
}

func TestRepeatedDrawsStable(t *testing.T) {
	alg := New(settings(20))
	a := domain.Rating{Rating: 1500}
	b := domain.Rating{Rating: 1500}
	for i := 0; i < 50; i++ {
		na, err := alg.Update(a, []rating.Encounter{{Opponent: b, Score: domain.Draw}})
		if err != nil {
			t.Fatal(err)
		}
		nb, err := alg.Update(b, []rating.Encounter{{Opponent: a, Score: domain.Draw}})
		if err != nil {
			t.Fatal(err)
		}
		a, b = na, nb
	}
	if a.Rating != 1500 || b.Rating != 1500 {
		t.Errorf("ratings drifted: %v, %v", a.Rating, b.Rating)
	}
}

func TestExpected(t *testing.T) {
	if got := Expected(1500, 1500); got != 0.5 {
		t.Errorf("Expected(1500, 1500) = %v, want 0.5", got)
	}
	// 400 points of difference puts the favorite at 10/11.
	if got, want := Expected(1900, 1500), 10.0/11.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected(1900, 1500) = %v, want %v", got, want)
	}
}
