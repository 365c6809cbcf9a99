package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	authservice "github.com/goserg/chesstable/auth/service"
	authsqlite "github.com/goserg/chesstable/auth/storage/sqlite"
	"github.com/goserg/chesstable/bot/tgbot"
	"github.com/goserg/chesstable/internal/config"
	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/logger"
	"github.com/goserg/chesstable/internal/parse"
	"github.com/goserg/chesstable/internal/rating"
	"github.com/goserg/chesstable/internal/service"
	"github.com/goserg/chesstable/internal/storage/sqlite"
	"github.com/goserg/chesstable/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		gamesPath  string
		namesPath  string
		algorithm  string
		serve      bool
	)
	flag.StringVar(&configPath, "config", "configs", "path to the config directory")
	flag.StringVar(&gamesPath, "games", "", "path to a game list file to import")
	flag.StringVar(&namesPath, "names", "", "path to a name list file to import")
	flag.StringVar(&algorithm, "algorithm", "", "override the configured rating algorithm (elo, glicko, glicko2)")
	flag.BoolVar(&serve, "serve", false, "run the web server instead of printing standings")
	flag.Parse()

	cfg, err := config.New(configPath)
	if err != nil {
		return err
	}
	if algorithm != "" {
		cfg.Rating.Algorithm = algorithm
		if !cfg.Rating.Valid() {
			return fmt.Errorf("unknown algorithm %q", algorithm)
		}
	}
	log := logger.New(cfg.Server.Debug)

	dbFile := cfg.Server.SqliteFile
	if !serve {
		dbFile = ":memory:"
	}
	st, err := sqlite.New(dbFile, log)
	if err != nil {
		return err
	}
	defer st.Close()

	playerService, err := service.New(st, st, cfg.Rating, log)
	if err != nil {
		return err
	}

	if gamesPath != "" {
		if err := importFiles(playerService, gamesPath, namesPath); err != nil {
			return err
		}
	}

	if !serve {
		return printStandings(playerService)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authCfg, err := authservice.Load(configPath)
	if err != nil {
		return err
	}
	authStorage, err := authsqlite.New(authCfg.SqliteFile, log)
	if err != nil {
		return err
	}
	defer authStorage.Close()
	authService, err := authservice.New(ctx, authCfg, authStorage, log)
	if err != nil {
		return err
	}

	server, err := web.New(playerService, cfg.Server, authService, log)
	if err != nil {
		return err
	}

	if cfg.TgBot.Enabled {
		bot, err := tgbot.New(playerService, cfg, log)
		if err != nil {
			return err
		}
		go bot.Run()
		defer bot.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return server.Shutdown()
	}
}

func importFiles(playerService *service.PlayerService, gamesPath, namesPath string) error {
	gamesFile, err := os.Open(gamesPath)
	if err != nil {
		return err
	}
	defer gamesFile.Close()
	records, err := parse.ReadGames(gamesFile)
	if err != nil {
		return err
	}

	names := map[string]string{}
	if namesPath != "" {
		namesFile, err := os.Open(namesPath)
		if err != nil {
			return err
		}
		defer namesFile.Close()
		names, err = parse.ReadNames(namesFile)
		if err != nil {
			return err
		}
	}
	return playerService.ImportFiles(names, records)
}

// printStandings writes one standings table per playing day, newest state
// last, the way the league posts them, and closes with the result shares.
func printStandings(playerService *service.PlayerService) error {
	history, err := playerService.History()
	if err != nil {
		return err
	}
	if err := writeStandings(os.Stdout, history); err != nil {
		return err
	}
	games, err := playerService.GetGames()
	if err != nil {
		return err
	}
	white, black, draws := resultShares(games)
	fmt.Printf("white wins %.1f%%, black wins %.1f%%, draws %.1f%%\n", white, black, draws)
	return nil
}

func writeStandings(w io.Writer, history *rating.History) error {
	names := make(map[uuid.UUID]string)
	for _, p := range history.Players() {
		names[p.ID] = p.FullName
	}
	for i, key := range history.Periods() {
		snapshots := history.At(i)
		sort.SliceStable(snapshots, func(a, b int) bool {
			return snapshots[a].Rating.Rating > snapshots[b].Rating.Rating
		})
		withRD := false
		for _, snap := range snapshots {
			if snap.Rating.Deviation > 0 {
				withRD = true
				break
			}
		}
		if _, err := fmt.Fprintf(w, "=== %s ===\n", key); err != nil {
			return err
		}
		for rank, snap := range snapshots {
			var err error
			if withRD {
				_, err = fmt.Fprintf(w, "%2d. %-20s %6.1f  RD %5.1f\n", rank+1, names[snap.PlayerID], snap.Rating.Rating, snap.Rating.Deviation)
			} else {
				_, err = fmt.Fprintf(w, "%2d. %-20s %6.1f\n", rank+1, names[snap.PlayerID], snap.Rating.Rating)
			}
			if err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// resultShares reports the white win, black win and draw percentages over the
// stored games.
func resultShares(games []domain.Game) (white, black, draws float64) {
	if len(games) == 0 {
		return 0, 0, 0
	}
	var w, b, d int
	for _, game := range games {
		switch game.ScoreWhite {
		case domain.WhiteWins:
			w++
		case domain.BlackWins:
			b++
		default:
			d++
		}
	}
	n := float64(len(games))
	return float64(w) / n * 100, float64(b) / n * 100, float64(d) / n * 100
}
