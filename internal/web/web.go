package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	embedded "github.com/goserg/chesstable"
	authservice "github.com/goserg/chesstable/auth/service"
	"github.com/goserg/chesstable/auth/users"
	"github.com/goserg/chesstable/internal/config"
	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/service"
	"github.com/goserg/chesstable/internal/web/webpath"
)

type Server struct {
	auth          *authservice.Service
	playerService *service.PlayerService
	app           *fiber.App
	cfg           config.Server
	log           *logrus.Entry
}

func New(ps *service.PlayerService, cfg config.Server, authService *authservice.Service, l *logrus.Logger) (*Server, error) {
	server := Server{
		playerService: ps,
		auth:          authService,
		cfg:           cfg,
		log:           l.WithField("from", "web"),
	}

	fsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(fsFS), ".html")
	engine.Reload(cfg.Debug)
	engine.Debug(cfg.Debug)
	engine.AddFunc("FormatDate", formatDate)
	engine.AddFunc("RatingChart", ratingChart)

	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(webpath.Api, func(c *fiber.Ctx) error {
		tokenCookie := c.Cookies("token")
		user, err := authService.Auth(c.Context(), tokenCookie, c.Method(), c.OriginalURL())
		if err != nil {
			switch {
			case errors.Is(err, authservice.ErrForbidden):
				c.Status(fiber.StatusForbidden)
			case errors.Is(err, authservice.ErrNotAuthorized):
				c.Status(fiber.StatusUnauthorized)
			default:
				c.Status(fiber.StatusInternalServerError)
			}
			return nil
		}
		c.Context().SetUserValue(userKey, user)
		return c.Next()
	})
	app.Get(webpath.Signin, server.handleGetSignIn)
	app.Post(webpath.Signin, server.handlePostSignIn)
	app.Get(webpath.Signup, server.handleGetSignup)
	app.Post(webpath.Signup, server.handlePostSignup)
	app.Get(webpath.Signout, server.handleSignOut)
	app.Get(webpath.Home, func(ctx *fiber.Ctx) error {
		return ctx.Redirect(webpath.Api)
	})

	app.Get(webpath.ApiHome, server.handleMain)
	app.Get(webpath.ApiRoster, server.handleRoster)
	app.Get(webpath.ApiGamesList, server.handleGames)
	app.Get(webpath.ApiNewGame, server.handleCreateGameGet)
	app.Post(webpath.ApiNewGame, server.handleCreateGamePost)
	app.Get(webpath.ApiPlayerChart, server.handlePlayerHistory)
	app.Get(webpath.ApiGetPlayer, server.handlePlayerInfo)
	app.Get(webpath.ApiNewPlayer, server.handleNewPlayerGet)
	app.Post(webpath.ApiNewPlayer, server.handleNewPlayerPost)
	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

const userKey = "user"

func userFromCtx(ctx *fiber.Ctx) users.User {
	user, _ := ctx.Context().UserValue(userKey).(users.User)
	return user
}

func (s *Server) handleMain(ctx *fiber.Ctx) error {
	title := "Рейтинг"
	var (
		ratings []domain.Player
		err     error
	)
	if q := ctx.Query("period"); q != "" {
		period, convErr := strconv.Atoi(q)
		if convErr != nil {
			return convErr
		}
		ratings, err = s.playerService.GetRatingsAt(period)
		if err != nil {
			return err
		}
		history, err := s.playerService.History()
		if err != nil {
			return err
		}
		title = "Рейтинг на " + history.Periods()[period]
	} else {
		ratings, err = s.playerService.GetRatings()
		if err != nil {
			return err
		}
	}
	return ctx.Render("index",
		newData(title).
			WithUser(userFromCtx(ctx)).
			With("Button", "rating").
			With("Players", ratings),
		"layouts/main")
}

func (s *Server) handleRoster(ctx *fiber.Ctx) error {
	ratings, err := s.playerService.GetRatings()
	if err != nil {
		return err
	}
	return ctx.JSON(ratings)
}

func (s *Server) handleGames(ctx *fiber.Ctx) error {
	games, err := s.playerService.GetGames()
	if err != nil {
		return err
	}
	return ctx.Render("games",
		newData("Список партий").
			WithUser(userFromCtx(ctx)).
			With("Button", "games").
			With("Games", games),
		"layouts/main")
}

func (s *Server) handleCreateGameGet(ctx *fiber.Ctx) error {
	players, err := s.playerService.GetRatings()
	if err != nil {
		return err
	}
	return ctx.Render("newGame",
		newData("Добавить партию").
			WithUser(userFromCtx(ctx)).
			With("Players", players),
		"layouts/main")
}

func (s *Server) handleCreateGamePost(ctx *fiber.Ctx) error {
	white, err := s.playerService.GetByName(ctx.FormValue("white"))
	if err != nil {
		return s.renderCreateGameError(ctx, errors.New("белые: игрок не найден"))
	}
	black, err := s.playerService.GetByName(ctx.FormValue("black"))
	if err != nil {
		return s.renderCreateGameError(ctx, errors.New("чёрные: игрок не найден"))
	}
	req := createGame{
		WhiteID: white.ID,
		BlackID: black.ID,
		Score:   formValueScore(ctx),
	}
	if err := req.Validate(); err != nil {
		return s.renderCreateGameError(ctx, err)
	}
	if _, err := s.playerService.CreateGame(req.convertToDomainGame()); err != nil {
		return err
	}
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) renderCreateGameError(ctx *fiber.Ctx, err error) error {
	players, psErr := s.playerService.GetRatings()
	if psErr != nil {
		return psErr
	}
	return ctx.Render("newGame",
		newData("Добавить партию").
			WithUser(userFromCtx(ctx)).
			With("Players", players).
			WithErrors(err),
		"layouts/main")
}

func (s *Server) handlePlayerInfo(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return err
	}
	player, err := s.playerService.Get(id)
	if err != nil {
		return err
	}
	series, err := s.playerService.GetPlayerHistory(id)
	if err != nil {
		return err
	}
	stats, err := s.playerService.PlayerStats(id)
	if err != nil {
		return err
	}
	return ctx.Render("player",
		newData(player.FullName).
			WithUser(userFromCtx(ctx)).
			With("Player", player).
			With("Stats", stats).
			With("History", series),
		"layouts/main")
}

func (s *Server) handlePlayerHistory(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return err
	}
	player, err := s.playerService.Get(id)
	if err != nil {
		return err
	}
	series, err := s.playerService.GetPlayerHistory(id)
	if err != nil {
		return err
	}
	history, err := s.playerService.History()
	if err != nil {
		return err
	}
	return ctx.JSON(convertHistory(player, history.Periods(), series))
}

func (s *Server) handleNewPlayerGet(ctx *fiber.Ctx) error {
	return ctx.Render("newPlayer",
		newData("Добавить игрока").
			WithUser(userFromCtx(ctx)),
		"layouts/main")
}

func (s *Server) handleNewPlayerPost(ctx *fiber.Ctx) error {
	name := ctx.FormValue("name", "")
	fullName := ctx.FormValue("full-name", "")
	if name == "" {
		return ctx.Render("newPlayer",
			newData("Добавить игрока").
				WithUser(userFromCtx(ctx)).
				WithErrors(errors.New("имя игрока не должно быть пустым")),
			"layouts/main")
	}
	if _, err := s.playerService.AddPlayer(name, fullName); err != nil {
		return ctx.Render("newPlayer",
			newData("Добавить игрока").
				WithUser(userFromCtx(ctx)).
				WithErrors(err),
			"layouts/main")
	}
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) handleGetSignIn(ctx *fiber.Ctx) error {
	return ctx.Render("signin", newData("Войти"), "layouts/main")
}

func (s *Server) handlePostSignIn(ctx *fiber.Ctx) error {
	req, err := parseSignInRequest(ctx)
	if err != nil {
		return ctx.Render("signin", newData("Войти").WithErrors(err), "layouts/main")
	}
	user, err := s.auth.Login(ctx.Context(), req.name, req.password)
	if err != nil {
		s.log.WithField("user", req.name).Warn("login failed")
		return ctx.Render("signin",
			newData("Войти").WithErrors(errors.New("неверное имя пользователя или пароль")),
			"layouts/main")
	}
	cookie, err := s.auth.GenerateJWTCookie(user.ID, s.cfg.Host)
	if err != nil {
		return err
	}
	ctx.Cookie(cookie)
	return ctx.Redirect(webpath.ApiHome)
}

func (s *Server) handleGetSignup(ctx *fiber.Ctx) error {
	return ctx.Render("signup", newData("Зарегистрироваться"), "layouts/main")
}

func (s *Server) handlePostSignup(ctx *fiber.Ctx) error {
	req, err := parseSignUpRequest(ctx)
	if err != nil {
		return ctx.Render("signup", newData("Зарегистрироваться").WithErrors(err), "layouts/main")
	}
	if _, err := s.auth.Register(ctx.Context(), req.name, req.password); err != nil {
		return ctx.Render("signup",
			newData("Зарегистрироваться").WithErrors(errors.New("не удалось создать пользователя")),
			"layouts/main")
	}
	return ctx.Redirect(webpath.Signin)
}

func (s *Server) handleSignOut(ctx *fiber.Ctx) error {
	ctx.ClearCookie("token")
	return ctx.Redirect(webpath.ApiHome)
}
