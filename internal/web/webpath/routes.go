package webpath

const (
	Signin  = "/signin"
	Signup  = "/signup"
	Signout = "/signout"
	Home    = "/"

	Api            = "/api"
	ApiHome        = Api + Home
	ApiRoster      = Api + "/roster"
	ApiGamesList   = Api + "/games-list"
	ApiNewGame     = Api + "/games"
	ApiGetPlayer   = Api + "/players/:id"
	ApiNewPlayer   = Api + "/players"
	ApiPlayerChart = Api + "/players/:id/history"
)

func Path() map[string]string {
	return map[string]string{
		"SignUp":       Signup,
		"SignIn":       Signin,
		"SignOut":      Signout,
		"Home":         Home,
		"Api":          Api,
		"ApiHome":      ApiHome,
		"ApiGames":     ApiGamesList,
		"ApiNewGame":   ApiNewGame,
		"ApiNewPlayer": ApiNewPlayer,
	}
}
