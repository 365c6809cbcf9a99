package sel

const (
	Logo = ".brand-logo"

	NewPlayerFormName     = "#new-player-form-name"
	NewPlayerFormFullName = "#new-player-form-full-name"
	NewPlayerFormSubmit   = "#new-player-form-submit"

	NewGameFormWhite     = "#new-game-form-white"
	NewGameFormBlack     = "#new-game-form-black"
	NewGameFormDraw      = "#new-game-form-draw"
	NewGameFormWhiteWins = "#new-game-form-white-wins"
	NewGameFormBlackWins = "#new-game-form-black-wins"
	NewGameFormSubmit    = "#new-game-form-submit"

	PlayerListRow     = "#player-list-row"
	PlayerListRowName = "#player-list-row-name"
	PlayerListRowLink = PlayerListRow + " a"

	GameListRow = "#game-list-row"

	SignInFormUsername = "#username-field"
	SignInFormPass     = "#password-field"
	SignInFormSubmit   = "#signin-form-submit"
)
