package tgbot

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/chesstable/bot/model"
	"github.com/goserg/chesstable/internal/service"
)

type Command interface {
	Run(user model.User, args string) (string, error)
	Help() string
	Permission() mapset.Set[model.UserRole]
	Visibility() mapset.Set[model.UserRole]
}

type Commands struct {
	list map[string]Command
}

func NewCommands(ps *service.PlayerService) *Commands {
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"top": &TopCommand{
				playerService: ps,
			},
			"gtop": &DeviationTopCommand{
				playerService: ps,
			},
			"history": &HistoryCommand{
				playerService: ps,
			},
		},
	}
	hc.commands = uc.list
	return &uc
}

func (uc *Commands) RunCommand(user model.User, cmd string, args string) (string, error) {
	for s, command := range uc.list {
		if cmd == s {
			if command.Permission().Contains(user.Role) {
				return command.Run(user, args)
			}
		}
	}
	return "", ErrBadRequest
}
