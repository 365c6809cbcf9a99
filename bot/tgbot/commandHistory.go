package tgbot

import (
	"errors"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/chesstable/bot/model"
	"github.com/goserg/chesstable/internal/service"
)

type HistoryCommand struct {
	playerService *service.PlayerService
}

func (c *HistoryCommand) Run(_ model.User, args string) (string, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return "", errors.New("укажите имя игрока: /history имя")
	}
	player, err := c.playerService.GetByName(name)
	if err != nil {
		return "", errors.New("игрок не найден")
	}
	series, err := c.playerService.GetPlayerHistory(player.ID)
	if err != nil {
		return "", err
	}
	history, err := c.playerService.History()
	if err != nil {
		return "", err
	}
	periods := history.Periods()
	var buffer strings.Builder
	buffer.WriteString(player.FullName)
	buffer.WriteString("\n")
	for _, snap := range series {
		if snap.Period >= 0 && snap.Period < len(periods) {
			buffer.WriteString(periods[snap.Period])
		} else {
			buffer.WriteString(strconv.Itoa(snap.Period))
		}
		buffer.WriteString(": ")
		buffer.WriteString(strconv.Itoa(int(snap.Rating.Rating)))
		buffer.WriteString("\n")
	}
	return buffer.String(), nil
}

func (c *HistoryCommand) Help() string {
	return `История рейтинга игрока по периодам: /history имя`
}

func (c *HistoryCommand) Permission() mapset.Set[model.UserRole] {
	return mapset.NewSet(model.RoleAdmin, model.RoleUser)
}

func (c *HistoryCommand) Visibility() mapset.Set[model.UserRole] {
	return mapset.NewSet(model.RoleAdmin, model.RoleUser)
}
