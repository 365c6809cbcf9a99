package tgbot

import (
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/chesstable/bot/model"
	"github.com/goserg/chesstable/internal/service"
)

type TopCommand struct {
	playerService *service.PlayerService
}

func (c *TopCommand) Run(_ model.User, _ string) (string, error) {
	ratings, err := c.playerService.GetRatings()
	if err != nil {
		return "", err
	}
	var buffer strings.Builder
	for i := range ratings {
		if i > 9 {
			break
		}
		buffer.WriteString(strconv.Itoa(ratings[i].RatingRank))
		buffer.WriteString(". ")
		buffer.WriteString(ratings[i].FullName)
		buffer.WriteString(" (")
		buffer.WriteString(strconv.Itoa(int(ratings[i].Rating.Rating)))
		buffer.WriteString(")\n")
	}
	return buffer.String(), nil
}

func (c *TopCommand) Help() string {
	return `Список лучших в рейтинге`
}

func (c *TopCommand) Permission() mapset.Set[model.UserRole] {
	return mapset.NewSet(model.RoleAdmin, model.RoleUser)
}

func (c *TopCommand) Visibility() mapset.Set[model.UserRole] {
	return mapset.NewSet(model.RoleAdmin, model.RoleUser)
}
