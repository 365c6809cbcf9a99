package tgbot

import (
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/chesstable/bot/model"
	"github.com/goserg/chesstable/internal/service"
)

// DeviationTopCommand prints the standings with 95% confidence intervals
// built from the rating deviation.
type DeviationTopCommand struct {
	playerService *service.PlayerService
}

func (c *DeviationTopCommand) Run(_ model.User, _ string) (string, error) {
	ratings, err := c.playerService.GetRatings()
	if err != nil {
		return "", err
	}
	var buffer strings.Builder
	for i := range ratings {
		if i > 9 {
			break
		}
		r := ratings[i].Rating
		buffer.WriteString(strconv.Itoa(ratings[i].RatingRank))
		buffer.WriteString(". ")
		buffer.WriteString(ratings[i].FullName)
		buffer.WriteString(" - ")
		buffer.WriteString(strconv.Itoa(int(r.Rating)))
		buffer.WriteString(" (")
		buffer.WriteString(strconv.Itoa(int(r.Rating - 2*r.Deviation)))
		buffer.WriteString("-")
		buffer.WriteString(strconv.Itoa(int(r.Rating + 2*r.Deviation)))
		buffer.WriteString(")\n")
	}
	return buffer.String(), nil
}

func (c *DeviationTopCommand) Help() string {
	return `Список лучших в рейтинге с доверительными интервалами`
}

func (c *DeviationTopCommand) Permission() mapset.Set[model.UserRole] {
	return mapset.NewSet(model.RoleAdmin, model.RoleUser)
}

func (c *DeviationTopCommand) Visibility() mapset.Set[model.UserRole] {
	return mapset.NewSet(model.RoleAdmin)
}
