package tgbot

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	botmodel "github.com/goserg/chesstable/bot/model"
	"github.com/goserg/chesstable/internal/config"
	"github.com/goserg/chesstable/internal/service"
)

type Bot struct {
	bot    *tgbotapi.BotAPI
	log    *logrus.Entry
	admins mapset.Set[int64]

	// cancel func to stop the bot
	cancel func()

	commands *Commands
}

var ErrBadRequest = errors.New("неизвестная команда")

func New(ps *service.PlayerService, cfg config.Config, log *logrus.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TgBot.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}

	bot.Debug = cfg.Server.Debug
	if _, err := bot.GetMe(); err != nil {
		return nil, err
	}

	b := Bot{
		bot:      bot,
		log:      log.WithField("from", "tg_bot"),
		admins:   mapset.NewSet(cfg.TgBot.AdminIDs...),
		commands: NewCommands(ps),
	}
	return &b, nil
}

func (b *Bot) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleMessage(update)
		}
	}
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Bot) handleMessage(update tgbotapi.Update) {
	if update.Message == nil { // ignore any non-Message updates
		return
	}
	tgUser := update.SentFrom()
	if tgUser == nil {
		return
	}
	log := b.log.WithFields(map[string]interface{}{
		"user_id": tgUser.ID,
		"text":    update.Message.Text,
	})

	user := botmodel.User{
		ID:        tgUser.ID,
		FirstName: tgUser.FirstName,
		Username:  tgUser.UserName,
		Role:      botmodel.RoleUser,
	}
	if b.admins.Contains(tgUser.ID) {
		user.Role = botmodel.RoleAdmin
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	text, err := b.commands.RunCommand(user, update.Message.Command(), update.Message.CommandArguments())
	if err != nil {
		msg.Text = err.Error()
	} else {
		msg.Text = text
	}
	if _, err := b.bot.Send(msg); err != nil {
		log.WithError(err).Error("send error")
	}
}
