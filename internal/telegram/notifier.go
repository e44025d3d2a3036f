package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/camuig/upbit-trader/internal/ai"
	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/executor"
	"github.com/camuig/upbit-trader/internal/logger"
)

// Notifier pushes cycle outcomes to a Telegram chat. Disabled or
// misconfigured bots degrade to a no-op.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Telegram.Enabled {
		return &Notifier{enabled: false, logger: log}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return &Notifier{enabled: false, logger: log}
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)

	return &Notifier{
		bot:     bot,
		chatID:  cfg.Telegram.ChatID,
		enabled: true,
		logger:  log,
	}
}

func (n *Notifier) NotifyDecision(d ai.Decision, res executor.Result) {
	var msg string
	switch {
	case res.Executed && d.Decision == "buy":
		msg = fmt.Sprintf("🟢 *BUY* %d%% of KRW balance\nOrder: `%s`\nReason: %s", d.Percentage, res.OrderID, d.Reason)
	case res.Executed && d.Decision == "sell":
		msg = fmt.Sprintf("🔴 *SELL* %d%% of BTC balance\nOrder: `%s`\nReason: %s", d.Percentage, res.OrderID, d.Reason)
	case res.Err != nil:
		msg = fmt.Sprintf("⚠️ *%s failed*\n%v\nReason: %s", d.Decision, res.Err, d.Reason)
	case d.Decision == "hold":
		msg = fmt.Sprintf("⏸ *HOLD*\nReason: %s", d.Reason)
	default:
		msg = fmt.Sprintf("⏭ *%s skipped* (%s)\nReason: %s", d.Decision, res.Skipped, d.Reason)
	}
	n.send(msg)
}

func (n *Notifier) NotifyError(scope string, err error) {
	n.send(fmt.Sprintf("⚠️ *Error* [%s]\n%v", scope, err))
}

func (n *Notifier) NotifyStatus(message string) {
	n.send(message)
}

func (n *Notifier) send(text string) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("send telegram message", "error", err)
	}
}
