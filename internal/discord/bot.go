// Package discord adapts the query flow to a Discord gateway connection. It
// owns command parsing, the URL middleware hook, and the per-user prompt
// bookkeeping; everything game-related is delegated to the plugin.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/H4M5TER/steaminfo/internal/config"
	"github.com/H4M5TER/steaminfo/internal/plugin"
	"github.com/H4M5TER/steaminfo/internal/render"
)

// Bot is the Discord front end. One gateway session serves every guild the
// bot is in; prompts are keyed by channel and user so parallel
// disambiguations do not steal each other's replies.
type Bot struct {
	session       *discordgo.Session
	plugin        *plugin.Plugin
	command       string
	middleware    bool
	promptTimeout time.Duration

	mu      sync.Mutex
	pending map[string]chan string
}

// New builds the bot from config. The token must already be set.
func New(cfg config.BotConfig, p *plugin.Plugin) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsDirectMessages

	b := &Bot{
		session:       session,
		plugin:        p,
		command:       cfg.Command,
		middleware:    cfg.IsMiddleware(),
		promptTimeout: cfg.GetPromptTimeout(),
		pending:       make(map[string]chan string),
	}
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

// Start opens the gateway connection and closes it when ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord: open gateway: %w", err)
	}
	log.Printf("discord: connected as %s", b.session.State.User.Username)
	go func() {
		<-ctx.Done()
		if err := b.session.Close(); err != nil {
			log.Printf("discord: close gateway: %v", err)
		}
	}()
	return nil
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	// A registered prompt for this channel/user consumes the message whole.
	if b.deliverReply(m.ChannelID, m.Author.ID, m.Content) {
		return
	}

	content := strings.TrimSpace(m.Content)
	prefix := "!" + b.command
	if content == prefix || strings.HasPrefix(content, prefix+" ") {
		term, mode := parseInvocation(strings.TrimSpace(strings.TrimPrefix(content, prefix)))
		go b.runQuery(m.ChannelID, m.Author.ID, term, mode)
		return
	}

	if b.middleware {
		go b.runMiddleware(m.ChannelID, m.Author.ID, content)
	}
}

func (b *Bot) runQuery(channelID, userID, term, mode string) {
	ctx, cancel := context.WithTimeout(context.Background(), b.promptTimeout+time.Minute)
	defer cancel()
	sess := &conversation{bot: b, channelID: channelID, userID: userID}
	if err := b.plugin.HandleQuery(ctx, sess, term, mode); err != nil {
		log.Printf("discord: query %q in channel %s failed: %v", term, channelID, err)
	}
}

func (b *Bot) runMiddleware(channelID, userID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	sess := &conversation{bot: b, channelID: channelID, userID: userID}
	handled, err := b.plugin.HandleAppURL(ctx, sess, content)
	if handled && err != nil {
		log.Printf("discord: app url in channel %s failed: %v", channelID, err)
	}
}

// parseInvocation splits "-m <mode> <term>" style arguments. The mode option
// may appear before or after the term; the rest is the search term verbatim.
func parseInvocation(args string) (term, mode string) {
	fields := strings.Fields(args)
	var rest []string
	for i := 0; i < len(fields); i++ {
		if fields[i] == "-m" && i+1 < len(fields) {
			mode = fields[i+1]
			i++
			continue
		}
		rest = append(rest, fields[i])
	}
	return strings.Join(rest, " "), mode
}

func (b *Bot) registerPrompt(channelID, userID string) chan string {
	ch := make(chan string, 1)
	b.mu.Lock()
	b.pending[promptKey(channelID, userID)] = ch
	b.mu.Unlock()
	return ch
}

func (b *Bot) unregisterPrompt(channelID, userID string) {
	b.mu.Lock()
	delete(b.pending, promptKey(channelID, userID))
	b.mu.Unlock()
}

func (b *Bot) deliverReply(channelID, userID, content string) bool {
	b.mu.Lock()
	ch, ok := b.pending[promptKey(channelID, userID)]
	b.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- content:
	default:
	}
	return true
}

func promptKey(channelID, userID string) string {
	return channelID + ":" + userID
}

// conversation binds one query flow to one channel and user.
type conversation struct {
	bot       *Bot
	channelID string
	userID    string
}

// Send delivers a rendered message: plain text, an embed for image URLs, or
// an attachment for raw screenshot bytes.
func (c *conversation) Send(msg render.Message) error {
	send := &discordgo.MessageSend{Content: msg.Text}
	if msg.ImageURL != "" {
		send.Embed = &discordgo.MessageEmbed{
			Image: &discordgo.MessageEmbedImage{URL: msg.ImageURL},
		}
	}
	if len(msg.Image) > 0 {
		name := "detail.png"
		if msg.MIME == "image/jpeg" {
			name = "detail.jpg"
		}
		send.Files = []*discordgo.File{{
			Name:        name,
			ContentType: msg.MIME,
			Reader:      bytes.NewReader(msg.Image),
		}}
	}
	_, err := c.bot.session.ChannelMessageSendComplex(c.channelID, send)
	if err != nil {
		return fmt.Errorf("discord: send to channel %s: %w", c.channelID, err)
	}
	return nil
}

// Prompt sends the disambiguation list and waits for the next message from
// the same user in the same channel.
func (c *conversation) Prompt(ctx context.Context, text string) (string, error) {
	ch := c.bot.registerPrompt(c.channelID, c.userID)
	defer c.bot.unregisterPrompt(c.channelID, c.userID)

	if err := c.Send(render.Message{Text: text}); err != nil {
		return "", err
	}

	timer := time.NewTimer(c.bot.promptTimeout)
	defer timer.Stop()
	select {
	case reply := <-ch:
		return reply, nil
	case <-timer.C:
		return "", plugin.ErrNoReply
	case <-ctx.Done():
		return "", plugin.ErrNoReply
	}
}
