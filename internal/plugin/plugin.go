// Package plugin implements the conversation flow: search the storefront,
// disambiguate among candidates, render the selected title, reply. The host
// chat framework is consumed through the Session and locale.Localizer
// interfaces; nothing here knows which transport is behind them.
package plugin

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/H4M5TER/steaminfo/internal/locale"
	"github.com/H4M5TER/steaminfo/internal/render"
	"github.com/H4M5TER/steaminfo/internal/steam"
)

// ErrNoReply reports that the prompt wait ended without a usable reply
// (timeout or host-side cancellation). The flow treats it as "no selection".
var ErrNoReply = errors.New("plugin: no reply")

// Session is one conversation with one user, supplied by the host adapter.
type Session interface {
	// Send delivers a reply message to the conversation.
	Send(msg render.Message) error
	// Prompt sends text and awaits a single reply from the same user within
	// the host's timeout. Returns ErrNoReply when nothing arrives.
	Prompt(ctx context.Context, text string) (string, error)
}

// Searcher is the slice of the storefront client the flow needs.
type Searcher interface {
	Search(ctx context.Context, term string) ([]steam.Candidate, error)
}

// Renderer turns a selected app id into a reply message.
type Renderer interface {
	Render(ctx context.Context, appID string, mode render.Mode) (render.Message, error)
	DefaultMode() render.Mode
}

// Plugin holds the injected collaborators for the query flow.
type Plugin struct {
	search  Searcher
	render  Renderer
	loc     locale.Localizer
	fuzzy   bool
	command string
}

// New wires the plugin. command is the invocation name echoed in usage text.
func New(search Searcher, renderer Renderer, loc locale.Localizer, fuzzy bool, command string) *Plugin {
	return &Plugin{search: search, render: renderer, loc: loc, fuzzy: fuzzy, command: command}
}

// HandleQuery runs the full command flow for a free-text search term.
// modeOverride is the raw per-invocation option; empty means the configured
// default, an unparseable value is logged and ignored.
func (p *Plugin) HandleQuery(ctx context.Context, sess Session, term, modeOverride string) error {
	qid := queryID()
	term = strings.TrimSpace(term)
	if term == "" {
		return sess.Send(render.Message{Text: p.loc.Text("command.usage", p.command)})
	}

	mode := p.resolveMode(qid, modeOverride)

	candidates, err := p.search.Search(ctx, term)
	if err != nil {
		log.Printf("[query:%s] search %q failed: %v", qid, term, err)
		return sess.Send(render.Message{Text: p.loc.Text("search.failed")})
	}
	if len(candidates) == 0 {
		return sess.Send(render.Message{Text: p.loc.Text("search.notFound", term)})
	}

	selected, ok := AutoSelect(candidates, p.fuzzy, term)
	if !ok {
		reply, err := sess.Prompt(ctx, FormatCandidateList(candidates, p.loc))
		if errors.Is(err, ErrNoReply) {
			return nil
		}
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(strings.TrimSpace(reply))
		if err != nil || index < 1 || index > len(candidates) {
			// Invalid choice terminates the flow silently, no re-prompt.
			return nil
		}
		selected = candidates[index-1]
	}

	return p.reply(ctx, qid, sess, selected.AppID, mode)
}

// HandleAppURL is the middleware entry point: when text is a store app-page
// URL, render the referenced title directly. Returns false when the text does
// not match, so the host can pass the message along its chain.
func (p *Plugin) HandleAppURL(ctx context.Context, sess Session, text string) (bool, error) {
	appID, ok := ExtractAppID(text)
	if !ok {
		return false, nil
	}
	return true, p.reply(ctx, queryID(), sess, appID, p.render.DefaultMode())
}

func (p *Plugin) reply(ctx context.Context, qid string, sess Session, appID string, mode render.Mode) error {
	msg, err := p.render.Render(ctx, appID, mode)
	switch {
	case errors.Is(err, steam.ErrAppNotFound):
		return sess.Send(render.Message{Text: p.loc.Text("detail.notFound")})
	case err != nil:
		log.Printf("[query:%s] render app %s (%s) failed: %v", qid, appID, mode, err)
		return sess.Send(render.Message{Text: p.loc.Text("render.failed")})
	}
	return sess.Send(msg)
}

func (p *Plugin) resolveMode(qid, override string) render.Mode {
	if override == "" {
		return p.render.DefaultMode()
	}
	mode, err := render.ParseMode(override)
	if err != nil {
		log.Printf("[query:%s] %v, using default mode", qid, err)
		return p.render.DefaultMode()
	}
	return mode
}

func queryID() string {
	return uuid.NewString()[:8]
}
