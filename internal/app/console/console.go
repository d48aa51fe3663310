/*
Package console implements the interactive terminal side of a run.

Console reads the API key and the friend selection from its input and prints the
friend list, per-participant progress, and the final pick to its output. Prompts give up
when their context is done, so an interrupt is not stuck behind a blocking read. It is safe
for concurrent use so progress can be reported from parallel classification workers.
*/
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"commongames/internal/app/user"
	"commongames/internal/pkg/errs"
)

// Console is a line-oriented terminal.
type Console struct {
	mu sync.Mutex
	in *bufio.Reader
	w  io.Writer

	// p formats counts with digit grouping.
	p *message.Printer

	// selection, when set, answers SelectFriends without reading input.
	selection string

	// listCandidates prints every multiplayer game before the pick.
	listCandidates bool

	// pending is a read still waiting for input after its caller gave up.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// Option configures a Console.
type Option func(*Console)

// WithSelection answers the friend selection prompt with selection.
func WithSelection(selection string) Option {
	return func(c *Console) {
		c.selection = strings.TrimSpace(selection)
	}
}

// WithCandidateList prints the full multiplayer list before the pick.
func WithCandidateList(enabled bool) Option {
	return func(c *Console) {
		c.listCandidates = enabled
	}
}

// New returns a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in: bufio.NewReader(in),
		w:  out,
		p:  message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Console) printf(format string, args ...any) {
	_, _ = c.p.Fprintf(c.w, format, args...)
}

// readLine reads one line, trimmed. A final line without newline is accepted.
// It returns ctx.Err() as soon as ctx is done; the abandoned read stays pending
// and answers the next call. Callers hold c.mu.
func (c *Console) readLine(ctx context.Context) (string, error) {
	if c.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := c.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		c.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-c.pending:
		c.pending = nil
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.line != "") {
			return "", errs.Wrap(errs.ErrInputUnavailable, res.err)
		}
		return strings.TrimSpace(res.line), nil
	}
}

// ReadCredential prompts for the Steam Web API key.
func (c *Console) ReadCredential(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("Enter your Steam Web API Key:\n")
	return c.readLine(ctx)
}

// SelectFriends prints the numbered friend list and returns the raw selection line.
func (c *Console) SelectFriends(ctx context.Context, friends []user.Participant) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("The following is your friends list:\n")
	for i, f := range friends {
		c.printf("%s: %s\n", strconv.Itoa(i), f.Name)
	}

	if c.selection != "" {
		c.printf("\nUsing friend selection: %s\n", c.selection)
		return c.selection, nil
	}

	c.printf("\nEnter the numbers of the friends to include in the search separated by spaces.\n")
	return c.readLine(ctx)
}

// FriendsSelected lists the friends that take part in the search.
func (c *Console) FriendsSelected(friends []user.Participant) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("Friends selected:\n")
	for _, f := range friends {
		c.printf("%s\n", f.Name)
	}
	c.printf("Pulling games...\n")
}

// LibraryFetched reports the size of a participant's library.
func (c *Console) LibraryFetched(p user.Participant, primary bool, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if primary {
		c.printf("You have %d game(s)\n", count)
		return
	}
	c.printf("%s has %d game(s)\n", p.Name, count)
}

// LibrarySkipped reports a friend whose library is not visible.
func (c *Console) LibrarySkipped(p user.Participant) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("%s has no games that you can see. Skipping\n", p.Name)
}

// CommonGames reports the intersection size.
func (c *Console) CommonGames(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("Found %d game(s) in common\n", n)
}

// ClassifyProgress reports that the done-th of total store lookups has started.
func (c *Console) ClassifyProgress(done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("Fetching game info (%d/%d)\n", done, total)
}

// MultiplayerGames reports the multiplayer candidates.
func (c *Console) MultiplayerGames(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("Found %d multiplayer/coop games in common\n", len(names))
	if c.listCandidates {
		for _, name := range names {
			c.printf("  %s\n", name)
		}
	}
}

// Picked announces the chosen game.
func (c *Console) Picked(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("Your random game is %s!\n", name)
}
