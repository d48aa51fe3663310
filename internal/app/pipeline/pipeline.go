/*
Package pipeline orchestrates a run: it validates the input, intersects the owned-game
libraries of the user and the selected friends, classifies the common games against the
store, and picks one multiplayer game at random.

The run is a linear state machine (see Stage). Soft outcomes (a friend with a hidden
library, a game without store metadata) are skipped; everything else ends the run with
a typed *errs.CustomError that the caller turns into a message and an exit code.
*/
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"commongames/internal/app/catalog"
	"commongames/internal/app/library"
	"commongames/internal/app/user"
	"commongames/internal/pkg/errs"
	"commongames/internal/pkg/logx"
	"commongames/internal/pkg/randx"
)

var tracer = otel.Tracer("commongames/internal/app/pipeline")

// FriendLister returns the immediate friends of a user, in display order.
type FriendLister interface {
	ListFriends(ctx context.Context, credential string, id user.SteamID) ([]user.Participant, error)
}

// Resolver turns a custom profile name into a SteamID.
type Resolver interface {
	ResolveVanity(ctx context.Context, credential, vanity string) (user.SteamID, error)
}

// Prompter asks which friends take part. It returns the raw selection line, or
// ctx.Err() when ctx is done while waiting for input.
type Prompter interface {
	SelectFriends(ctx context.Context, friends []user.Participant) (string, error)
}

// Reporter receives human-readable progress. With Concurrency > 1, LibraryFetched,
// LibrarySkipped and ClassifyProgress come from several goroutines; ClassifyProgress
// calls are serialized and their done values strictly increase.
type Reporter interface {
	FriendsSelected(friends []user.Participant)
	LibraryFetched(p user.Participant, primary bool, count int)
	LibrarySkipped(p user.Participant)
	CommonGames(n int)
	ClassifyProgress(done, total int)
	MultiplayerGames(names []string)
	Picked(name string)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Friends  FriendLister
	Resolver Resolver
	Library  library.Source
	Catalog  catalog.Source
	Prompter Prompter
	Reporter Reporter

	// Pick returns an index in [0, n-1]. Nil uses randx.Index.
	Pick func(n int) (int, error)

	// Concurrency bounds parallel friend fetches and store lookups. Values below 1 mean 1.
	Concurrency int
}

// Request is the input of a run.
type Request struct {
	// Credential is the Steam Web API key.
	Credential string

	// Primary is the user's SteamID64 or custom profile name.
	Primary string
}

// Result is what a run produced, complete up to the stage it reached.
type Result struct {
	RunID        string
	Primary      user.SteamID
	Selected     []user.Participant
	Contributing int
	Common       library.GameSet
	Multiplayer  []catalog.ClassifiedGame
	Pick         string
}

// Orchestrator runs the pipeline. It is not safe for concurrent Run calls.
type Orchestrator struct {
	deps       Deps
	classifier *catalog.Classifier
	stage      Stage
	logger     zerolog.Logger
}

// New constructs an Orchestrator from deps.
func New(deps Deps) *Orchestrator {
	if deps.Pick == nil {
		deps.Pick = randx.Index
	}
	deps.Concurrency = max(deps.Concurrency, 1)

	return &Orchestrator{
		deps:       deps,
		classifier: catalog.NewClassifier(deps.Catalog),
		stage:      StageInit,
		logger:     logx.Logger().With().Str("component", "Pipeline").Logger(),
	}
}

// Stage returns the stage the last run reached.
func (o *Orchestrator) Stage() Stage {
	return o.stage
}

func (o *Orchestrator) enter(ctx context.Context, s Stage) {
	o.stage = s
	trace.SpanFromContext(ctx).AddEvent(s.String())
	o.logger.Debug().Str("stage", s.String()).Msg("Stage entered")
}

// Run executes one full pass. On failure the returned Result holds whatever was
// computed before the failing stage and Stage() reports StageFatalAbort.
func (o *Orchestrator) Run(ctx context.Context, r Request) (*Result, error) {
	res := &Result{RunID: randx.RunID()}
	o.stage = StageInit
	o.logger = logx.Logger().With().Str("component", "Pipeline").Str("run_id", res.RunID).Logger()

	ctx, span := tracer.Start(ctx, "pipeline.Run")
	span.SetAttributes(attribute.String("run.id", res.RunID))
	defer span.End()

	if err := o.run(ctx, r, res); err != nil {
		failed := o.stage
		o.stage = StageFatalAbort

		span.RecordError(err)
		span.SetStatus(codes.Error, failed.String())
		o.logger.Error().Err(err).Str("stage", failed.String()).Msg("Run aborted")

		return res, err
	}

	o.enter(ctx, StageDone)
	return res, nil
}

func (o *Orchestrator) run(ctx context.Context, r Request, res *Result) error {
	o.enter(ctx, StageValidateCredential)
	if err := ValidateCredential(r.Credential); err != nil {
		return err
	}
	if r.Primary == "" {
		return errs.NewError(errs.ErrInvalidSteamID, r.Primary)
	}

	o.enter(ctx, StageResolvePrimary)
	primary, err := o.resolvePrimary(ctx, r)
	if err != nil {
		return err
	}
	res.Primary = primary

	o.enter(ctx, StageListFriends)
	friends, err := o.deps.Friends.ListFriends(ctx, r.Credential, primary)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		return errs.NewError(errs.ErrNoFriends)
	}

	o.enter(ctx, StageSelectFriends)
	raw, err := o.deps.Prompter.SelectFriends(ctx, friends)
	if err != nil {
		return err
	}
	indices, err := ParseSelection(raw, len(friends))
	if err != nil {
		return err
	}
	for _, i := range indices {
		res.Selected = append(res.Selected, friends[i])
	}
	o.deps.Reporter.FriendsSelected(res.Selected)

	o.enter(ctx, StageFetchPrimaryLibrary)
	acc, err := library.Fetch(ctx, o.deps.Library, r.Credential, primary)
	if errors.Is(err, library.ErrNoVisibleLibrary) {
		return errs.Wrap(errs.ErrPrimaryLibraryHidden, err)
	}
	if err != nil {
		return err
	}
	o.deps.Reporter.LibraryFetched(user.Participant{ID: primary}, true, acc.Len())

	o.enter(ctx, StageFoldFriendLibraries)
	sets, err := o.fetchFriendLibraries(ctx, r.Credential, res.Selected)
	if err != nil {
		return err
	}
	visible := make([]library.GameSet, 0, len(sets))
	for _, s := range sets {
		if s != nil {
			visible = append(visible, *s)
		}
	}
	res.Contributing = len(visible)
	if res.Contributing == 0 {
		return errs.NewError(errs.ErrNoContributingParticipants)
	}

	acc = library.Fold(acc, visible...)

	o.enter(ctx, StageIntersectComplete)
	res.Common = acc
	o.deps.Reporter.CommonGames(acc.Len())
	o.logger.Info().Int("common_games", acc.Len()).Int("contributing", res.Contributing).Msg("Intersection complete")

	o.enter(ctx, StageClassifyCandidates)
	classified, err := o.classifyAll(ctx, acc.Sorted())
	if err != nil {
		return err
	}

	o.enter(ctx, StageFilterMultiplayer)
	names := make([]string, 0, len(classified))
	for _, g := range classified {
		if g != nil && g.IsMultiplayer {
			res.Multiplayer = append(res.Multiplayer, *g)
			names = append(names, g.Name)
		}
	}
	o.deps.Reporter.MultiplayerGames(names)
	if len(names) == 0 {
		return errs.NewError(errs.ErrNoMultiplayerGames)
	}

	o.enter(ctx, StageSelectRandom)
	i, err := o.deps.Pick(len(names))
	if err != nil {
		return errs.Wrap(errs.ErrUnknown, err)
	}
	if i < 0 || i >= len(names) {
		return errs.Wrap(errs.ErrUnknown, errors.New("random index out of range"))
	}
	res.Pick = names[i]
	o.deps.Reporter.Picked(res.Pick)

	return nil
}

// resolvePrimary accepts a SteamID64 as is and resolves anything else as a custom profile name.
func (o *Orchestrator) resolvePrimary(ctx context.Context, r Request) (user.SteamID, error) {
	if id, ok := user.ParseSteamID(r.Primary); ok {
		return id, nil
	}
	if o.deps.Resolver == nil {
		return 0, errs.NewError(errs.ErrInvalidSteamID, r.Primary)
	}
	return o.deps.Resolver.ResolveVanity(ctx, r.Credential, r.Primary)
}

// fetchFriendLibraries fetches every selected friend's library. The result is indexed like
// friends; a nil entry marks a hidden library. Progress is reported as each fetch completes.
func (o *Orchestrator) fetchFriendLibraries(ctx context.Context, credential string, friends []user.Participant) ([]*library.GameSet, error) {
	sets := make([]*library.GameSet, len(friends))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.deps.Concurrency)

	for i, f := range friends {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			set, err := library.Fetch(gctx, o.deps.Library, credential, f.ID)
			if errors.Is(err, library.ErrNoVisibleLibrary) {
				o.logger.Info().Str("steam_id", f.ID.String()).Str("name", f.Name).Msg("Skipping friend without a visible library")
				o.deps.Reporter.LibrarySkipped(f)
				return nil
			}
			if err != nil {
				return err
			}

			sets[i] = &set
			o.deps.Reporter.LibraryFetched(f, false, set.Len())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

// classifyAll classifies candidates. The result is indexed like candidates; a nil entry
// marks a game without resolvable metadata. The progress counter is bumped and reported
// under one lock so the reported numbers never go backwards under concurrency.
func (o *Orchestrator) classifyAll(ctx context.Context, candidates []library.GameID) ([]*catalog.ClassifiedGame, error) {
	out := make([]*catalog.ClassifiedGame, len(candidates))
	total := len(candidates)

	var (
		mu      sync.Mutex
		started int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.deps.Concurrency)

	for i, id := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			mu.Lock()
			started++
			o.deps.Reporter.ClassifyProgress(started, total)
			mu.Unlock()

			game, ok, err := o.classifier.Classify(gctx, id)
			if err != nil {
				return err
			}
			if ok {
				out[i] = &game
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
