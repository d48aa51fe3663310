/*
Package steam implements the Steam Web API and store endpoints the pipeline depends on.

Client satisfies library.Source, catalog.Source and the pipeline's friend-list and
vanity-resolution collaborators. Every call is a single GET with no retries; transport,
status and decoding failures surface as errs.CustomError values.
*/
package steam

import (
	"cmp"
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"commongames/internal/app/catalog"
	"commongames/internal/app/library"
	"commongames/internal/app/user"
	"commongames/internal/pkg/errs"
	"commongames/internal/pkg/logx"
	"commongames/internal/pkg/req"
)

// summaryBatchSize is the maximum number of ids GetPlayerSummaries accepts per call.
const summaryBatchSize = 100

var tracer = otel.Tracer("commongames/internal/app/steam")

// Client talks to the Steam Web API and the store.
type Client struct {
	webAPI     *url.URL
	store      *url.URL
	httpClient *http.Client
}

func (c *Client) webAPIURL(path string, q url.Values) string {
	u := c.webAPI.JoinPath(path)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) storeURL(path string, q url.Values) string {
	u := c.store.JoinPath(path)
	u.RawQuery = q.Encode()
	return u.String()
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// OwnedGames returns the app ids a participant owns, free games and played games included.
// It returns library.ErrNoVisibleLibrary when the response carries no game_count.
func (c *Client) OwnedGames(ctx context.Context, credential string, id user.SteamID) (ids []library.GameID, err error) {
	ctx, span := startSpan(ctx, "steam.OwnedGames", attribute.String("steam.id", id.String()))
	defer func() { endSpan(span, err) }()

	q := url.Values{}
	q.Set("key", credential)
	q.Set("steamid", id.String())
	q.Set("include_appinfo", "true")
	q.Set("include_played_free_games", "true")
	q.Set("format", "json")

	var payload ownedGamesPayload
	if err := req.GetJSON(ctx, c.httpClient, c.webAPIURL("IPlayerService/GetOwnedGames/v1/", q), &payload); err != nil {
		return nil, err
	}

	if payload.Response.GameCount == nil {
		logx.Debug("No visible library", "steam_id", id.String())
		return nil, library.ErrNoVisibleLibrary
	}

	ids = make([]library.GameID, 0, len(payload.Response.Games))
	for _, g := range payload.Response.Games {
		ids = append(ids, library.GameID(g.AppID))
	}

	span.SetAttributes(attribute.Int("steam.game_count", len(ids)))
	return ids, nil
}

// AppDetails returns the store name and category ids for one app.
// ok is false when the entry has no data.name, e.g. test or retired apps.
func (c *Client) AppDetails(ctx context.Context, id library.GameID) (meta catalog.Metadata, ok bool, err error) {
	key := strconv.FormatInt(int64(id), 10)

	ctx, span := startSpan(ctx, "steam.AppDetails", attribute.Int64("steam.app_id", int64(id)))
	defer func() { endSpan(span, err) }()

	q := url.Values{}
	q.Set("appids", key)

	rawURL := c.storeURL("api/appdetails", q)
	body, err := req.Get(ctx, c.httpClient, rawURL)
	if err != nil {
		return catalog.Metadata{}, false, err
	}

	if !gjson.ValidBytes(body) {
		return catalog.Metadata{}, false, errs.NewError(errs.ErrMalformedPayload, c.store.Host+"/api/appdetails")
	}

	data := gjson.GetBytes(body, key+".data")
	name := data.Get("name")
	if name.Type != gjson.String || name.String() == "" {
		return catalog.Metadata{}, false, nil
	}

	meta.Name = name.String()
	for _, cat := range data.Get("categories.#.id").Array() {
		meta.Categories = append(meta.Categories, catalog.CategoryID(cat.Uint()))
	}

	return meta, true, nil
}

// ListFriends returns the immediate friends of id with their display names,
// ordered by name (case-insensitive) and then by id.
// A private friend list (401) is reported as errs.ErrFriendListUnavailable; a rejected
// key (403) stays errs.ErrUnexpectedStatus.
func (c *Client) ListFriends(ctx context.Context, credential string, id user.SteamID) (friends []user.Participant, err error) {
	ctx, span := startSpan(ctx, "steam.ListFriends", attribute.String("steam.id", id.String()))
	defer func() { endSpan(span, err) }()

	q := url.Values{}
	q.Set("key", credential)
	q.Set("steamid", id.String())
	q.Set("relationship", "friend")

	var payload friendListPayload
	if err := req.GetJSON(ctx, c.httpClient, c.webAPIURL("ISteamUser/GetFriendList/v1/", q), &payload); err != nil {
		if req.StatusCode(err) == http.StatusUnauthorized {
			return nil, errs.Wrap(errs.ErrFriendListUnavailable, err)
		}
		return nil, err
	}

	ids := make([]user.SteamID, 0, len(payload.FriendsList.Friends))
	for _, f := range payload.FriendsList.Friends {
		if f.Relationship != "" && f.Relationship != "friend" {
			continue
		}
		ids = append(ids, user.SteamID(f.SteamID))
	}

	names, err := c.playerNames(ctx, credential, ids)
	if err != nil {
		return nil, err
	}

	friends = make([]user.Participant, 0, len(ids))
	for _, fid := range ids {
		name, ok := names[fid]
		if !ok || name == "" {
			name = fid.String()
		}
		friends = append(friends, user.Participant{ID: fid, Name: name})
	}

	slices.SortStableFunc(friends, func(a, b user.Participant) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.ID, b.ID),
		)
	})

	span.SetAttributes(attribute.Int("steam.friend_count", len(friends)))
	return friends, nil
}

// playerNames resolves display names in batches of summaryBatchSize.
func (c *Client) playerNames(ctx context.Context, credential string, ids []user.SteamID) (map[user.SteamID]string, error) {
	names := make(map[user.SteamID]string, len(ids))

	for batch := range slices.Chunk(ids, summaryBatchSize) {
		parts := make([]string, len(batch))
		for i, id := range batch {
			parts[i] = id.String()
		}

		q := url.Values{}
		q.Set("key", credential)
		q.Set("steamids", strings.Join(parts, ","))

		var payload playerSummariesPayload
		if err := req.GetJSON(ctx, c.httpClient, c.webAPIURL("ISteamUser/GetPlayerSummaries/v2/", q), &payload); err != nil {
			return nil, err
		}
		for _, p := range payload.Response.Players {
			names[user.SteamID(p.SteamID)] = p.PersonaName
		}
	}

	return names, nil
}

// ResolveVanity resolves a custom profile name into a SteamID.
func (c *Client) ResolveVanity(ctx context.Context, credential, vanity string) (id user.SteamID, err error) {
	ctx, span := startSpan(ctx, "steam.ResolveVanity")
	defer func() { endSpan(span, err) }()

	q := url.Values{}
	q.Set("key", credential)
	q.Set("vanityurl", vanity)

	var payload vanityPayload
	if err := req.GetJSON(ctx, c.httpClient, c.webAPIURL("ISteamUser/ResolveVanityURL/v1/", q), &payload); err != nil {
		return 0, err
	}

	if payload.Response.Success != 1 {
		return 0, errs.NewError(errs.ErrVanityNotFound, vanity)
	}

	resolved, ok := user.ParseSteamID(payload.Response.SteamID)
	if !ok {
		return 0, errs.NewError(errs.ErrMalformedPayload, c.webAPI.Host+"/ISteamUser/ResolveVanityURL/v1/")
	}

	return resolved, nil
}
