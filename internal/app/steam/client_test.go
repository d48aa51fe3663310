package steam_test

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"testing"
	"time"

	"commongames/internal/app/catalog"
	"commongames/internal/app/library"
	"commongames/internal/app/steam"
	"commongames/internal/app/steam/steamtest"
	"commongames/internal/app/user"
	"commongames/internal/pkg/errs"
)

const (
	alice = uint64(76561198000000001)
	bob   = uint64(76561198000000002)
	carol = uint64(76561198000000003)
	dave  = uint64(76561198000000004)
)

func newClient(t *testing.T, srv *steamtest.Server) *steam.Client {
	t.Helper()

	c, err := steam.NewClient(steam.ServiceConfig{
		WebAPIURL: srv.URL,
		StoreURL:  srv.URL,
		Timeout:   5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	if _, err := steam.NewClient(steam.ServiceConfig{WebAPIURL: "not a url"}); err == nil {
		t.Fatal("expected error for URL without host")
	}
	if _, err := steam.NewClient(steam.ServiceConfig{}); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}
}

func TestOwnedGames(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{
		Libraries: map[uint64][]int64{
			alice: {10, 20, 30},
			bob:   nil,
			carol: {},
		},
	})
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	ids, err := c.OwnedGames(ctx, steamtest.Key, user.SteamID(alice))
	if err != nil {
		t.Fatalf("owned games: %v", err)
	}
	if !slices.Equal(ids, []library.GameID{10, 20, 30}) {
		t.Fatalf("unexpected ids %v", ids)
	}

	if _, err := c.OwnedGames(ctx, steamtest.Key, user.SteamID(bob)); !errors.Is(err, library.ErrNoVisibleLibrary) {
		t.Fatalf("hidden library: expected ErrNoVisibleLibrary, got %v", err)
	}

	ids, err = c.OwnedGames(ctx, steamtest.Key, user.SteamID(carol))
	if err != nil || len(ids) != 0 {
		t.Fatalf("empty visible library: ids=%v err=%v", ids, err)
	}

	if srv.RequestsTo("/IPlayerService/GetOwnedGames/v1/") != 3 {
		t.Fatalf("expected 3 owned-games requests, got %d", srv.RequestsTo("/IPlayerService/GetOwnedGames/v1/"))
	}
}

func TestOwnedGamesWrongKey(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{Libraries: map[uint64][]int64{alice: {1}}})
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.OwnedGames(context.Background(), "ffffffffffffffffffffffffffffffff", user.SteamID(alice))
	if !errs.Is(err, errs.ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestAppDetails(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{
		Apps: map[int64]steamtest.App{
			550: {Name: "Left 4 Dead 2", Categories: []int{2, 1, 9}},
			220: {Name: "Half-Life 2", Categories: []int{2}},
		},
		RawApps: map[int64]string{
			1:   `null`,
			2:   `{"2":{"success":true,"data":{"categories":[{"id":1}]}}}`,
			666: `{"666": {`,
		},
	})
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	meta, ok, err := c.AppDetails(ctx, 550)
	if err != nil || !ok {
		t.Fatalf("app 550: ok=%v err=%v", ok, err)
	}
	if meta.Name != "Left 4 Dead 2" || !slices.Equal(meta.Categories, []catalog.CategoryID{2, 1, 9}) {
		t.Fatalf("unexpected metadata %+v", meta)
	}

	meta, ok, err = c.AppDetails(ctx, 220)
	if err != nil || !ok || catalog.IsMultiplayer(meta.Categories) {
		t.Fatalf("app 220: %+v ok=%v err=%v", meta, ok, err)
	}

	for _, id := range []library.GameID{1, 2, 12345} {
		if _, ok, err := c.AppDetails(ctx, id); ok || err != nil {
			t.Fatalf("app %d: expected unresolvable, got ok=%v err=%v", id, ok, err)
		}
	}

	if _, _, err := c.AppDetails(ctx, 666); !errs.Is(err, errs.ErrMalformedPayload) {
		t.Fatalf("app 666: expected ErrMalformedPayload, got %v", err)
	}
}

func TestListFriendsSortedWithNames(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{
		Friends: map[uint64][]uint64{alice: {bob, carol, dave}},
		Names: map[uint64]string{
			bob:   "zed",
			carol: "Amy",
		},
	})
	defer srv.Close()
	c := newClient(t, srv)

	friends, err := c.ListFriends(context.Background(), steamtest.Key, user.SteamID(alice))
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}

	want := []user.Participant{
		{ID: user.SteamID(dave), Name: strconv.FormatUint(dave, 10)},
		{ID: user.SteamID(carol), Name: "Amy"},
		{ID: user.SteamID(bob), Name: "zed"},
	}
	if !slices.Equal(friends, want) {
		t.Fatalf("expected %v, got %v", want, friends)
	}
}

func TestListFriendsBatchesSummaries(t *testing.T) {
	ids := make([]uint64, 0, 150)
	names := make(map[uint64]string, 150)
	for i := range 150 {
		id := uint64(76561198100000000 + i)
		ids = append(ids, id)
		names[id] = "friend" + strconv.Itoa(1000+i)
	}

	srv := steamtest.NewServer(steamtest.Fixture{
		Friends: map[uint64][]uint64{alice: ids},
		Names:   names,
	})
	defer srv.Close()
	c := newClient(t, srv)

	friends, err := c.ListFriends(context.Background(), steamtest.Key, user.SteamID(alice))
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 150 {
		t.Fatalf("expected 150 friends, got %d", len(friends))
	}
	if got := srv.RequestsTo("/ISteamUser/GetPlayerSummaries/v2/"); got != 2 {
		t.Fatalf("expected 2 summary batches, got %d", got)
	}
	if friends[0].Name != "friend1000" || friends[149].Name != "friend1149" {
		t.Fatalf("unexpected ordering: first=%q last=%q", friends[0].Name, friends[149].Name)
	}
}

func TestListFriendsPrivate(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{})
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.ListFriends(context.Background(), steamtest.Key, user.SteamID(alice))
	if !errs.Is(err, errs.ErrFriendListUnavailable) {
		t.Fatalf("expected ErrFriendListUnavailable, got %v", err)
	}
}

func TestListFriendsWrongKey(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{Friends: map[uint64][]uint64{alice: {bob}}})
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.ListFriends(context.Background(), "ffffffffffffffffffffffffffffffff", user.SteamID(alice))
	if errs.Is(err, errs.ErrFriendListUnavailable) {
		t.Fatalf("a rejected key must not be reported as a private friend list: %v", err)
	}
	if !errs.Is(err, errs.ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestResolveVanity(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{Vanity: map[string]uint64{"alice": alice}})
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	id, err := c.ResolveVanity(ctx, steamtest.Key, "alice")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != user.SteamID(alice) {
		t.Fatalf("expected %d, got %d", alice, id)
	}

	if _, err := c.ResolveVanity(ctx, steamtest.Key, "nobody"); !errs.Is(err, errs.ErrVanityNotFound) {
		t.Fatalf("expected ErrVanityNotFound, got %v", err)
	}
}

func TestStoreRateLimitApplied(t *testing.T) {
	srv := steamtest.NewServer(steamtest.Fixture{
		Apps: map[int64]steamtest.App{1: {Name: "One"}},
	})
	defer srv.Close()

	c, err := steam.NewClient(steam.ServiceConfig{
		WebAPIURL:  srv.URL,
		StoreURL:   srv.URL,
		Timeout:    5 * time.Second,
		StoreRate:  0.001,
		StoreBurst: 1,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, _, err := c.AppDetails(context.Background(), 1); err != nil {
		t.Fatalf("first request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, _, err := c.AppDetails(ctx, 1); err == nil {
		t.Fatal("expected second request to be throttled past the deadline")
	}
	if got := srv.RequestsTo("/api/appdetails"); got != 1 {
		t.Fatalf("expected the throttled request to never reach the server, got %d", got)
	}
}
