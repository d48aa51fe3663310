package steam

// ownedGamesPayload is the IPlayerService/GetOwnedGames/v1 response.
// A missing game_count means the library is private or empty.
type ownedGamesPayload struct {
	Response struct {
		GameCount *int `json:"game_count"`
		Games     []struct {
			AppID int64 `json:"appid"`
		} `json:"games"`
	} `json:"response"`
}

// friendListPayload is the ISteamUser/GetFriendList/v1 response.
type friendListPayload struct {
	FriendsList struct {
		Friends []struct {
			SteamID      uint64 `json:"steamid,string"`
			Relationship string `json:"relationship"`
		} `json:"friends"`
	} `json:"friendslist"`
}

// playerSummariesPayload is the ISteamUser/GetPlayerSummaries/v2 response.
type playerSummariesPayload struct {
	Response struct {
		Players []struct {
			SteamID     uint64 `json:"steamid,string"`
			PersonaName string `json:"personaname"`
		} `json:"players"`
	} `json:"response"`
}

// vanityPayload is the ISteamUser/ResolveVanityURL/v1 response. Success is 1 on a match.
type vanityPayload struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}
