// Package roster holds the club's static reference data: the squad table,
// club facts, and the alias table used to spot player references in free
// text. Loaded once at startup, read-only afterwards.
package roster

// Player is one squad member.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Number      int    `json:"number"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	JoinedYear  int    `json:"joined_year"`
	Appearances int    `json:"appearances"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	Nickname    string `json:"nickname,omitempty"`
}

// Alias maps a lowercase substring to a canonical player identity. The
// alias table is a slice, not a map: entry order decides which canonical
// name wins when aliases overlap inside one sentence, and that order is
// part of the contract.
type Alias struct {
	Pattern  string
	PlayerID string
	Name     string
	Position string
}

// Squad, 2024-2025 season plus a couple of club legends the fanbase still
// posts about daily.
var players = []Player{
	{ID: "muslera", Name: "Fernando Muslera", Number: 1, Position: "GK", Nationality: "Uruguay", JoinedYear: 2011, Appearances: 450, Nickname: "El Tanque"},
	{ID: "boey", Name: "Sacha Boey", Number: 4, Position: "RB", Nationality: "France", JoinedYear: 2022, Appearances: 78, Goals: 2, Assists: 8},
	{ID: "demiral", Name: "Merih Demiral", Number: 2, Position: "CB", Nationality: "Turkey", JoinedYear: 2022, Appearances: 85, Goals: 5, Assists: 1},
	{ID: "ayhan", Name: "Kaan Ayhan", Number: 5, Position: "CB", Nationality: "Turkey", JoinedYear: 2023, Appearances: 65, Goals: 2},
	{ID: "omur", Name: "Abdülkadir Ömür", Number: 3, Position: "LB", Nationality: "Turkey", JoinedYear: 2023, Appearances: 52, Goals: 1, Assists: 5},
	{ID: "torreira", Name: "Lucas Torreira", Number: 6, Position: "CDM", Nationality: "Uruguay", JoinedYear: 2023, Appearances: 42, Goals: 3, Assists: 2},
	{ID: "fofana", Name: "Seko Fofana", Number: 16, Position: "CM", Nationality: "Ivory Coast", JoinedYear: 2023, Appearances: 35, Goals: 2, Assists: 4},
	{ID: "ziyech", Name: "Hakim Ziyech", Number: 7, Position: "CAM", Nationality: "Morocco", JoinedYear: 2022, Appearances: 68, Goals: 8, Assists: 15, Nickname: "El Magico"},
	{ID: "akturkoglu", Name: "Kerem Aktürkoğlu", Number: 17, Position: "LW", Nationality: "Turkey", JoinedYear: 2021, Appearances: 95, Goals: 18, Assists: 12},
	{ID: "yilmaz", Name: "Barış Alper Yılmaz", Number: 25, Position: "RW", Nationality: "Turkey", JoinedYear: 2021, Appearances: 28, Assists: 2},
	{ID: "icardi", Name: "Mauro Icardi", Number: 9, Position: "CF", Nationality: "Argentina", JoinedYear: 2022, Appearances: 82, Goals: 45, Assists: 8, Nickname: "Maurito"},
	{ID: "mertens", Name: "Dries Mertens", Number: 14, Position: "ST", Nationality: "Belgium", JoinedYear: 2023, Appearances: 45, Goals: 18, Assists: 5, Nickname: "Chucky"},
	{ID: "akgun", Name: "Yunus Akgün", Number: 20, Position: "RW", Nationality: "Turkey", JoinedYear: 2022, Appearances: 52, Goals: 8, Assists: 4},
	{ID: "drogba", Name: "Didier Drogba", Number: 11, Position: "ST", Nationality: "Ivory Coast", JoinedYear: 2013, Appearances: 53, Goals: 20, Assists: 9},
	{ID: "sneijder", Name: "Wesley Sneijder", Number: 10, Position: "CAM", Nationality: "Netherlands", JoinedYear: 2013, Appearances: 175, Goals: 45, Assists: 44},
}

// aliases in precedence order. Patterns are lowercase substrings; longer,
// more specific forms come before short surnames they contain.
var aliases = []Alias{
	{Pattern: "icardi", PlayerID: "icardi", Name: "Mauro Icardi", Position: "CF"},
	{Pattern: "mauro", PlayerID: "icardi", Name: "Mauro Icardi", Position: "CF"},
	{Pattern: "muslera", PlayerID: "muslera", Name: "Fernando Muslera", Position: "GK"},
	{Pattern: "torreira", PlayerID: "torreira", Name: "Lucas Torreira", Position: "CDM"},
	{Pattern: "hakim ziyech", PlayerID: "ziyech", Name: "Hakim Ziyech", Position: "CAM"},
	{Pattern: "ziyech", PlayerID: "ziyech", Name: "Hakim Ziyech", Position: "CAM"},
	{Pattern: "mertens", PlayerID: "mertens", Name: "Dries Mertens", Position: "ST"},
	{Pattern: "barış alper", PlayerID: "yilmaz", Name: "Barış Alper Yılmaz", Position: "RW"},
	{Pattern: "kerem aktürkoğlu", PlayerID: "akturkoglu", Name: "Kerem Aktürkoğlu", Position: "LW"},
	{Pattern: "aktürkoğlu", PlayerID: "akturkoglu", Name: "Kerem Aktürkoğlu", Position: "LW"},
	{Pattern: "kerem", PlayerID: "akturkoglu", Name: "Kerem Aktürkoğlu", Position: "LW"},
	{Pattern: "boey", PlayerID: "boey", Name: "Sacha Boey", Position: "RB"},
	{Pattern: "demiral", PlayerID: "demiral", Name: "Merih Demiral", Position: "CB"},
	{Pattern: "fofana", PlayerID: "fofana", Name: "Seko Fofana", Position: "CM"},
	{Pattern: "yunus akgün", PlayerID: "akgun", Name: "Yunus Akgün", Position: "RW"},
	{Pattern: "drogba", PlayerID: "drogba", Name: "Didier Drogba", Position: "ST"},
	{Pattern: "sneijder", PlayerID: "sneijder", Name: "Wesley Sneijder", Position: "CAM"},
}

// Players returns the full squad.
func Players() []Player {
	out := make([]Player, len(players))
	copy(out, players)
	return out
}

// PlayerByID looks up one squad member.
func PlayerByID(id string) (Player, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Aliases returns the alias table in precedence order.
func Aliases() []Alias {
	out := make([]Alias, len(aliases))
	copy(out, aliases)
	return out
}

// AliasByName resolves a canonical name back to its alias entry. Used by
// the mention analyzer to recover player id and position.
func AliasByName(name string) (Alias, bool) {
	for _, a := range aliases {
		if a.Name == name {
			return a, true
		}
	}
	return Alias{}, false
}

// SquadStats aggregates headline numbers over the squad table.
func SquadStats() map[string]any {
	var goals, assists, appearances int
	byLine := map[string]int{}
	for _, p := range players {
		goals += p.Goals
		assists += p.Assists
		appearances += p.Appearances
		switch p.Position {
		case "GK":
			byLine["goalkeepers"]++
		case "CB", "LB", "RB":
			byLine["defenders"]++
		case "CM", "CAM", "CDM", "LM", "RM":
			byLine["midfielders"]++
		default:
			byLine["forwards"]++
		}
	}
	return map[string]any{
		"total_players":     len(players),
		"total_goals":       goals,
		"total_assists":     assists,
		"total_appearances": appearances,
		"goalkeepers":       byLine["goalkeepers"],
		"defenders":         byLine["defenders"],
		"midfielders":       byLine["midfielders"],
		"forwards":          byLine["forwards"],
	}
}

// ClubInfo is the static club fact sheet.
type ClubInfo struct {
	Name            string `json:"name"`
	Founded         int    `json:"founded"`
	Country         string `json:"country"`
	City            string `json:"city"`
	Stadium         string `json:"stadium"`
	StadiumCapacity int    `json:"stadium_capacity"`
	Coach           string `json:"coach"`
	Website         string `json:"website"`
	LeagueTitles    int    `json:"league_titles"`
	CupTitles       int    `json:"cup_titles"`
}

// Club returns the club fact sheet.
func Club() ClubInfo {
	return ClubInfo{
		Name:            "Galatasaray Spor Kulübü",
		Founded:         1905,
		Country:         "Turkey",
		City:            "Istanbul",
		Stadium:         "Türk Telekom Arena",
		StadiumCapacity: 52652,
		Coach:           "Okan Buruk",
		Website:         "www.galatasaray.org",
		LeagueTitles:    24,
		CupTitles:       18,
	}
}
