package pokeapi

// PageItem is one summary entry from the paginated list endpoint. The list
// payload carries no numeric ID; it is parsed from the trailing URL segment.
type PageItem struct {
	ID   int
	Name string
	URL  string
}

// Page is the parsed result of one list request.
type Page struct {
	Count   int
	HasNext bool
	Items   []PageItem
}

// Stats is the six-stat group. It is only ever populated as a whole.
type Stats struct {
	HP             int
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
}

// Detail is the normalized full record for one pokemon. Stats is nil when
// the payload did not carry every canonical stat name; callers must then
// treat the record as summary-only.
type Detail struct {
	ID        int
	Name      string
	ImageURL  string
	Height    int
	Weight    int
	Types     []string
	Abilities []string
	Stats     *Stats
}

type listResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

type detailResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Height  int    `json:"height"`
	Weight  int    `json:"weight"`
	Sprites struct {
		Other struct {
			OfficialArtwork struct {
				FrontDefault *string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"ability"`
		IsHidden bool `json:"is_hidden"`
		Slot     int  `json:"slot"`
	} `json:"abilities"`
}

type typeListResponse struct {
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}
