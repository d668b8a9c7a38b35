package catalog

import (
	"github.com/baharudin-yusup/pokedex-backend/pkg/db/models"
	"github.com/baharudin-yusup/pokedex-backend/pkg/pokeapi"
)

// SummaryDTO is the list-row projection of a cached pokemon.
type SummaryDTO struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	ImageURL string   `json:"image_url"`
	Types    []string `json:"types"`
	Favorite bool     `json:"favorite"`
	Rating   int      `json:"rating"`
}

// StatsDTO is the six-stat group of a detail-complete row.
type StatsDTO struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

// DetailDTO is the full projection served by the detail endpoint.
type DetailDTO struct {
	SummaryDTO
	Height    int       `json:"height"`
	Weight    int       `json:"weight"`
	Abilities []string  `json:"abilities"`
	Stats     *StatsDTO `json:"stats"`
}

// PageDTO wraps one window of a catalog projection.
type PageDTO struct {
	Items        []SummaryDTO `json:"items"`
	Total        int64        `json:"total"`
	Offset       int          `json:"offset"`
	Limit        int          `json:"limit"`
	EmptyMessage string       `json:"empty_message,omitempty"`
}

// ToSummaryDTO maps a catalog row to its list projection.
func ToSummaryDTO(row models.Pokemon) SummaryDTO {
	image := pokeapi.ArtworkURL(row.ID)
	if row.ImageURL != nil && *row.ImageURL != "" {
		image = *row.ImageURL
	}
	return SummaryDTO{
		ID:       row.ID,
		Name:     row.Name,
		ImageURL: image,
		Types:    row.Types,
		Favorite: row.Favorite,
		Rating:   row.Rating,
	}
}

// ToSummaryDTOs maps a slice of catalog rows to list projections.
func ToSummaryDTOs(rows []models.Pokemon) []SummaryDTO {
	items := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToSummaryDTO(row))
	}
	return items
}

func toDetailDTO(row models.Pokemon) DetailDTO {
	detail := DetailDTO{
		SummaryDTO: ToSummaryDTO(row),
		Height:     row.Height,
		Weight:     row.Weight,
		Abilities:  row.Abilities,
	}
	if row.DetailComplete() {
		detail.Stats = &StatsDTO{
			HP:             *row.HP,
			Attack:         *row.Attack,
			Defense:        *row.Defense,
			SpecialAttack:  *row.SpecialAttack,
			SpecialDefense: *row.SpecialDefense,
			Speed:          *row.Speed,
		}
	}
	return detail
}

// FromRemoteDetail converts a fetched detail payload into a catalog row.
// The mirrors stay at their zero values; Upsert never writes them over
// existing user state.
func FromRemoteDetail(detail *pokeapi.Detail) *models.Pokemon {
	row := &models.Pokemon{
		ID:        detail.ID,
		Name:      detail.Name,
		Height:    detail.Height,
		Weight:    detail.Weight,
		Types:     append([]string(nil), detail.Types...),
		Abilities: append([]string(nil), detail.Abilities...),
	}
	if detail.ImageURL != "" {
		image := detail.ImageURL
		row.ImageURL = &image
	}
	if detail.Stats != nil {
		row.HP = intPtr(detail.Stats.HP)
		row.Attack = intPtr(detail.Stats.Attack)
		row.Defense = intPtr(detail.Stats.Defense)
		row.SpecialAttack = intPtr(detail.Stats.SpecialAttack)
		row.SpecialDefense = intPtr(detail.Stats.SpecialDefense)
		row.Speed = intPtr(detail.Stats.Speed)
	}
	return row
}

func intPtr(v int) *int { return &v }
