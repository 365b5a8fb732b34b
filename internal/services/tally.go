package services

import (
	"sort"
	"strings"

	"github.com/abrezinsky/campusvote/internal/models"
)

// ContestantResult is one contestant's line in a category tally
type ContestantResult struct {
	models.Contestant
	Rank       int     `json:"rank"`
	Percentage float64 `json:"percentage"`
}

// CategoryTally holds the ranked results for one category
type CategoryTally struct {
	Category    models.VotingCategory `json:"category"`
	TotalVotes  int                   `json:"total_votes"`
	Contestants []ContestantResult    `json:"contestants"`
	Winner      *ContestantResult     `json:"winner"`
	Tied        bool                  `json:"tied"`
}

// Tally ranks contestants per category. Categories are visited in display
// order and skipped when they have no contestants. Equal vote counts are
// ordered by name (case-insensitive) and then by id.
func Tally(categories []models.VotingCategory, contestants []models.Contestant) []CategoryTally {
	cats := make([]models.VotingCategory, len(categories))
	copy(cats, categories)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })

	byCategory := make(map[string][]models.Contestant)
	for _, c := range contestants {
		byCategory[c.CategoryID] = append(byCategory[c.CategoryID], c)
	}

	results := []CategoryTally{}
	for _, cat := range cats {
		members := byCategory[cat.ID]
		if len(members) == 0 {
			continue
		}

		sort.Slice(members, func(i, j int) bool {
			a, b := members[i], members[j]
			if a.Votes != b.Votes {
				return a.Votes > b.Votes
			}
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
			return a.ID < b.ID
		})

		total := 0
		for _, c := range members {
			total += c.Votes
		}

		ranked := make([]ContestantResult, len(members))
		for i, c := range members {
			ranked[i] = ContestantResult{Contestant: c, Rank: i + 1}
			if total > 0 {
				ranked[i].Percentage = float64(c.Votes) / float64(total) * 100
			}
		}

		ct := CategoryTally{
			Category:    cat,
			TotalVotes:  total,
			Contestants: ranked,
			Winner:      &ranked[0],
		}
		if len(ranked) > 1 && ranked[0].Votes > 0 && ranked[0].Votes == ranked[1].Votes {
			ct.Tied = true
		}
		results = append(results, ct)
	}
	return results
}
