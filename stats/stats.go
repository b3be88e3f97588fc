// path: stats/stats.go

// Package stats derives role-scoped dashboard figures from a feed
// snapshot and exposes the status-transition actions.
package stats

import (
	"math"

	"github.com/PaoloBrandonE/Denuncia-app/models"
)

// Summary is the aggregate of one snapshot.
type Summary struct {
	Total      int                                       `json:"total"`
	ByStatus   map[models.Status]int                     `json:"by_status"`
	ByCategory map[models.Category]map[models.Status]int `json:"by_category"`

	// ResolutionRate is resolved/total as a percentage rounded to the
	// nearest integer; 0 when the snapshot is empty.
	ResolutionRate int `json:"resolution_rate"`
}

// Summarize computes totals, per-status counts, the per-category
// cross-tab, and the resolution rate for a snapshot.
func Summarize(reports []models.Report) Summary {
	s := Summary{
		Total:      len(reports),
		ByStatus:   map[models.Status]int{},
		ByCategory: map[models.Category]map[models.Status]int{},
	}
	for _, r := range reports {
		s.ByStatus[r.Status]++
		cat := s.ByCategory[r.Category]
		if cat == nil {
			cat = map[models.Status]int{}
			s.ByCategory[r.Category] = cat
		}
		cat[r.Status]++
	}
	s.ResolutionRate = ResolutionRate(s.ByStatus[models.StatusResolved], s.Total)
	return s
}

// ResolutionRate returns round(resolved/total*100), or 0 for an empty
// set.
func ResolutionRate(resolved, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(resolved) / float64(total) * 100))
}

// ForRole computes the summary a given role's dashboard shows. Citizens
// see only their own reports; authorities and admins see everything. The
// switch is the single place role-based view selection happens.
func ForRole(role models.Role, snapshot []models.Report, userID string) Summary {
	switch role {
	case models.RoleCitizen:
		own := make([]models.Report, 0, len(snapshot))
		for _, r := range snapshot {
			if r.AuthorID == userID {
				own = append(own, r)
			}
		}
		return Summarize(own)
	case models.RoleAuthority, models.RoleAdmin:
		return Summarize(snapshot)
	default:
		return Summarize(nil)
	}
}
