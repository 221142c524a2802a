package domain

import "sort"

// Standing is one leaderboard row. HasLockedIn is presentation enrichment for
// the current round and plays no part in ranking.
type Standing struct {
	ParticipantID string          `json:"participant_id"`
	DisplayName   string          `json:"display_name"`
	Type          ParticipantType `json:"type"`
	TotalScore    int             `json:"total_score"`
	Rank          int             `json:"rank"`
	HasLockedIn   bool            `json:"has_locked_in"`
}

// ComputeStandings ranks participants by total score descending using
// standard competition ranking: tied scores share a rank and the next
// distinct score skips by the tie-group size, so [100, 100, 80] ranks as
// [1, 1, 3]. Ties are ordered by display name so repeated calls with
// unchanged scores produce identical output.
func ComputeStandings(participants []*Participant, lockedIn map[string]bool) []Standing {
	sorted := make([]*Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalScore != sorted[j].TotalScore {
			return sorted[i].TotalScore > sorted[j].TotalScore
		}
		return sorted[i].DisplayName < sorted[j].DisplayName
	})

	standings := make([]Standing, 0, len(sorted))
	rank := 0
	prevScore := 0
	for i, p := range sorted {
		if i == 0 || p.TotalScore != prevScore {
			rank = i + 1
			prevScore = p.TotalScore
		}
		standings = append(standings, Standing{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Type:          p.Type,
			TotalScore:    p.TotalScore,
			Rank:          rank,
			HasLockedIn:   lockedIn[p.ID],
		})
	}
	return standings
}
