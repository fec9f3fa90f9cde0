package etmatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flp/matchd/internal/app/domains/entity/etwork"
)

func newCandidate(id string, createdAt time.Time) Candidate {
	return Candidate{
		Item: &etwork.WorkItem{
			ID:        id,
			Category:  etwork.CategoryCargo,
			Status:    etwork.StatusOpen,
			Urgency:   etwork.UrgencyNormal,
			CreatedAt: createdAt,
		},
		Tier:   TierExact,
		Source: SourceLocal,
	}
}

func ids(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Item.ID)
	}
	return out
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortPrice, ParseSortOrder("price"))
	assert.Equal(t, SortUrgency, ParseSortOrder("urgency"))
	assert.Equal(t, SortDistance, ParseSortOrder("distance"))
	assert.Equal(t, SortNewest, ParseSortOrder("newest"))
	assert.Equal(t, SortNewest, ParseSortOrder(""))
	assert.Equal(t, SortNewest, ParseSortOrder("garbage"))
}

func TestSortNewest(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		newCandidate("w1", base),
		newCandidate("w2", base.Add(2*time.Hour)),
		newCandidate("w3", base.Add(time.Hour)),
	}

	Sort(candidates, SortNewest)

	assert.Equal(t, []string{"w2", "w3", "w1"}, ids(candidates))
}

func TestSortPrice(t *testing.T) {
	base := time.Now()
	candidates := []Candidate{
		newCandidate("cheap", base),
		newCandidate("expensive", base),
		newCandidate("mid", base),
	}
	candidates[0].Item.Price = 100
	candidates[1].Item.Price = 900
	candidates[2].Item.Price = 500

	Sort(candidates, SortPrice)

	assert.Equal(t, []string{"expensive", "mid", "cheap"}, ids(candidates))
}

func TestSortUrgency(t *testing.T) {
	base := time.Now()
	candidates := []Candidate{
		newCandidate("normal", base),
		newCandidate("critical", base),
		newCandidate("urgent", base),
	}
	candidates[1].Item.Urgency = etwork.UrgencyCritical
	candidates[2].Item.Urgency = etwork.UrgencyUrgent

	Sort(candidates, SortUrgency)

	assert.Equal(t, []string{"critical", "urgent", "normal"}, ids(candidates))
}

func TestSortDistanceNilLast(t *testing.T) {
	base := time.Now()
	near, far := 12.5, 80.0
	candidates := []Candidate{
		newCandidate("unknown", base),
		newCandidate("far", base),
		newCandidate("near", base),
	}
	candidates[1].Item.DistanceKm = &far
	candidates[2].Item.DistanceKm = &near

	Sort(candidates, SortDistance)

	assert.Equal(t, []string{"near", "far", "unknown"}, ids(candidates))
}

func TestSortStability(t *testing.T) {
	base := time.Now()
	candidates := []Candidate{
		newCandidate("a", base),
		newCandidate("b", base),
		newCandidate("c", base),
	}

	// 同键值候选保持输入相对顺序
	Sort(candidates, SortPrice)
	assert.Equal(t, []string{"a", "b", "c"}, ids(candidates))

	Sort(candidates, SortNewest)
	assert.Equal(t, []string{"a", "b", "c"}, ids(candidates))
}

func TestSourcePriority(t *testing.T) {
	assert.Greater(t, SourceRemote.Priority(), SourceLocal.Priority())
	assert.Greater(t, SourceLocal.Priority(), SourceCache.Priority())
}

func TestAvailabilityStateIsTerminal(t *testing.T) {
	assert.False(t, AvailabilityOpen.IsTerminal())
	assert.True(t, AvailabilityClaimedByOther.IsTerminal())
	assert.True(t, AvailabilityClaimedBySelf.IsTerminal())
	assert.True(t, AvailabilityWithdrawn.IsTerminal())
}
