package mdmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flp/matchd/internal/app/domains/entity/etcoverage"
	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
)

func localCandidate(id string, tier etmatch.Tier) etmatch.Candidate {
	return etmatch.Candidate{
		Item: openItem(id, etwork.CategoryCargo,
			etwork.GeoPoint{City: "Sorriso", RegionCode: "MT"}, etwork.GeoPoint{}),
		Tier:   tier,
		Source: etmatch.SourceLocal,
	}
}

func remoteCandidate(id string) etmatch.Candidate {
	c := localCandidate(id, etmatch.TierExact)
	c.Source = etmatch.SourceRemote
	return c
}

func TestMergeDeduplicates(t *testing.T) {
	cov := mustCoverage(t,
		[]etcoverage.Region{{City: "Sorriso", RegionCode: "MT"}},
		[]etwork.Category{etwork.CategoryCargo},
	)

	local := []etmatch.Candidate{localCandidate("w1", etmatch.TierExact), localCandidate("w2", etmatch.TierRegion)}
	remote := []etmatch.Candidate{remoteCandidate("w2"), remoteCandidate("w3")}

	merged, dropped := Merge(cov, local, remote)

	require.Equal(t, []string{"w1", "w2", "w3"}, candidateIDs(merged))
	assert.Empty(t, dropped)
}

func TestMergeRemoteWinsConflict(t *testing.T) {
	cov := mustCoverage(t,
		[]etcoverage.Region{{City: "Sorriso", RegionCode: "MT"}},
		[]etwork.Category{etwork.CategoryCargo},
	)

	local := []etmatch.Candidate{localCandidate("w1", etmatch.TierRegion)}
	remote := []etmatch.Candidate{remoteCandidate("w1")}

	merged, _ := Merge(cov, local, remote)

	require.Len(t, merged, 1)
	assert.Equal(t, etmatch.SourceRemote, merged[0].Source)
	// 冲突替换不改变首次出现的位置
	assert.Equal(t, "w1", merged[0].Item.ID)
}

func TestMergeAuthoritativeWins(t *testing.T) {
	cov := mustCoverage(t,
		[]etcoverage.Region{{City: "Sorriso", RegionCode: "MT"}},
		[]etwork.Category{etwork.CategoryCargo},
	)

	authoritative := localCandidate("w1", etmatch.TierExact)
	authoritative.Authoritative = true

	merged, _ := Merge(cov,
		[]etmatch.Candidate{authoritative},
		[]etmatch.Candidate{remoteCandidate("w1")},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, etmatch.SourceLocal, merged[0].Source)
	assert.True(t, merged[0].Authoritative)
}

func TestMergeRevalidatesRemote(t *testing.T) {
	cov := mustCoverage(t,
		[]etcoverage.Region{{City: "Sorriso", RegionCode: "MT"}},
		[]etwork.Category{etwork.CategoryCargo},
	)

	// 远端提议类别不匹配：静默丢弃并记录
	badCategory := remoteCandidate("bad-cat")
	badCategory.Item.Category = etwork.CategoryTowing

	// 远端提议已被认领：丢弃
	claimed := remoteCandidate("claimed")
	claimed.Item.Status = etwork.StatusClaimed

	// 远端提议地理不相关：丢弃
	offCoverage := remoteCandidate("off-coverage")
	offCoverage.Item.Origin = etwork.GeoPoint{City: "Curitiba", RegionCode: "PR"}

	good := remoteCandidate("good")

	merged, dropped := Merge(cov, []etmatch.Candidate{badCategory, claimed, offCoverage, good})

	require.Equal(t, []string{"good"}, candidateIDs(merged))
	require.Len(t, dropped, 3)
	droppedIDs := []string{dropped[0].WorkItemID, dropped[1].WorkItemID, dropped[2].WorkItemID}
	assert.Equal(t, []string{"bad-cat", "claimed", "off-coverage"}, droppedIDs)
}

func TestMergeRecomputesRemoteTier(t *testing.T) {
	cov := mustCoverage(t,
		[]etcoverage.Region{{City: "Sorriso", RegionCode: "MT"}},
		[]etwork.Category{etwork.CategoryCargo},
	)

	// 远端声称的层级不可信，以本地重校验结果为准
	remote := remoteCandidate("w1")
	remote.Tier = etmatch.TierCityNameOnly
	remote.Item.Origin = etwork.GeoPoint{City: "Sorriso", RegionCode: "MT"}

	merged, _ := Merge(cov, []etmatch.Candidate{remote})

	require.Len(t, merged, 1)
	assert.Equal(t, etmatch.TierExact, merged[0].Tier)
}

func TestMergeLocalNotRevalidated(t *testing.T) {
	cov := mustCoverage(t,
		[]etcoverage.Region{{City: "Sorriso", RegionCode: "MT"}},
		[]etwork.Category{etwork.CategoryCargo},
	)

	// 本地候选已通过匹配器过滤，合并时不再重复校验
	cached := localCandidate("cached", etmatch.TierExact)
	cached.Source = etmatch.SourceCache

	merged, dropped := Merge(cov, []etmatch.Candidate{cached})

	require.Len(t, merged, 1)
	assert.Empty(t, dropped)
}
