package etwork

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkItem(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		item, err := NewWorkItem("w1", CategoryCargo, GeoPoint{City: "Sorriso", RegionCode: "MT"}, GeoPoint{}, now)
		require.NoError(t, err)
		assert.Equal(t, StatusOpen, item.Status)
		assert.Equal(t, UrgencyNormal, item.Urgency)
		assert.Empty(t, item.ClaimOwner)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := NewWorkItem("", CategoryCargo, GeoPoint{}, GeoPoint{}, now)
		assert.ErrorIs(t, err, ErrInvalidWorkItemID)
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := NewWorkItem("w1", Category("PIZZA"), GeoPoint{}, GeoPoint{}, now)
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestWorkItemEndpoints(t *testing.T) {
	tests := []struct {
		name string
		item WorkItem
		want []GeoPoint
	}{
		{
			name: "both structured",
			item: WorkItem{
				Origin:      GeoPoint{City: "Sorriso", RegionCode: "MT"},
				Destination: GeoPoint{City: "Rondonópolis", RegionCode: "MT"},
			},
			want: []GeoPoint{
				{City: "Sorriso", RegionCode: "MT"},
				{City: "Rondonópolis", RegionCode: "MT"},
			},
		},
		{
			name: "origin only",
			item: WorkItem{Origin: GeoPoint{City: "Sinop", RegionCode: "MT"}},
			want: []GeoPoint{{City: "Sinop", RegionCode: "MT"}},
		},
		{
			name: "free text fallback",
			item: WorkItem{FreeText: "Sorriso - MT"},
			want: []GeoPoint{{City: "Sorriso", RegionCode: "MT"}},
		},
		{
			name: "structured wins over free text",
			item: WorkItem{
				Origin:   GeoPoint{City: "Sinop", RegionCode: "MT"},
				FreeText: "Sorriso - MT",
			},
			want: []GeoPoint{{City: "Sinop", RegionCode: "MT"}},
		},
		{
			name: "unparseable free text",
			item: WorkItem{FreeText: "endereço desconhecido"},
			want: []GeoPoint{},
		},
		{
			name: "nothing",
			item: WorkItem{},
			want: []GeoPoint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Endpoints())
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusOpen, false},
		{StatusClaimed, false},
		{StatusInProgress, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.terminal)
			}
		})
	}
}

func TestUrgencyRank(t *testing.T) {
	assert.Greater(t, UrgencyCritical.Rank(), UrgencyUrgent.Rank())
	assert.Greater(t, UrgencyUrgent.Rank(), UrgencyNormal.Rank())
}
