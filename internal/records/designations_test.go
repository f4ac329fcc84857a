package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncDesignations_MirrorsAndPrunes(t *testing.T) {
	s := &Sacramental{
		SupportAndRelease: []SupportAndReleaseItem{
			{ID: "s1", Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
		},
	}

	SyncDesignations(s)

	require.Len(t, s.Designations, 1)
	d := s.Designations[0]
	assert.Equal(t, "Ana", d.FullName)
	assert.Equal(t, "Primária", d.CallingName)
	assert.Equal(t, "s1", d.SupportItemID)
	assert.Empty(t, d.DesignatedBy)
	assert.NotEmpty(t, d.ID)

	s.SupportAndRelease = nil
	SyncDesignations(s)
	assert.Empty(t, s.Designations)
}

func TestSyncDesignations_IgnoresReleases(t *testing.T) {
	s := &Sacramental{
		SupportAndRelease: []SupportAndReleaseItem{
			{ID: "r1", Type: SupportTypeRelease, FullName: "Ana", CallingName: "Primária"},
		},
	}
	SyncDesignations(s)
	assert.Empty(t, s.Designations)
}

func TestSyncDesignations_Idempotent(t *testing.T) {
	s := &Sacramental{
		SupportAndRelease: []SupportAndReleaseItem{
			{ID: "s1", Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
			{ID: "s2", Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
		},
	}
	SyncDesignations(s)
	require.Len(t, s.Designations, 2)
	first := append([]CallingDesignationItem(nil), s.Designations...)

	s.Designations[0].DesignatedBy = "Bispo Lima"
	SyncDesignations(s)

	require.Len(t, s.Designations, 2)
	assert.Equal(t, first[0].ID, s.Designations[0].ID)
	assert.Equal(t, "Bispo Lima", s.Designations[0].DesignatedBy)
	assert.Equal(t, first[1].ID, s.Designations[1].ID)
}

func TestSyncDesignations_DuplicateNamesStayDistinct(t *testing.T) {
	s := &Sacramental{
		SupportAndRelease: []SupportAndReleaseItem{
			{ID: "s1", Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
			{ID: "s2", Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
		},
	}
	SyncDesignations(s)
	s.Designations[1].DesignatedBy = "Bispo Lima"

	s.SupportAndRelease = s.SupportAndRelease[:1]
	SyncDesignations(s)

	require.Len(t, s.Designations, 1)
	assert.Equal(t, "s1", s.Designations[0].SupportItemID)
	assert.Empty(t, s.Designations[0].DesignatedBy)
}

func TestSyncDesignations_FollowsRenames(t *testing.T) {
	s := &Sacramental{
		SupportAndRelease: []SupportAndReleaseItem{
			{ID: "s1", Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
		},
	}
	SyncDesignations(s)
	id := s.Designations[0].ID

	s.SupportAndRelease[0].FullName = "Ana Paula"
	SyncDesignations(s)

	require.Len(t, s.Designations, 1)
	assert.Equal(t, id, s.Designations[0].ID)
	assert.Equal(t, "Ana Paula", s.Designations[0].FullName)
}

func TestSyncDesignations_AdoptsLegacy(t *testing.T) {
	s := &Sacramental{
		SupportAndRelease: []SupportAndReleaseItem{
			{ID: "s1", Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
		},
		Designations: []CallingDesignationItem{
			{ID: "d-old", FullName: "Ana", CallingName: "Primária", DesignatedBy: "Bispo Lima"},
			{ID: "d-orphan", FullName: "Rui", CallingName: "Escola Dominical"},
		},
	}

	SyncDesignations(s)

	require.Len(t, s.Designations, 1)
	assert.Equal(t, "d-old", s.Designations[0].ID)
	assert.Equal(t, "s1", s.Designations[0].SupportItemID)
	assert.Equal(t, "Bispo Lima", s.Designations[0].DesignatedBy)
}

func TestSyncDesignations_AssignsSupportIDs(t *testing.T) {
	s := &Sacramental{
		SupportAndRelease: []SupportAndReleaseItem{
			{Type: SupportTypeSupport, FullName: "Ana", CallingName: "Primária"},
		},
	}
	SyncDesignations(s)

	require.NotEmpty(t, s.SupportAndRelease[0].ID)
	require.Len(t, s.Designations, 1)
	assert.Equal(t, s.SupportAndRelease[0].ID, s.Designations[0].SupportItemID)
}

func TestSyncDesignations_OtherKindsUntouched(t *testing.T) {
	b := &Bishopric{PresidedBy: "Ana"}
	SyncDesignations(b)
	assert.Equal(t, &Bishopric{PresidedBy: "Ana"}, b)
}
