package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealroute/db"
	"mealroute/models"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"+91 98490 12345", "9849012345"},
		{"098490-12345", "9849012345"},
		{"9849012345", "9849012345"},
		{"12345", "12345"},
		{"", ""},
		{"n/a", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPhonesMatch(t *testing.T) {
	if !PhonesMatch("+919849012345", "98490 12345") {
		t.Error("same number with country code should match")
	}
	if PhonesMatch("", "") {
		t.Error("empty phones must not match")
	}
	if PhonesMatch("9849012345", "9849012346") {
		t.Error("different numbers must not match")
	}
}

func TestListStaff_DB(t *testing.T) {
	ctx := setupDB(t)
	saveTestZones(ctx, t)

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := []struct {
		staff   models.Staff
		created time.Time
	}{
		{models.Staff{ID: "b", Name: "Babu", ZoneIDs: []string{"z3", "z1"}}, base},
		{models.Staff{ID: "a", Name: "Anil", ZoneIDs: []string{"z2"}}, base},
		{models.Staff{ID: "d", Name: "Dev"}, base.Add(-time.Hour)},
		{models.Staff{ID: "c", Name: "Chandu", Priority: -1, ZoneIDs: []string{"z1"}}, base.Add(time.Hour)},
	}
	for _, r := range rows {
		_, err := SaveStaff(ctx, r.staff)
		require.NoError(t, err)
		_, err = db.Pool.Exec(ctx, `UPDATE staff SET created_at = $2 WHERE id = $1`, r.staff.ID, r.created)
		require.NoError(t, err)
	}

	list, err := ListStaff(ctx)
	require.NoError(t, err)
	var ids []string
	byID := map[string]models.Staff{}
	for _, s := range list {
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}
	// priority first, then creation time, then id
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids)
	assert.Equal(t, []string{"z1", "z3"}, byID["b"].ZoneIDs)
	assert.Equal(t, []string{"z2"}, byID["a"].ZoneIDs)
	assert.Empty(t, byID["d"].ZoneIDs)

	// z1 is covered by Babu and Chandu; the list order hands it to Chandu.
	_, err = SaveClient(ctx, models.Client{ID: "k1", Name: "Ravi", ZoneID: "z1", StartDate: jan1, EndDate: jan31})
	require.NoError(t, err)
	snap, err := PostgresSource{}.Load(ctx)
	require.NoError(t, err)
	key, _ := groupOf(t, snap.Generate(jan15), "k1")
	assert.Equal(t, "c", key)
}

func TestSaveStaff_DB(t *testing.T) {
	ctx := setupDB(t)
	saveTestZones(ctx, t)

	id, err := SaveStaff(ctx, models.Staff{Name: "Anil", Phone: "9849012345", ZoneIDs: []string{"z1", "z2", "z1"}})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	got, err := GetStaff(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"z1", "z2"}, got.ZoneIDs)

	_, err = SaveStaff(ctx, models.Staff{ID: id, Name: "Anil K", ZoneIDs: []string{"z3"}})
	require.NoError(t, err)
	got, err = GetStaff(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Anil K", got.Name)
	assert.Equal(t, []string{"z3"}, got.ZoneIDs)

	// an unknown zone fails the whole save, including the rename
	_, err = SaveStaff(ctx, models.Staff{ID: id, Name: "Renamed", ZoneIDs: []string{"z1", "missing"}})
	require.Error(t, err)
	got, err = GetStaff(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Anil K", got.Name)
	assert.Equal(t, []string{"z3"}, got.ZoneIDs)

	require.NoError(t, DeleteStaff(ctx, id))
	assert.ErrorIs(t, DeleteStaff(ctx, id), ErrStaffNotFound)
	var links int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT count(*) FROM staff_zones WHERE staff_id = $1`, id).Scan(&links))
	assert.Zero(t, links)
}

func TestLinkStaffChat_DB(t *testing.T) {
	ctx := setupDB(t)
	id, err := SaveStaff(ctx, models.Staff{Name: "Anil", Phone: "+91 98490 12345"})
	require.NoError(t, err)

	s, err := LinkStaffChat(ctx, "919849012345", 555)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, int64(555), s.ChatID)

	byChat, err := GetStaffByChatID(ctx, 555)
	require.NoError(t, err)
	require.NotNil(t, byChat)
	assert.Equal(t, id, byChat.ID)

	none, err := LinkStaffChat(ctx, "9000000000", 556)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, UnlinkStaffChat(ctx, id))
	byChat, err = GetStaffByChatID(ctx, 555)
	require.NoError(t, err)
	assert.Nil(t, byChat)
	assert.ErrorIs(t, UnlinkStaffChat(ctx, "nobody"), ErrStaffNotFound)
}
