package sharing

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/db"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/payments"
	"github.com/landbook/landbook/internal/projects"
	"github.com/landbook/landbook/internal/ratelimit"
	"github.com/landbook/landbook/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "share-test-secret"

type fixture struct {
	conn     *gorm.DB
	sharing  *Service
	projects *projects.Service
	payments *payments.Service
	owner    models.User
	project  projects.Projection
}

func newFixture(t *testing.T, limiter Limiter) fixture {
	t.Helper()
	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "sharing.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })

	owner := models.User{Email: "owner@example.com", Name: "Ramesh", Password: "hash"}
	require.NoError(t, conn.Create(&owner).Error)

	projectSvc := projects.NewService(conn)
	project, err := projectSvc.CreateProject(context.Background(), projects.CreateProjectInput{
		Name:         "Demo",
		MobileNumber: "9876543210",
		UserID:       owner.ID,
	})
	require.NoError(t, err)

	return fixture{
		conn:     conn,
		sharing:  NewService(conn, Config{Secret: testSecret, AccessExpiry: time.Hour}, limiter),
		projects: projectSvc,
		payments: payments.NewService(conn),
		owner:    owner,
		project:  project,
	}
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (ratelimit.Result, error) {
	return ratelimit.Result{Allowed: false}, nil
}

func TestIssueIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "https://land.example.com/")
	require.NoError(t, err)
	assert.Len(t, first.ShareToken, 32)
	assert.Equal(t, "https://land.example.com/share/"+first.ShareToken, first.ShareURL)
	assert.True(t, first.Project.IsShared)
	assert.Equal(t, "9876543210", first.Project.MobileNumber)
	assert.Contains(t, first.WhatsAppMessage, "*प्रोजेक्ट नाम*: Demo")
	assert.Contains(t, first.WhatsAppMessage, "*पासवर्ड*: 9876543210")
	assert.Contains(t, first.WhatsAppMessage, first.ShareURL)

	second, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "https://land.example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ShareToken, second.ShareToken)

	var stored models.Project
	require.NoError(t, f.conn.First(&stored, "id = ?", f.project.ID).Error)
	require.NotNil(t, stored.ShareToken)
	assert.Equal(t, first.ShareToken, *stored.ShareToken)
	assert.True(t, stored.IsShared)
}

func TestIssueRequiresOwnership(t *testing.T) {
	f := newFixture(t, nil)
	stranger := models.User{Email: "other@example.com", Password: "hash"}
	require.NoError(t, f.conn.Create(&stranger).Error)

	_, err := f.sharing.Issue(context.Background(), stranger.ID, f.project.ID, "http://localhost")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestLookupReturnsMetadataOnly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)

	meta, err := f.sharing.Lookup(ctx, link.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, meta.ID)
	assert.Equal(t, "Demo", meta.Name)
	assert.Equal(t, "Ramesh", meta.Owner.Name)

	_, err = f.sharing.Lookup(ctx, "does-not-exist")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, apperr.MsgShareInvalid, apperr.MessageOf(err, ""))
}

func TestVerifyPassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)

	_, err = f.sharing.Verify(ctx, link.ShareToken, "1234567890", "10.0.0.1")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, err = f.sharing.Verify(ctx, link.ShareToken, "  ", "10.0.0.1")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	access, err := f.sharing.Verify(ctx, link.ShareToken, " 9876543210 ", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, access.Verified)
	assert.Equal(t, f.project.ID, access.Project.ID)

	claims, err := security.ParseShareToken(testSecret, access.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, claims.ProjectID)
	assert.Equal(t, link.ShareToken, claims.ShareToken)
}

func TestVerifyRateLimited(t *testing.T) {
	f := newFixture(t, denyAll{})
	ctx := context.Background()
	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)

	_, err = f.sharing.Verify(ctx, link.ShareToken, "9876543210", "10.0.0.1")
	assert.True(t, apperr.Is(err, apperr.KindRateLimited))
}

func TestVerifyWithManagerBudget(t *testing.T) {
	manager := ratelimit.NewManager(ratelimit.SettingsConfig{
		Limit:  2,
		Window: time.Minute,
	})
	t.Cleanup(func() { _ = manager.Close() })
	f := newFixture(t, manager)
	ctx := context.Background()
	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.sharing.Verify(ctx, link.ShareToken, "0000000000", "10.0.0.2")
		assert.True(t, apperr.Is(err, apperr.KindAuth))
	}
	_, err = f.sharing.Verify(ctx, link.ShareToken, "9876543210", "10.0.0.2")
	assert.True(t, apperr.Is(err, apperr.KindRateLimited))

	_, err = f.sharing.Verify(ctx, link.ShareToken, "9876543210", "10.0.0.3")
	assert.NoError(t, err)
}

func TestRevokeInvalidatesLink(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)
	access, err := f.sharing.Verify(ctx, link.ShareToken, "9876543210", "")
	require.NoError(t, err)

	require.NoError(t, f.sharing.Revoke(ctx, f.owner.ID, f.project.ID))
	require.NoError(t, f.sharing.Revoke(ctx, f.owner.ID, f.project.ID))

	_, err = f.sharing.Lookup(ctx, link.ShareToken)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.sharing.Records(ctx, link.ShareToken, access.AccessToken)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.sharing.Overview(ctx, link.ShareToken, access.AccessToken)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var stored models.Project
	require.NoError(t, f.conn.First(&stored, "id = ?", f.project.ID).Error)
	assert.Nil(t, stored.ShareToken)
	assert.False(t, stored.IsShared)

	relink, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)
	assert.NotEqual(t, link.ShareToken, relink.ShareToken)
	_, err = f.sharing.Records(ctx, relink.ShareToken, access.AccessToken)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestReadsRequireAccessToken(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)

	_, err = f.sharing.Records(ctx, link.ShareToken, "")
	assert.True(t, apperr.Is(err, apperr.KindAuth))
	_, err = f.sharing.Overview(ctx, link.ShareToken, "garbage")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	forged, _, err := security.IssueShareToken("other-secret", f.project.ID, link.ShareToken, time.Hour)
	require.NoError(t, err)
	_, err = f.sharing.Records(ctx, link.ShareToken, forged)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestRecordsAndOverview(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for _, in := range []projects.LandRecordInput{
		{RaiyatName: "Ram", KhesraNumber: "101", Uttar: "road", Purab: "canal"},
		{RaiyatName: "Ram", KhesraNumber: "102", Uttar: "field"},
		{RaiyatName: "Sita", KhesraNumber: "201", Dakshin: "river"},
	} {
		_, err := f.projects.AddLandRecord(ctx, f.owner.ID, f.project.ID, in)
		require.NoError(t, err)
	}
	_, err := f.projects.AddRaiyat(ctx, f.owner.ID, f.project.ID, "Mohan")
	require.NoError(t, err)
	_, err = f.payments.Create(ctx, f.owner.ID, payments.CreateInput{
		ProjectID: f.project.ID, TotalAmount: 1000, ReceivedAmount: 1000, PaymentDate: "2024-01-01",
	})
	require.NoError(t, err)
	_, err = f.payments.Create(ctx, f.owner.ID, payments.CreateInput{
		ProjectID: f.project.ID, TotalAmount: 500, ReceivedAmount: 200, PaymentDate: "2024-02-01",
	})
	require.NoError(t, err)

	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)
	access, err := f.sharing.Verify(ctx, link.ShareToken, "9876543210", "")
	require.NoError(t, err)

	records, err := f.sharing.Records(ctx, link.ShareToken, access.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 3, records.TotalRecords)
	assert.Len(t, records.AllRecords, 3)
	require.Len(t, records.Raiyats, 3)
	counts := map[string]int{}
	for _, group := range records.Raiyats {
		counts[group.RaiyatName] = group.TotalRecords
		assert.Len(t, group.Records, group.TotalRecords)
	}
	assert.Equal(t, map[string]int{"Ram": 2, "Sita": 1, "Mohan": 0}, counts)

	overview, err := f.sharing.Overview(ctx, link.ShareToken, access.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, Statistics{TotalRecords: 3, TotalRaiyats: 3, TotalPayments: 2}, overview.Statistics)
	assert.Equal(t, LocationSummary{Uttar: 2, Dakshin: 1, Purab: 1, Paschim: 0}, overview.Charts.LocationSummary)
	assert.InDelta(t, 1500, overview.PaymentSummary.TotalAmount, 0.001)
	assert.InDelta(t, 1200, overview.PaymentSummary.ReceivedAmount, 0.001)
	assert.InDelta(t, 300, overview.PaymentSummary.PendingAmount, 0.001)
	assert.Equal(t, "partial", overview.PaymentSummary.PaymentStatus)
	assert.Len(t, overview.RecentActivity.Records, 3)
	assert.Len(t, overview.RecentActivity.Payments, 2)

	shares := map[string]float64{}
	for _, s := range overview.Charts.RecordsByRaiyat {
		shares[s.Name] = s.Percentage
	}
	assert.InDelta(t, 66.7, shares["Ram"], 0.001)
	assert.InDelta(t, 33.3, shares["Sita"], 0.001)
	assert.InDelta(t, 0, shares["Mohan"], 0.001)
}

func TestBuildOverviewLimitsActivity(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	proj := projects.Projection{RaiyatNames: []projects.Raiyat{{ID: "r1", Name: "Ram"}}}
	for i := 0; i < 7; i++ {
		proj.LandRecords = append(proj.LandRecords, projects.LandRecord{
			ID:        strings.Repeat("x", i+1),
			RaiyatID:  "r1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	var pays []models.Payment
	for i := 0; i < 4; i++ {
		pays = append(pays, models.Payment{ID: strings.Repeat("p", i+1), Status: models.PaymentStatusCompleted})
	}

	out := buildOverview(Metadata{}, proj, pays)
	require.Len(t, out.RecentActivity.Records, recentRecordsLimit)
	assert.Equal(t, "xxxxxxx", out.RecentActivity.Records[0].ID)
	require.Len(t, out.RecentActivity.Payments, recentPaymentsLimit)
	assert.Equal(t, "p", out.RecentActivity.Payments[0].ID)
	assert.Equal(t, "completed", out.PaymentSummary.PaymentStatus)

	empty := buildOverview(Metadata{}, projects.Projection{}, nil)
	assert.Equal(t, "pending", empty.PaymentSummary.PaymentStatus)
	assert.NotNil(t, empty.Charts.RecordsByRaiyat)
}

func TestRecordsListsNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, khesra := range []string{"101", "102", "103"} {
		_, err := f.projects.AddLandRecord(ctx, f.owner.ID, f.project.ID, projects.LandRecordInput{
			RaiyatName: "Ram", KhesraNumber: khesra,
		})
		require.NoError(t, err)
		require.NoError(t, f.conn.Model(&models.LandRecord{}).
			Where("khesra_number = ?", khesra).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	link, err := f.sharing.Issue(ctx, f.owner.ID, f.project.ID, "http://localhost")
	require.NoError(t, err)
	access, err := f.sharing.Verify(ctx, link.ShareToken, "9876543210", "")
	require.NoError(t, err)

	view, err := f.sharing.Records(ctx, link.ShareToken, access.AccessToken)
	require.NoError(t, err)
	khesras := func(records []projects.LandRecord) []string {
		out := make([]string, 0, len(records))
		for _, rec := range records {
			out = append(out, rec.KhesraNumber)
		}
		return out
	}
	assert.Equal(t, []string{"103", "102", "101"}, khesras(view.AllRecords))
	require.Len(t, view.Raiyats, 1)
	assert.Equal(t, []string{"103", "102", "101"}, khesras(view.Raiyats[0].Records))
}
