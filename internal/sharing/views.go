package sharing

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/landbook/landbook/internal/apperr"
	"github.com/landbook/landbook/internal/models"
	"github.com/landbook/landbook/internal/projects"
)

const (
	recentRecordsLimit  = 5
	recentPaymentsLimit = 3
)

// RaiyatGroup is one raiyat's slice of the records view.
type RaiyatGroup struct {
	RaiyatName   string                `json:"raiyatName"`
	RaiyatColor  string                `json:"raiyatColor"`
	TotalRecords int                   `json:"totalRecords"`
	Records      []projects.LandRecord `json:"records"`
}

// RecordsView is the read-only records page of a shared project.
type RecordsView struct {
	Project      Metadata              `json:"project"`
	Raiyats      []RaiyatGroup         `json:"raiyats"`
	TotalRecords int                   `json:"totalRecords"`
	AllRecords   []projects.LandRecord `json:"allRecords"`
}

// Statistics are the headline counts of the overview.
type Statistics struct {
	TotalRecords  int `json:"totalRecords"`
	TotalRaiyats  int `json:"totalRaiyats"`
	TotalPayments int `json:"totalPayments"`
}

// PaymentSummary sums the project's payments.
type PaymentSummary struct {
	TotalAmount    float64 `json:"totalAmount"`
	ReceivedAmount float64 `json:"receivedAmount"`
	PendingAmount  float64 `json:"pendingAmount"`
	PaymentStatus  string  `json:"paymentStatus"`
}

// RaiyatShare is a pie slice of records per raiyat.
type RaiyatShare struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LocationSummary counts records that have each boundary filled in.
type LocationSummary struct {
	Uttar   int `json:"uttar"`
	Dakshin int `json:"dakshin"`
	Purab   int `json:"purab"`
	Paschim int `json:"paschim"`
}

// Charts groups the overview chart series.
type Charts struct {
	RecordsByRaiyat []RaiyatShare   `json:"recordsByRaiyat"`
	LocationSummary LocationSummary `json:"locationSummary"`
}

// RecentRecord is a land record in the activity feed.
type RecentRecord struct {
	ID           string    `json:"id"`
	KhesraNumber string    `json:"khesraNumber"`
	RaiyatName   string    `json:"raiyatName"`
	Timestamp    string    `json:"timestamp"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecentPayment is a payment in the activity feed.
type RecentPayment struct {
	ID             string    `json:"id"`
	TotalAmount    float64   `json:"totalAmount"`
	ReceivedAmount float64   `json:"receivedAmount"`
	Status         string    `json:"status"`
	PaymentDate    string    `json:"paymentDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RecentActivity is the overview activity feed.
type RecentActivity struct {
	Records  []RecentRecord  `json:"records"`
	Payments []RecentPayment `json:"payments"`
}

// RaiyatCount is a raiyat with its number of records.
type RaiyatCount struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	RecordCount int    `json:"recordCount"`
}

// Overview is the dashboard of a shared project.
type Overview struct {
	Project        Metadata       `json:"project"`
	Statistics     Statistics     `json:"statistics"`
	PaymentSummary PaymentSummary `json:"paymentSummary"`
	Charts         Charts         `json:"charts"`
	RecentActivity RecentActivity `json:"recentActivity"`
	Raiyats        []RaiyatCount  `json:"raiyats"`
}

// Records returns the records of a shared project grouped by raiyat.
func (s *Service) Records(ctx context.Context, token, accessToken string) (RecordsView, error) {
	project, errAuth := s.authorize(ctx, token, accessToken)
	if errAuth != nil {
		return RecordsView{}, errAuth
	}
	meta, errMeta := s.metadata(ctx, project)
	if errMeta != nil {
		return RecordsView{}, errMeta
	}
	proj, errHydrate := projects.Hydrate(ctx, s.db, project)
	if errHydrate != nil {
		return RecordsView{}, errHydrate
	}

	// Hydrate orders records oldest first; the shared view lists newest first.
	ordered := make([]projects.LandRecord, len(proj.LandRecords))
	copy(ordered, proj.LandRecords)
	slices.Reverse(ordered)
	view := RecordsView{
		Project:      meta,
		Raiyats:      make([]RaiyatGroup, 0, len(proj.RaiyatNames)),
		TotalRecords: len(ordered),
		AllRecords:   ordered,
	}
	byRaiyat := make(map[string][]projects.LandRecord, len(proj.RaiyatNames))
	for _, rec := range ordered {
		byRaiyat[rec.RaiyatID] = append(byRaiyat[rec.RaiyatID], rec)
	}
	for _, r := range proj.RaiyatNames {
		records := byRaiyat[r.ID]
		if records == nil {
			records = []projects.LandRecord{}
		}
		view.Raiyats = append(view.Raiyats, RaiyatGroup{
			RaiyatName:   r.Name,
			RaiyatColor:  r.Color,
			TotalRecords: len(records),
			Records:      records,
		})
	}
	return view, nil
}

// Overview returns the statistics dashboard of a shared project.
func (s *Service) Overview(ctx context.Context, token, accessToken string) (Overview, error) {
	project, errAuth := s.authorize(ctx, token, accessToken)
	if errAuth != nil {
		return Overview{}, errAuth
	}
	meta, errMeta := s.metadata(ctx, project)
	if errMeta != nil {
		return Overview{}, errMeta
	}
	proj, errHydrate := projects.Hydrate(ctx, s.db, project)
	if errHydrate != nil {
		return Overview{}, errHydrate
	}
	var payments []models.Payment
	if errFind := s.db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Order("created_at DESC, id DESC").
		Find(&payments).Error; errFind != nil {
		return Overview{}, apperr.Unexpected("load payments", errFind)
	}
	return buildOverview(meta, proj, payments), nil
}

// buildOverview computes the dashboard. payments must be newest first.
func buildOverview(meta Metadata, proj projects.Projection, payments []models.Payment) Overview {
	total := len(proj.LandRecords)
	out := Overview{
		Project: meta,
		Statistics: Statistics{
			TotalRecords:  total,
			TotalRaiyats:  len(proj.RaiyatNames),
			TotalPayments: len(payments),
		},
		Charts: Charts{RecordsByRaiyat: make([]RaiyatShare, 0, len(proj.RaiyatNames))},
		RecentActivity: RecentActivity{
			Records:  []RecentRecord{},
			Payments: []RecentPayment{},
		},
		Raiyats: make([]RaiyatCount, 0, len(proj.RaiyatNames)),
	}

	counts := make(map[string]int, len(proj.RaiyatNames))
	loc := &out.Charts.LocationSummary
	for _, rec := range proj.LandRecords {
		counts[rec.RaiyatID]++
		if strings.TrimSpace(rec.Uttar) != "" {
			loc.Uttar++
		}
		if strings.TrimSpace(rec.Dakshin) != "" {
			loc.Dakshin++
		}
		if strings.TrimSpace(rec.Purab) != "" {
			loc.Purab++
		}
		if strings.TrimSpace(rec.Paschim) != "" {
			loc.Paschim++
		}
	}
	for _, r := range proj.RaiyatNames {
		count := counts[r.ID]
		percentage := 0.0
		if total > 0 {
			percentage = math.Round(float64(count)/float64(total)*1000) / 10
		}
		out.Charts.RecordsByRaiyat = append(out.Charts.RecordsByRaiyat, RaiyatShare{
			Name:       r.Name,
			Color:      r.Color,
			Count:      count,
			Percentage: percentage,
		})
		out.Raiyats = append(out.Raiyats, RaiyatCount{Name: r.Name, Color: r.Color, RecordCount: count})
	}

	// Iterating oldest to newest leaves the latest payment's status.
	status := string(models.PaymentStatusPending)
	for i := len(payments) - 1; i >= 0; i-- {
		p := payments[i]
		out.PaymentSummary.TotalAmount += p.TotalAmount
		out.PaymentSummary.ReceivedAmount += p.ReceivedAmount
		out.PaymentSummary.PendingAmount += p.PendingAmount
		status = string(p.Status)
	}
	out.PaymentSummary.PaymentStatus = status

	recent := make([]projects.LandRecord, len(proj.LandRecords))
	copy(recent, proj.LandRecords)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	for i := 0; i < len(recent) && i < recentRecordsLimit; i++ {
		rec := recent[i]
		out.RecentActivity.Records = append(out.RecentActivity.Records, RecentRecord{
			ID:           rec.ID,
			KhesraNumber: rec.KhesraNumber,
			RaiyatName:   rec.RaiyatName,
			Timestamp:    rec.Timestamp,
			CreatedAt:    rec.CreatedAt,
		})
	}
	for i := 0; i < len(payments) && i < recentPaymentsLimit; i++ {
		p := payments[i]
		out.RecentActivity.Payments = append(out.RecentActivity.Payments, RecentPayment{
			ID:             p.ID,
			TotalAmount:    p.TotalAmount,
			ReceivedAmount: p.ReceivedAmount,
			Status:         string(p.Status),
			PaymentDate:    p.PaymentDate,
			CreatedAt:      p.CreatedAt,
		})
	}
	return out
}
