package claude

import (
	"time"

	"github.com/joshuadavidthomas/liment/internal/models"
)

// UsagePeriodResponse is one rate-limit bucket from /api/oauth/usage.
type UsagePeriodResponse struct {
	Utilization float64 `json:"utilization"`
	ResetsAt    string  `json:"resets_at,omitempty"`
}

// ExtraUsageResponse is the pay-as-you-go credit block. Amounts are in
// cents. MonthlyLimit is a pointer to distinguish null (no limit) from 0.
type ExtraUsageResponse struct {
	IsEnabled    bool     `json:"is_enabled"`
	UsedCredits  float64  `json:"used_credits"`
	MonthlyLimit *float64 `json:"monthly_limit"`
}

// UsageResponse is the body of /api/oauth/usage. Unknown buckets are ignored.
type UsageResponse struct {
	FiveHour       *UsagePeriodResponse `json:"five_hour,omitempty"`
	SevenDay       *UsagePeriodResponse `json:"seven_day,omitempty"`
	SevenDaySonnet *UsagePeriodResponse `json:"seven_day_sonnet,omitempty"`
	SevenDayOpus   *UsagePeriodResponse `json:"seven_day_opus,omitempty"`
	ExtraUsage     *ExtraUsageResponse  `json:"extra_usage,omitempty"`
}

type ProfileOrganization struct {
	RateLimitTier string `json:"rate_limit_tier"`
}

// ProfileResponse is the body of /api/oauth/profile. Only the tier is used.
type ProfileResponse struct {
	Organization *ProfileOrganization `json:"organization,omitempty"`
}

const (
	TierFree   = "default_claude_free"
	TierPro    = "default_claude_pro"
	TierMax5x  = "default_claude_max_5x"
	TierMax20x = "default_claude_max_20x"
)

var tierOrder = []string{TierFree, TierPro, TierMax5x, TierMax20x}

var tierInfo = map[string]models.TierInfo{
	TierFree:   {Name: "Free", Color: models.RGB{R: 140, G: 140, B: 155}},
	TierPro:    {Name: "Pro", Color: models.RGB{R: 90, G: 145, B: 210}},
	TierMax5x:  {Name: "Max 5x", Color: models.RGB{R: 145, G: 110, B: 200}},
	TierMax20x: {Name: "Max 20x", Color: models.RGB{R: 205, G: 130, B: 95}},
}

// Tiers returns every Claude subscription tier in plan order.
func Tiers() []models.TierInfo {
	out := make([]models.TierInfo, 0, len(tierOrder))
	for _, id := range tierOrder {
		out = append(out, tierInfo[id])
	}
	return out
}

// TierFor maps an API tier string to its display info. Strings this client
// does not know about map to models.UnknownTier.
func TierFor(raw string) models.TierInfo {
	if t, ok := tierInfo[raw]; ok {
		return t
	}
	return models.UnknownTier
}

const (
	fiveHours = 5 * time.Hour
	sevenDays = 7 * 24 * time.Hour
)

// Snapshot converts the usage and optional profile responses into a
// snapshot. Window order is fixed: 5h, 7d, 7d Sonnet, 7d Opus. Buckets
// without a reset time are kept with an unknown reset.
func Snapshot(usage UsageResponse, profile *ProfileResponse, fetchedAt time.Time) models.UsageSnapshot {
	buckets := []struct {
		title  string
		short  string
		data   *UsagePeriodResponse
		period time.Duration
	}{
		{"5h Limit", "5h", usage.FiveHour, fiveHours},
		{"7d Limit", "7d", usage.SevenDay, sevenDays},
		{"7d Sonnet", "", usage.SevenDaySonnet, sevenDays},
		{"7d Opus", "", usage.SevenDayOpus, sevenDays},
	}

	var windows []models.UsageWindow
	for _, b := range buckets {
		if b.data == nil {
			continue
		}
		windows = append(windows, models.NewUsageWindow(
			b.title, b.short, b.data.Utilization, models.ParseRFC3339Ptr(b.data.ResetsAt), b.period,
		))
	}

	var tier *models.TierInfo
	if profile != nil && profile.Organization != nil {
		t := TierFor(profile.Organization.RateLimitTier)
		tier = &t
	}

	return models.NewUsageSnapshot(tier, apiUsage(usage.ExtraUsage), windows, fetchedAt)
}

func apiUsage(extra *ExtraUsageResponse) *models.APIUsage {
	if extra == nil || !extra.IsEnabled {
		return nil
	}
	u := &models.APIUsage{UsageUSD: extra.UsedCredits / 100}
	if extra.MonthlyLimit != nil {
		u.LimitUSD = models.Float64Ptr(*extra.MonthlyLimit / 100)
	}
	return u
}
