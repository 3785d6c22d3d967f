// Package compute normalizes raw insight rows into hourly metrics.
package compute

import (
	"strconv"
	"strings"

	"leadpulse/internal/domain"
)

// Normalize transforms raw rows into normalized metrics. Pure, total
// function: it never fails on malformed rows, missing numeric fields default
// to zero, and it preserves one output row per input row. Deduplication
// happens at persistence time via the upsert key, never here.
func Normalize(accountID string, rows []*domain.RawInsightRow) []*domain.NormalizedMetric {
	metrics := make([]*domain.NormalizedMetric, 0, len(rows))

	for _, row := range rows {
		if row == nil {
			metrics = append(metrics, &domain.NormalizedMetric{AccountID: accountID})
			continue
		}

		rowAccountID := row.AccountID
		if rowAccountID == "" {
			rowAccountID = accountID
		}

		spend := parseFloat(row.Spend)
		impressions := parseInt(row.Impressions)
		reach := parseInt(row.Reach)
		clicks := parseInt(row.Clicks)
		leads := countLeads(row.Actions)

		m := &domain.NormalizedMetric{
			AccountID:    rowAccountID,
			CampaignID:   row.CampaignID,
			CampaignName: row.CampaignName,
			AdsetID:      row.AdsetID,
			AdID:         row.AdID,
			AdName:       row.AdName,
			DateStart:    row.DateStart,
			Hour:         parseHour(row.Hour),
			Spend:        spend,
			Impressions:  impressions,
			Reach:        reach,
			Clicks:       clicks,
			Leads:        leads,
		}

		if leads > 0 {
			m.CPL = spend / float64(leads)
		}
		if impressions > 0 {
			m.CPM = spend / float64(impressions) * 1000
		}
		if reach > 0 {
			m.Frequency = float64(impressions) / float64(reach)
		}

		metrics = append(metrics, m)
	}

	return metrics
}

// countLeads sums the on-platform lead and offsite conversion action counts.
func countLeads(actions []domain.InsightAction) int64 {
	var leads int64
	for _, a := range actions {
		if a.ActionType == domain.ActionTypeLead || a.ActionType == domain.ActionTypeOffsiteConversion {
			leads += parseInt(a.Value)
		}
	}
	return leads
}

// parseHour extracts the starting hour from tokens like "13:00:00 - 13:59:59".
// Unparsable tokens default to hour 0.
func parseHour(token string) int {
	if token == "" {
		return 0
	}
	head := strings.SplitN(token, ":", 2)[0]
	h, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || h < 0 || h > 23 {
		return 0
	}
	return h
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n
	}
	// Some counters arrive as "12.0"
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0
	}
	return int64(f)
}
