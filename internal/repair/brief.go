package repair

import (
	"fmt"

	"github.com/shopspring/decimal"

	"draftdesk/internal/coerce"
	"draftdesk/internal/domain"
)

const (
	defaultBriefTitle   = "Project Brief"
	defaultScope        = "Scope as per requirement"
	defaultTimelineDays = 30
)

var hundred = decimal.NewFromInt(100)

// defaultBillingPlan is used when a brief has no billing plan at all.
func defaultBillingPlan() []domain.BillingPart {
	return []domain.BillingPart{
		{When: "Project kickoff", Percent: decimal.NewFromInt(40)},
		{When: "Midway", Percent: decimal.NewFromInt(40)},
		{When: "Completion", Percent: decimal.NewFromInt(20)},
	}
}

func (e *Engine) repairBrief(raw map[string]any, today domain.Date) *domain.ProjectBrief {
	b := &domain.ProjectBrief{
		Title:        coerce.String(raw["title"], defaultBriefTitle),
		Objective:    coerce.String(raw["objective"], ""),
		Scope:        nonEmptyList(raw["scope"]),
		Deliverables: nonEmptyList(raw["deliverables"]),
		Assumptions:  coerce.StringList(raw["assumptions"]),
		Risks:        coerce.StringList(raw["risks"]),
		Milestones:   repairMilestones(raw["milestones"], today),
		TimelineDays: coerce.Int(raw["timeline_days"], defaultTimelineDays),
		BillingPlan:  normalizeBillingPlan(raw["billing_plan"]),
	}
	if b.TimelineDays < 1 {
		b.TimelineDays = defaultTimelineDays
	}
	return b
}

func nonEmptyList(raw any) []string {
	if list := coerce.StringList(raw); len(list) > 0 {
		return list
	}
	return []string{defaultScope}
}

// repairMilestones fills missing dates from today and never lets a
// milestone end before it starts. An empty list gets a Discovery and an
// Execution phase.
func repairMilestones(raw any, today domain.Date) []domain.Milestone {
	list := coerce.Array(raw)
	if len(list) == 0 {
		return []domain.Milestone{
			{Name: "Discovery", Start: today, End: today.AddDays(7), Fee: decimal.Zero},
			{Name: "Execution", Start: today.AddDays(8), End: today.AddDays(30), Fee: decimal.Zero},
		}
	}
	out := make([]domain.Milestone, 0, len(list))
	for _, r := range list {
		m := coerce.Object(r)
		ms := domain.Milestone{
			Name:  coerce.String(m["name"], "Milestone"),
			Start: today,
			Fee:   coerce.NonNegative(m["fee"], decimal.Zero),
		}
		if d := coerce.DateOrNil(m["start"]); d != nil {
			ms.Start = *d
		}
		ms.End = ms.Start.AddDays(7)
		if d := coerce.DateOrNil(m["end"]); d != nil {
			ms.End = *d
		}
		if ms.End.Before(ms.Start) {
			ms.End = ms.Start
		}
		out = append(out, ms)
	}
	return out
}

// normalizeBillingPlan makes the plan's percentages add up to exactly 100.
// An all-zero plan is split equally; any other plan is scaled
// proportionally with the rounding remainder assigned to the last part.
func normalizeBillingPlan(raw any) []domain.BillingPart {
	list := coerce.Array(raw)
	if len(list) == 0 {
		return defaultBillingPlan()
	}
	parts := make([]domain.BillingPart, len(list))
	total := decimal.Zero
	for i, r := range list {
		m := coerce.Object(r)
		parts[i] = domain.BillingPart{
			When:    coerce.String(m["when"], fmt.Sprintf("Milestone %d", i+1)),
			Percent: coerce.Percent(m["percent"], decimal.Zero),
		}
		total = total.Add(parts[i].Percent)
	}
	switch {
	case total.Equal(hundred):
		return parts
	case total.IsZero():
		return equalSplit(parts)
	}

	remainder := hundred
	for i := range parts[:len(parts)-1] {
		parts[i].Percent = parts[i].Percent.Mul(hundred).Div(total).Round(2)
		remainder = remainder.Sub(parts[i].Percent)
	}
	if remainder.IsNegative() {
		return equalSplit(parts)
	}
	parts[len(parts)-1].Percent = remainder
	return parts
}

func equalSplit(parts []domain.BillingPart) []domain.BillingPart {
	share := hundred.Div(decimal.NewFromInt(int64(len(parts)))).Truncate(2)
	remainder := hundred
	for i := range parts[:len(parts)-1] {
		parts[i].Percent = share
		remainder = remainder.Sub(share)
	}
	parts[len(parts)-1].Percent = remainder
	return parts
}
