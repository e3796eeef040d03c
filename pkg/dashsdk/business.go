package dashsdk

import (
	"context"
	"net/url"
	"time"
)

const dateLayout = "2006-01-02"

func periodQuery(path string, from, to time.Time) string {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format(dateLayout))
	}
	if !to.IsZero() {
		q.Set("to", to.Format(dateLayout))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// ListShifts returns the shifts starting within [from, to]. Zero times leave
// the bound open.
func (m *Manager) ListShifts(ctx context.Context, from, to time.Time) ([]Shift, error) {
	var shifts []Shift
	if err := m.getJSON(ctx, periodQuery(m.client.Endpoints.Shifts, from, to), &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// ListConsumptionItems returns the consumption-item catalog.
func (m *Manager) ListConsumptionItems(ctx context.Context) ([]ConsumptionItem, error) {
	var items []ConsumptionItem
	if err := m.getJSON(ctx, m.client.Endpoints.ConsumptionItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// PayrollSummary returns pay totals for the period [from, to].
func (m *Manager) PayrollSummary(ctx context.Context, from, to time.Time) (*PayrollSummary, error) {
	var summary PayrollSummary
	if err := m.getJSON(ctx, periodQuery(m.client.Endpoints.PayrollSummary, from, to), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
