package replay

import (
	"context"
	"errors"
	"strings"

	"farmtycoon/internal/app/ports"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrInvalidRequest = errors.New("invalid journal request")

type UseCase struct {
	Journal ports.JournalRepository
}

// Execute lists journal entries newest first. Filters apply before the limit.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" || req.Limit < 0 || (req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo) {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	fetch := limit
	if req.OccurredFrom > 0 || req.OccurredTo > 0 || req.Type != "" {
		fetch = 0
	}
	entries, err := u.Journal.ListBySessionID(ctx, req.SessionID, fetch)
	if err != nil {
		return Response{}, err
	}
	entries = filterByTimeWindow(entries, req.OccurredFrom, req.OccurredTo)
	entries = filterByType(entries, req.Type)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return Response{Entries: entries, Summary: summarize(entries)}, nil
}

func filterByTimeWindow(entries []ports.JournalEntry, from, to int64) []ports.JournalEntry {
	if from <= 0 && to <= 0 {
		return entries
	}
	out := make([]ports.JournalEntry, 0, len(entries))
	for _, e := range entries {
		ts := e.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, e)
	}
	return out
}

func filterByType(entries []ports.JournalEntry, typ string) []ports.JournalEntry {
	if typ == "" {
		return entries
	}
	out := make([]ports.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if strings.EqualFold(e.Type, typ) {
			out = append(out, e)
		}
	}
	return out
}

func summarize(entries []ports.JournalEntry) Summary {
	s := Summary{ByType: map[string]int{}}
	for _, e := range entries {
		s.ByType[e.Type]++
		if day := int(num(e.Payload["day"])); day > s.LatestDay {
			s.LatestDay = day
		}
	}
	return s
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
