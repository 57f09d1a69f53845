package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"farmtycoon/internal/adapter/repo/gorm/model"
	"farmtycoon/internal/app/ports"
)

type JournalRepo struct {
	db *gorm.DB
}

func NewJournalRepo(db *gorm.DB) JournalRepo {
	return JournalRepo{db: db}
}

func (r JournalRepo) Append(ctx context.Context, entries []ports.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.FarmJournal, 0, len(entries))
	for _, e := range entries {
		payload := e.Payload
		if payload == nil {
			payload = map[string]any{}
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode journal payload %s: %w", e.Type, err)
		}
		rows = append(rows, model.FarmJournal{
			SessionID:  e.SessionID,
			Type:       e.Type,
			Payload:    b,
			OccurredAt: e.OccurredAt.UTC(),
		})
	}
	return dbFromCtx(ctx, r.db).Create(&rows).Error
}

func (r JournalRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.JournalEntry, error) {
	rows := []model.FarmJournal{}
	query := dbFromCtx(ctx, r.db).
		Where(&model.FarmJournal{SessionID: sessionID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.JournalEntry, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, ports.JournalEntry{
			SessionID:  row.SessionID,
			Type:       row.Type,
			Payload:    payload,
			OccurredAt: row.OccurredAt,
		})
	}
	return out, nil
}
