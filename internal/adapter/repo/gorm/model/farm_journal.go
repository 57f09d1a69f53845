package model

import "time"

const TableNameFarmJournal = "farm_journal"

// FarmJournal maps to table farm_journal.
type FarmJournal struct {
	ID         int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:true" json:"id"`
	SessionID  string    `gorm:"column:session_id;type:text;not null" json:"session_id"`
	Type       string    `gorm:"column:type;type:text;not null" json:"type"`
	Payload    []byte    `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	OccurredAt time.Time `gorm:"column:occurred_at;type:timestamp with time zone;not null" json:"occurred_at"`
}

func (*FarmJournal) TableName() string {
	return TableNameFarmJournal
}
