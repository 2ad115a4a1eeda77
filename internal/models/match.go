package models

import (
	"time"
)

// Статусы совпадений
const (
	MatchStatusPending   = "pending"
	MatchStatusConfirmed = "confirmed"
	MatchStatusRejected  = "rejected"
)

// Match - предложенное соответствие между потерянной и найденной вещью.
// Оценка фиксируется в момент создания и больше не пересчитывается.
type Match struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	LostItemID  string    `gorm:"type:uuid;not null;index:idx_matches_pair,unique" json:"lost_item_id"`
	FoundItemID string    `gorm:"type:uuid;not null;index:idx_matches_pair,unique" json:"found_item_id"`
	MatchScore  int       `gorm:"not null" json:"match_score"`
	Status      string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// MatchWithItems - совпадение вместе с краткими данными обоих объявлений
// (для списка совпадений пользователя)
type MatchWithItems struct {
	Match
	LostTitle     string `json:"lost_title"`
	LostCategory  string `json:"lost_category"`
	FoundTitle    string `json:"found_title"`
	FoundCategory string `json:"found_category"`
}

// MatchDetail - совпадение с полными данными обоих объявлений
type MatchDetail struct {
	Match
	LostTitle        string `json:"lost_title"`
	LostDescription  string `json:"lost_description"`
	LostLocation     string `json:"lost_location"`
	LostCategory     string `json:"lost_category"`
	FoundTitle       string `json:"found_title"`
	FoundDescription string `json:"found_description"`
	FoundLocation    string `json:"found_location"`
	FoundCategory    string `json:"found_category"`
}

// MatchCandidate - кандидат, прошедший порог при подборе для одного объявления
type MatchCandidate struct {
	Item  *Item `json:"item"`
	Score int   `json:"score"`
}
