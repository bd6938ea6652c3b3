package types

import "time"

// Question statuses
const (
	StatusPending   = "PENDING"
	StatusEscalated = "ESCALATED"
	StatusAnswered  = "ANSWERED"
)

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Vote kinds
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// ValidStatus reports whether s is one of the known question statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusEscalated || s == StatusAnswered
}

// Users (all self-registered accounts are admins)
type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:admin" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Questions submitted by guests or logged-in users
type Question struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	UserID      *uint64    `gorm:"index" json:"user_id"`
	GuestName   *string    `gorm:"size:100" json:"guest_name"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Status      string     `gorm:"size:16;index;not null;default:PENDING" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	EscalatedAt *time.Time `json:"escalated_at"`
	AnsweredAt  *time.Time `json:"answered_at"`
	Answers     []Answer   `gorm:"foreignKey:QuestionID" json:"-"`
}

// Answers form a reply tree within one question via ParentID.
type Answer struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	QuestionID uint64    `gorm:"index;not null" json:"question_id"`
	UserID     *uint64   `json:"user_id"`
	ParentID   *uint64   `gorm:"index" json:"parent_id"`
	GuestName  *string   `gorm:"size:100" json:"guest_name"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	Upvotes    int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes  int       `gorm:"not null;default:0" json:"downvotes"`
}

// Score is always derived, never stored.
func (a Answer) Score() int { return a.Upvotes - a.Downvotes }

// Votes: one active vote per admin per answer, enforced by the unique index.
type Vote struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	AnswerID  uint64    `gorm:"uniqueIndex:uniq_answer_rater;not null" json:"answer_id"`
	UserID    uint64    `gorm:"uniqueIndex:uniq_answer_rater;not null" json:"user_id"`
	Kind      string    `gorm:"size:8;not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
