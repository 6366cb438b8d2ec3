package models

import "time"

// Question is a post asked within a club
type Question struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Question    string    `json:"question" db:"question"`
	UpvoteCount int       `json:"upvoteCount" db:"upvote_count"`
	ClubID      int64     `json:"clubId" db:"club_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Author details, filled by list queries
	AuthorFirstName string   `json:"-"`
	AuthorLastName  string   `json:"-"`
	AuthorRole      RoleType `json:"-"`
}

// Answer is a reply to a question
type Answer struct {
	ID         int64     `json:"id" db:"id"`
	Answer     string    `json:"answer" db:"answer"`
	QuestionID int64     `json:"questionId" db:"question_id"`
	ClubID     int64     `json:"clubId" db:"club_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	AuthorFirstName string   `json:"-"`
	AuthorLastName  string   `json:"-"`
	AuthorRole      RoleType `json:"-"`
}
