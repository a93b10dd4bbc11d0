package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered platform account.
type User struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Username     string    `gorm:"column:username;type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// GameSession is the durable lobby record for one live table. It only backs
// lobby listings; the authoritative game state lives in Redis and is never
// written here.
type GameSession struct {
	URL         string         `gorm:"column:url;type:varchar(36);primaryKey" json:"url"`
	CreatorID   string         `gorm:"column:creator_id;type:varchar(36);index:idx_creator" json:"creator_id"`
	CreatorName string         `gorm:"column:creator_name;type:varchar(50);not null" json:"creator"`
	NumPlayers  int            `gorm:"column:num_players;default:0" json:"num_players"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// TableName specifies the table name for GameSession model
func (GameSession) TableName() string {
	return "game_sessions"
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a fresh token and the account it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
