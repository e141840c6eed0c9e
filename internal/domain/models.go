// Package domain defines the persistence models for users, posts, the social
// graph, recipe-chat conversations, and personalization. These types are
// mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message roles accepted in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// User represents an account. Accounts start unverified; a 6-digit OTP with a
// short expiry is stored on the row until email verification succeeds, at
// which point both OTP columns are cleared. The same pattern applies to the
// password-reset code.
//
// Invariants:
//   - Username and Email are unique; Email is stored lowercased.
//   - PasswordHash is a bcrypt hash, never the raw password.
//   - OTP/OTPExpiry and ResetOTP/ResetOTPExpiry are set and cleared together.
type User struct {
	ID           string `json:"id"            gorm:"type:char(36);primaryKey"`
	Username     string `json:"username"      gorm:"type:varchar(64);not null;uniqueIndex"`
	FullName     string `json:"full_name"     gorm:"type:varchar(128);not null"`
	Email        string `json:"email"         gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `json:"-"             gorm:"type:varchar(255);not null"`
	Avatar       string `json:"avatar,omitempty" gorm:"type:varchar(512)"`
	Bio          string `json:"bio,omitempty" gorm:"type:varchar(512)"`
	IsVerified   bool   `json:"is_verified"   gorm:"not null;default:false"`

	// Subscription state. Type and expiry are set together when a plan is
	// activated and cleared together on cancel.
	IsSubscribed       bool       `json:"is_subscribed"                 gorm:"not null;default:false"`
	SubscriptionType   string     `json:"subscription_type,omitempty"   gorm:"type:varchar(64)"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`

	OTP            string     `json:"-" gorm:"type:varchar(16)"`
	OTPExpiry      *time.Time `json:"-"`
	ResetOTP       string     `json:"-" gorm:"type:varchar(16)"`
	ResetOTPExpiry *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Follow is one directed edge of the social graph. The (follower, followee)
// pair is unique, which makes the follow toggle idempotent at the DB level.
type Follow struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	FollowerID string    `json:"follower_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_follow_edge"`
	FolloweeID string    `json:"followee_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_follow_edge"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `json:"-" gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Followee User `json:"-" gorm:"foreignKey:FolloweeID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Follow.
func (Follow) TableName() string { return "follows" }

// Post is a feed entry authored by a user. Likes, saves, and comments hang off
// the post in their own tables and cascade when the post is deleted.
type Post struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:char(36);not null;index:idx_user_posts"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	ImageURL  string         `json:"image_url,omitempty" gorm:"type:varchar(512)"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Like marks that a user liked a post. Unique per (post, user).
type Like struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	PostID    string    `json:"post_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_like_post_user"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:ux_like_post_user"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string { return "likes" }

// SavedPost is a bookmark: a user keeping a post for later. Unique per
// (user, post).
type SavedPost struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_saved_user_post"`
	PostID    string    `json:"post_id" gorm:"type:char(36);not null;uniqueIndex:ux_saved_user_post"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for SavedPost.
func (SavedPost) TableName() string { return "saved_posts" }

// Comment is a reply on a post. Comments are append-only and are removed only
// when their post is deleted (cascade).
type Comment struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	PostID    string    `json:"post_id" gorm:"type:char(36);not null;index:idx_post_comments"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Title is a recipe-chat conversation thread owned by a user. A thread has
// zero or more history documents.
type Title struct {
	ID        string         `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id" gorm:"type:char(36);not null;index:idx_user_titles"`
	Title     string         `json:"title"   gorm:"type:varchar(255);not null;default:'New Conversation'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Title.
func (Title) TableName() string { return "titles" }

// History is one saved exchange within a thread. Each history document holds
// an ordered list of turns (see HistoryMessage); in practice the ask-and-save
// flow writes one user/assistant pair per history.
type History struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	TitleID   string    `json:"title_id" gorm:"type:char(36);not null;index:idx_title_histories"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Messages []HistoryMessage `json:"messages" gorm:"foreignKey:HistoryID;references:ID;constraint:OnDelete:CASCADE"`

	Title Title `json:"-" gorm:"foreignKey:TitleID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for History.
func (History) TableName() string { return "histories" }

// HistoryMessage is a single turn inside a history document. Seq preserves the
// order of turns within the document.
type HistoryMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	HistoryID string    `json:"history_id" gorm:"type:char(36);not null;index:idx_history_msgs,priority:1"`
	Seq       int       `json:"seq"        gorm:"not null;index:idx_history_msgs,priority:2"`
	Role      string    `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant','system')"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for HistoryMessage.
func (HistoryMessage) TableName() string { return "history_messages" }

// Personalization holds one preference record per user: free-text tags the
// recipe assistant uses to tailor answers. The arrays are stored as JSON.
type Personalization struct {
	ID     string `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID string `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`

	FavoriteCuisines   datatypes.JSONSlice[string] `json:"favorite_cuisines"`
	TastePreferences   datatypes.JSONSlice[string] `json:"taste_preferences"`
	FoodAllergies      datatypes.JSONSlice[string] `json:"food_allergies"`
	WhatsInYourKitchen datatypes.JSONSlice[string] `json:"whats_in_your_kitchen"`
	OtherTools         datatypes.JSONSlice[string] `json:"other_tools"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Personalization.
func (Personalization) TableName() string { return "personalizations" }
