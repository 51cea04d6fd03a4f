package models

import "time"

// Option letters
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
)

// Field length limits enforced at creation
const (
	MaxTitleLen       = 120
	MaxDescriptionLen = 250
	MaxOptionTextLen  = 100
)

// Request types

type CreateTotRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	OptionAText     string     `json:"optionAText"`
	OptionAImageURL *string    `json:"optionAImageUrl,omitempty"`
	OptionBText     string     `json:"optionBText"`
	OptionBImageURL *string    `json:"optionBImageUrl,omitempty"`
	OptionCText     *string    `json:"optionCText,omitempty"`
	OptionCImageURL *string    `json:"optionCImageUrl,omitempty"`
	IsPublic        *bool      `json:"isPublic,omitempty"`
	IsAnonymous     *bool      `json:"isAnonymous,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

type VoteRequest struct {
	Option string `json:"option"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Response types

type ListTotsResponse struct {
	Tots  []Tot `json:"tots"`
	Total int   `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type TotResults struct {
	Tot         Tot `json:"tot"`
	PercentageA int `json:"percentageA"`
	PercentageB int `json:"percentageB"`
	PercentageC int `json:"percentageC"`
}

type VoteStatusResponse struct {
	HasVoted    bool   `json:"hasVoted"`
	VotedOption string `json:"votedOption,omitempty"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Domain types

type Tot struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	OptionAText     string     `json:"optionAText"`
	OptionAImageURL *string    `json:"optionAImageUrl,omitempty"`
	OptionBText     string     `json:"optionBText"`
	OptionBImageURL *string    `json:"optionBImageUrl,omitempty"`
	OptionCText     *string    `json:"optionCText,omitempty"`
	OptionCImageURL *string    `json:"optionCImageUrl,omitempty"`
	CreatorIP       *string    `json:"-"` // Never expose in JSON
	CreatorUserID   *string    `json:"creatorUserId,omitempty"`
	IsAnonymous     bool       `json:"isAnonymous"`
	IsPublic        bool       `json:"isPublic"`
	IsTrending      bool       `json:"isTrending"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	TotalVotes      int        `json:"totalVotes"`
	OptionAVotes    int        `json:"optionAVotes"`
	OptionBVotes    int        `json:"optionBVotes"`
	OptionCVotes    int        `json:"optionCVotes"`
}

type Vote struct {
	ID             int64     `json:"id"`
	TotID          string    `json:"totId"`
	OptionSelected string    `json:"optionSelected"`
	VoterKey       string    `json:"-"` // Never expose in JSON
	VoterIP        *string   `json:"-"` // Never expose in JSON
	UserID         *string   `json:"-"` // Never expose in JSON
	UserAgent      *string   `json:"-"` // Never expose in JSON
	CreatedAt      time.Time `json:"createdAt"`
}

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsAnonymous bool      `json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HasOptionC reports whether the tot was created with a third option.
func (t *Tot) HasOptionC() bool {
	return t.OptionCText != nil && *t.OptionCText != ""
}

// Expired reports whether the tot's expiry has passed at the given time.
// Tots without an expiry never expire.
func (t *Tot) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}
