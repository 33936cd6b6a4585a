// Copyright 2026 The 01Blog Authors
// SPDX-License-Identifier: Apache-2.0

package api

// RoleAdmin is the role string the backend assigns to administrators.
const RoleAdmin = "ADMIN"

// User is the account representation returned by the users endpoints.
// The profile endpoint returns the full shape; list endpoints may omit
// the heavier optional fields.
type User struct {
	ID             int64  `json:"id"`
	Firstname      string `json:"firstname,omitempty"`
	Lastname       string `json:"lastname,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	Cover          string `json:"cover,omitempty"`
	Bio            string `json:"bio,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	Username       string `json:"username,omitempty"`
	Name           string `json:"name,omitempty"`
	Handle         string `json:"handle,omitempty"`
	Subscribed     bool   `json:"subscribed,omitempty"`
	IsFollowing    bool   `json:"isFollowing,omitempty"`
	FollowersCount int    `json:"followersCount,omitempty"`
	FollowingCount int    `json:"followingCount,omitempty"`
	Banned         bool   `json:"banned,omitempty"`
	PostCount      int    `json:"postCount,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// DisplayName returns the best human-readable name the server gave us.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	name := u.Firstname
	if u.Lastname != "" {
		if name != "" {
			name += " "
		}
		name += u.Lastname
	}
	return name
}

// Post is a feed or management entry. Likes, Comments, ReportsCount,
// Hidden, and IsLiked are the mutable fields the store keeps consistent
// across its caches.
type Post struct {
	ID           int64    `json:"id"`
	User         *User    `json:"user,omitempty"`
	Time         string   `json:"time,omitempty"`
	ReadTime     string   `json:"readTime,omitempty"`
	Title        string   `json:"title,omitempty"`
	Content      string   `json:"content"`
	Images       []string `json:"images,omitempty"`
	Category     string   `json:"category,omitempty"`
	Likes        int      `json:"likes"`
	Comments     int      `json:"comments"`
	Tags         []string `json:"tags,omitempty"`
	IsLiked      bool     `json:"isLiked,omitempty"`
	CanEdit      bool     `json:"canEdit,omitempty"`
	CanDelete    bool     `json:"canDelete,omitempty"`
	ReportsCount int      `json:"reportsCount,omitempty"`
	Hidden       bool     `json:"hidden,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// Comment is always scoped to a post; the client never caches comments.
type Comment struct {
	ID        int64  `json:"id"`
	User      *User  `json:"user,omitempty"`
	Content   string `json:"content"`
	Time      string `json:"time,omitempty"`
	Likes     int    `json:"likes"`
	IsLiked   bool   `json:"isLiked,omitempty"`
	CanDelete bool   `json:"canDelete,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Notification types as emitted by the backend.
const (
	NotificationLike    = "LIKE"
	NotificationComment = "COMMENT"
	NotificationFollow  = "FOLLOW"
	NotificationNewPost = "NEW_POST"
	NotificationSystem  = "SYSTEM"
)

// Notification is one entry in the notifications feed.
type Notification struct {
	ID          int64  `json:"id"`
	ActorName   string `json:"actorName,omitempty"`
	ActorAvatar string `json:"actorAvatar,omitempty"`
	ActorID     int64  `json:"actorId,omitempty"`
	Type        string `json:"type"`
	EntityID    int64  `json:"entityId,omitempty"`
	IsRead      bool   `json:"isRead"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Message     string `json:"message,omitempty"`
}

// DashboardStats is the admin overview aggregate.
type DashboardStats struct {
	TotalUsers        int64              `json:"totalUsers"`
	TotalPosts        int64              `json:"totalPosts"`
	TotalReports      int64              `json:"totalReports"`
	BannedUsers       int64              `json:"bannedUsers"`
	PendingReports    int64              `json:"pendingReports"`
	Activity          []PlatformActivity `json:"activity,omitempty"`
	MostReportedUsers []ReportedUser     `json:"mostReportedUsers,omitempty"`
}

// PlatformActivity is one day of post volume.
type PlatformActivity struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ReportedUser is a dashboard row for the most-reported listing.
type ReportedUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	ReportCount int64  `json:"reportCount"`
	Status      string `json:"status,omitempty"`
}

// Report statuses the moderation queue moves through.
const (
	ReportPending  = "PENDING"
	ReportReviewed = "REVIEWED"
	ReportResolved = "RESOLVED"
)

// Report is a moderation-queue entry.
type Report struct {
	ID                 int64  `json:"id"`
	Reason             string `json:"reason"`
	Reporter           *User  `json:"reporter,omitempty"`
	ReportedUser       *User  `json:"reportedUser,omitempty"`
	ReportedPostID     int64  `json:"reportedPostId,omitempty"`
	ReportedPostTitle  string `json:"reportedPostTitle,omitempty"`
	ReportedPostImage  string `json:"reportedPostImage,omitempty"`
	ReportedPostAuthor *User  `json:"reportedPostAuthor,omitempty"`
	Status             string `json:"status"`
	CreatedAt          string `json:"createdAt,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a new account (or, for admins, provisions
// one without logging in as it).
type RegisterRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// AuthResponse is returned by authenticate/register. The session
// itself travels in an HTTP-only cookie; Token is informational.
type AuthResponse struct {
	Token string `json:"token,omitempty"`
}

// CreatePostRequest is the body for creating or updating a post.
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category,omitempty"`
	ReadTime string   `json:"readTime,omitempty"`
	Images   []string `json:"images,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// UserUpdate carries the editable profile fields. Pointer fields are
// sent only when set so a partial update does not clear the rest.
type UserUpdate struct {
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Cover     *string `json:"cover,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// CreateReportRequest flags a user and/or a post for moderation.
type CreateReportRequest struct {
	Reason         string `json:"reason"`
	ReportedUserID int64  `json:"reportedUserId,omitempty"`
	ReportedPostID int64  `json:"reportedPostId,omitempty"`
}

// SearchResults groups the mixed search response.
type SearchResults struct {
	Posts []Post `json:"posts,omitempty"`
	Users []User `json:"users,omitempty"`
}
