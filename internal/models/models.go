package models

// Permission is the global permission tier of a user.
//
// The first user to register becomes an Owner; everyone after that is a
// Member. Owners are the "global admins": they can join private channels,
// change permissions and remove users.
type Permission int

const (
	PermOwner  Permission = 1
	PermMember Permission = 2
)

// Valid reports whether p is one of the two known tiers.
func (p Permission) Valid() bool {
	return p == PermOwner || p == PermMember
}

// Profile is the public, caller-visible part of a user record. Everything
// else on User (password hash, sessions, stats) stays server-side.
type Profile struct {
	UserID    int64  `json:"u_id"`
	FirstName string `json:"name_first"`
	LastName  string `json:"name_last"`
	Handle    string `json:"handle_str"`
	Email     string `json:"email"`
	AvatarURL string `json:"profile_img_url"`
}

// StatPoint is one snapshot in an append-only time series: the counter value
// and the unix second it changed. Series are never mutated in place, only
// appended to.
type StatPoint struct {
	Count     int   `json:"count"`
	Timestamp int64 `json:"time_stamp"`
}

// UserStats tracks a user's participation over time. Each series starts with
// a zero point stamped at registration.
type UserStats struct {
	ChannelsJoined []StatPoint `json:"channels_joined"`
	DMsJoined      []StatPoint `json:"dms_joined"`
	MessagesSent   []StatPoint `json:"messages_sent"`
}

// SystemStats is the workspace-wide counterpart of UserStats.
type SystemStats struct {
	ChannelsExist []StatPoint `json:"channels_exist"`
	DMsExist      []StatPoint `json:"dms_exist"`
	MessagesExist []StatPoint `json:"messages_exist"`
}

// Notification is one entry in a user's feed, newest first. Exactly one of
// ChannelID/DMID is set; the other is -1.
type Notification struct {
	ChannelID int64  `json:"channel_id"`
	DMID      int64  `json:"dm_id"`
	Message   string `json:"notification_message"`
}

// User is a registered account. Removed users are kept with Valid=false so
// their profile stays resolvable (name scrubbed); they can no longer
// authenticate or appear in membership checks.
type User struct {
	ID            int64          `json:"auth_user_id"`
	PasswordHash  string         `json:"password_hash"`
	Sessions      []int64        `json:"sessions"`
	Permission    Permission     `json:"permission_id"`
	Valid         bool           `json:"is_valid"`
	Profile       Profile        `json:"public_info"`
	Stats         UserStats      `json:"stats"`
	Notifications []Notification `json:"notifications"`
}

// React is the reaction slot of a message for one reaction kind. Only kind 1
// exists today, but the wire shape is a list so more can be added.
type React struct {
	ReactID int64   `json:"react_id"`
	UserIDs []int64 `json:"u_ids"`
}

// ReactID1 is the only reaction kind the frontend knows about.
const ReactID1 int64 = 1

// Message is a single message in a channel or DM. IDs are unique across all
// containers and never reused, even after removal.
type Message struct {
	ID        int64    `json:"message_id"`
	AuthorID  int64    `json:"u_id"`
	Body      string   `json:"message"`
	CreatedAt int64    `json:"time_created"`
	Pinned    bool     `json:"is_pinned"`
	Reacts    []*React `json:"reacts"`
}

// Standup is a channel's standup sub-state. While active, standup sends are
// buffered as pre-formatted lines; at FinishAt the lines are flushed into one
// summary message authored by StarterID.
type Standup struct {
	Active    bool     `json:"is_active"`
	FinishAt  int64    `json:"time_finish"`
	StarterID int64    `json:"starter_id"`
	Lines     []string `json:"lines"`
}

// Channel is a named chat room. Members and Owners hold user IDs, resolved to
// profiles through the store at read time; Messages are newest first.
type Channel struct {
	ID       int64      `json:"channel_id"`
	Name     string     `json:"channel_name"`
	Public   bool       `json:"is_public"`
	Members  []int64    `json:"all_members"`
	Owners   []int64    `json:"owner_members"`
	Messages []*Message `json:"messages"`
	Standup  Standup    `json:"standup"`
}

// DM is a direct-message group. Its name is fixed at creation: the
// alphabetically sorted, comma-joined handles of the founding members.
type DM struct {
	ID       int64      `json:"dm_id"`
	Name     string     `json:"dm_name"`
	Members  []int64    `json:"all_members"`
	Owners   []int64    `json:"owner_members"`
	Messages []*Message `json:"messages"`
}

// ContainerKind distinguishes the two message-holding entity kinds.
type ContainerKind int

const (
	KindChannel ContainerKind = iota
	KindDM
)

func (k ContainerKind) String() string {
	if k == KindDM {
		return "dm"
	}
	return "channel"
}

// IndexEntry maps one container to the ordered (newest first) list of message
// IDs it holds. Every live message ID appears in exactly one entry; entries
// with no messages are pruned.
type IndexEntry struct {
	Kind        ContainerKind `json:"kind"`
	ContainerID int64         `json:"id"`
	MessageIDs  []int64       `json:"message_ids"`
}
