package domain

// EventType identifies which data variant an Event carries
type EventType string

const (
	EventTypePage  EventType = "page"
	EventTypeTrack EventType = "track"
	EventTypeUser  EventType = "user"
)

// Consent is the coarse consent decision attached to an event
type Consent string

const (
	ConsentGranted Consent = "granted"
	ConsentDenied  Consent = "denied"
	ConsentPending Consent = "pending"
)

// Property is a single key/value pair. Properties travel as ordered lists so
// declaration order survives decoding.
type Property struct {
	Key   string `json:"key" example:"plan name"`
	Value string `json:"value" example:"gold"`
}

// Properties is an ordered bag of key/value pairs
type Properties []Property

// Event represents a vendor-neutral analytics event
type Event struct {
	UUID      string    `json:"uuid" example:"8c0f6f2e-7f5b-4a52-9c55-3f0f2d5c0a11"`
	Timestamp int64     `json:"timestamp" example:"1723475612"`
	Type      EventType `json:"event_type" binding:"required,oneof=page track user" example:"page"`
	Data      Data      `json:"data"`
	Context   Context   `json:"context"`
	Consent   *Consent  `json:"consent,omitempty" example:"granted"`
}

// Data holds exactly one event-specific payload
type Data struct {
	Page  *PageData  `json:"page,omitempty"`
	Track *TrackData `json:"track,omitempty"`
	User  *UserData  `json:"user,omitempty"`
}

// PageData describes a page view
type PageData struct {
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Keywords   []string   `json:"keywords"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Path       string     `json:"path"`
	Search     string     `json:"search"`
	Referrer   string     `json:"referrer"`
	Properties Properties `json:"properties"`
}

// TrackData describes a custom or e-commerce event
type TrackData struct {
	Name       string       `json:"name"`
	Properties Properties   `json:"properties"`
	Products   []Properties `json:"products"`
}

// UserData describes the visitor
type UserData struct {
	UserID      string     `json:"user_id"`
	AnonymousID string     `json:"anonymous_id"`
	EdgeeID     string     `json:"edgee_id"`
	Properties  Properties `json:"properties"`
}

// Context carries everything known about the visitor at event time
type Context struct {
	Page     PageData `json:"page"`
	User     UserData `json:"user"`
	Client   Client   `json:"client"`
	Campaign Campaign `json:"campaign"`
	Session  Session  `json:"session"`
}

// Client holds device, user agent and geo facets
type Client struct {
	IP                       string  `json:"ip"`
	Locale                   string  `json:"locale"`
	Timezone                 string  `json:"timezone"`
	UserAgent                string  `json:"user_agent"`
	UserAgentArchitecture    string  `json:"user_agent_architecture"`
	UserAgentBitness         string  `json:"user_agent_bitness"`
	UserAgentFullVersionList string  `json:"user_agent_full_version_list"`
	UserAgentVersionList     string  `json:"user_agent_version_list"`
	UserAgentMobile          string  `json:"user_agent_mobile"`
	UserAgentModel           string  `json:"user_agent_model"`
	OSName                   string  `json:"os_name"`
	OSVersion                string  `json:"os_version"`
	ScreenWidth              int32   `json:"screen_width"`
	ScreenHeight             int32   `json:"screen_height"`
	ScreenDensity            float32 `json:"screen_density"`
	Continent                string  `json:"continent"`
	CountryCode              string  `json:"country_code"`
	CountryName              string  `json:"country_name"`
	City                     string  `json:"city"`
	Region                   string  `json:"region"`
}

// Campaign holds attribution parameters
type Campaign struct {
	Name            string `json:"name"`
	Source          string `json:"source"`
	Medium          string `json:"medium"`
	Term            string `json:"term"`
	Content         string `json:"content"`
	CreativeFormat  string `json:"creative_format"`
	MarketingTactic string `json:"marketing_tactic"`
}

// Session holds session timing supplied by the caller
type Session struct {
	SessionID         string `json:"session_id"`
	PreviousSessionID string `json:"previous_session_id"`
	SessionCount      int32  `json:"session_count"`
	SessionStart      bool   `json:"session_start"`
	FirstSeen         int64  `json:"first_seen"`
	LastSeen          int64  `json:"last_seen"`
}

// QueuedEvent is the message body published to the queue
type QueuedEvent struct {
	Event    Event             `json:"event"`
	Settings map[string]string `json:"settings"`
}
