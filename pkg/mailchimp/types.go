package mailchimp

import (
	"time"
)

// Contact is the postal address required on every audience.
type Contact struct {
	Company  string `json:"company"           validate:"required"`
	Address1 string `json:"address1"          validate:"required"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"              validate:"required"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country"           validate:"required,len=2"`
}

// CampaignDefaults are the sender defaults of an audience.
type CampaignDefaults struct {
	FromName  string `json:"from_name"  validate:"required"`
	FromEmail string `json:"from_email" validate:"required,email"`
	Subject   string `json:"subject"`
	Language  string `json:"language"   validate:"required"`
}

// ListStats holds audience counters.
type ListStats struct {
	MemberCount      int     `json:"member_count"       yaml:"member_count"`
	UnsubscribeCount int     `json:"unsubscribe_count"  yaml:"unsubscribe_count"`
	CleanedCount     int     `json:"cleaned_count"      yaml:"cleaned_count"`
	CampaignCount    int     `json:"campaign_count"     yaml:"campaign_count"`
	TotalContacts    int     `json:"total_contacts"     yaml:"total_contacts"`
	OpenRate         float64 `json:"open_rate"      yaml:"open_rate"`
}

// List is a Mailchimp audience.
type List struct {
	ID                 string            `json:"id"                  yaml:"id"`
	WebID              int64             `json:"web_id"              yaml:"web_id"`
	Name               string            `json:"name"                yaml:"name"`
	PermissionReminder string            `json:"permission_reminder" yaml:"permission_reminder"`
	EmailTypeOption    bool              `json:"email_type_option"   yaml:"email_type_option"`
	Contact            *Contact          `json:"contact,omitempty"   yaml:"contact,omitempty"`
	CampaignDefaults   *CampaignDefaults `json:"campaign_defaults,omitempty" yaml:"campaign_defaults,omitempty"`
	DateCreated        time.Time         `json:"date_created"        yaml:"date_created"`
	Stats              ListStats         `json:"stats"               yaml:"stats"`
}

// ListsPage is one page of GET /lists.
type ListsPage struct {
	Lists      []List `json:"lists"`
	TotalItems int    `json:"total_items"`
}

// ListParams filters GET /lists.
type ListParams struct {
	// Count and Offset select a page. ListAll ignores Offset and uses Count
	// as its page size.
	Count            int `validate:"omitempty,min=1,max=1000"`
	Offset           int `validate:"omitempty,min=0"`
	Fields           []string
	ExcludeFields    []string
	EmailAddress     string `validate:"omitempty,email"`
	SinceDateCreated time.Time
	SortField        string `validate:"omitempty,oneof=date_created"`
	SortDir          string `validate:"omitempty,oneof=ASC DESC"`
}

// ListRequest is the body of audience create and update calls.
type ListRequest struct {
	Name               string            `json:"name"                validate:"required"`
	PermissionReminder string            `json:"permission_reminder" validate:"required"`
	EmailTypeOption    bool              `json:"email_type_option"`
	Contact            *Contact          `json:"contact"             validate:"required"`
	CampaignDefaults   *CampaignDefaults `json:"campaign_defaults"   validate:"required"`
}

// Member is a contact in an audience.
type Member struct {
	ID              string                 `json:"id"                     yaml:"id"`
	EmailAddress    string                 `json:"email_address"          yaml:"email_address"`
	UniqueEmailID   string                 `json:"unique_email_id"        yaml:"unique_email_id"`
	FullName        string                 `json:"full_name,omitempty"    yaml:"full_name,omitempty"`
	Status          string                 `json:"status"                 yaml:"status"`
	MergeFields     map[string]interface{} `json:"merge_fields,omitempty" yaml:"merge_fields,omitempty"`
	Tags            []Tag                  `json:"tags,omitempty"         yaml:"tags,omitempty"`
	ListID          string                 `json:"list_id"                yaml:"list_id"`
	TimestampSignup string                 `json:"timestamp_signup,omitempty" yaml:"timestamp_signup,omitempty"`
	LastChanged     time.Time              `json:"last_changed"           yaml:"last_changed"`
}

// Tag is a member tag.
type Tag struct {
	ID   int64  `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// MembersPage is one page of GET /lists/{list_id}/members.
type MembersPage struct {
	Members    []Member `json:"members"`
	ListID     string   `json:"list_id"`
	TotalItems int      `json:"total_items"`
}

// MemberListParams filters GET /lists/{list_id}/members.
type MemberListParams struct {
	Count            int    `validate:"omitempty,min=1,max=1000"`
	Offset           int    `validate:"omitempty,min=0"`
	Status           string `validate:"omitempty,oneof=subscribed unsubscribed cleaned pending transactional archived"`
	Fields           []string
	SinceLastChanged time.Time
}

// MemberRequest is the body of PUT /lists/{list_id}/members/{hash}.
type MemberRequest struct {
	EmailAddress string                 `json:"email_address"           validate:"required,email"`
	StatusIfNew  string                 `json:"status_if_new"           validate:"required,oneof=subscribed unsubscribed cleaned pending transactional"`
	Status       string                 `json:"status,omitempty"        validate:"omitempty,oneof=subscribed unsubscribed cleaned pending transactional"`
	MergeFields  map[string]interface{} `json:"merge_fields,omitempty"`
	Language     string                 `json:"language,omitempty"`
	VIP          bool                   `json:"vip,omitempty"`
}
