package docusign

import (
	"time"
)

// Envelope is a DocuSign envelope. DocuSign reports timestamps as strings
// and omits empty ones.
type Envelope struct {
	EnvelopeID        string `json:"envelopeId"                   yaml:"envelope_id"`
	Status            string `json:"status"                       yaml:"status"`
	EmailSubject      string `json:"emailSubject,omitempty"       yaml:"email_subject,omitempty"`
	EmailBlurb        string `json:"emailBlurb,omitempty"         yaml:"email_blurb,omitempty"`
	Sender            *User  `json:"sender,omitempty"             yaml:"sender,omitempty"`
	CreatedDateTime   string `json:"createdDateTime,omitempty"    yaml:"created_date_time,omitempty"`
	SentDateTime      string `json:"sentDateTime,omitempty"       yaml:"sent_date_time,omitempty"`
	CompletedDateTime string `json:"completedDateTime,omitempty"  yaml:"completed_date_time,omitempty"`
	VoidedDateTime    string `json:"voidedDateTime,omitempty"     yaml:"voided_date_time,omitempty"`
	VoidedReason      string `json:"voidedReason,omitempty"       yaml:"voided_reason,omitempty"`
	StatusChangedTime string `json:"statusChangedDateTime,omitempty" yaml:"status_changed_date_time,omitempty"`
	TemplatesURI      string `json:"templatesUri,omitempty"       yaml:"templates_uri,omitempty"`
	EnvelopeURI       string `json:"envelopeUri,omitempty"        yaml:"envelope_uri,omitempty"`
}

// User identifies an envelope sender.
type User struct {
	UserName string `json:"userName" yaml:"user_name"`
	UserID   string `json:"userId"   yaml:"user_id"`
	Email    string `json:"email"    yaml:"email"`
}

// EnvelopesPage is one page of GET /envelopes. Sizes are decimal strings.
type EnvelopesPage struct {
	Envelopes     []Envelope `json:"envelopes"`
	ResultSetSize string     `json:"resultSetSize"`
	TotalSetSize  string     `json:"totalSetSize"`
	StartPosition string     `json:"startPosition"`
	EndPosition   string     `json:"endPosition"`
	NextURI       string     `json:"nextUri"`
	PreviousURI   string     `json:"previousUri"`
}

// EnvelopeListParams filters GET /envelopes. DocuSign requires FromDate
// unless EnvelopeIDs, FolderIDs or a TransactionIDs filter is given.
type EnvelopeListParams struct {
	FromDate      time.Time
	ToDate        time.Time
	Status        []string
	EnvelopeIDs   []string
	FolderIDs     []string
	SearchText    string
	StartPosition int    `validate:"omitempty,min=0"`
	Count         int    `validate:"omitempty,min=1,max=1000"`
	Order         string `validate:"omitempty,oneof=asc desc"`
	OrderBy       string `validate:"omitempty,oneof=action_required created completed envelope_name expire last_modified sender_email sender_name sent status subject"`
}

// Document is a file attached to a new envelope.
type Document struct {
	DocumentID     string `json:"documentId"     validate:"required"`
	Name           string `json:"name"           validate:"required"`
	FileExtension  string `json:"fileExtension"`
	DocumentBase64 string `json:"documentBase64" validate:"required,base64"`
}

// Signer is a recipient who signs.
type Signer struct {
	Email        string `json:"email"                  validate:"required,email"`
	Name         string `json:"name"                   validate:"required"`
	RecipientID  string `json:"recipientId"            validate:"required"`
	RoutingOrder string `json:"routingOrder,omitempty"`
}

// Recipients groups the recipients of a new envelope.
type Recipients struct {
	Signers []Signer `json:"signers,omitempty" validate:"dive"`
}

// TemplateRole fills a role defined on a template.
type TemplateRole struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	RoleName string `json:"roleName" validate:"required"`
}

// EnvelopeDefinition is the body of POST /envelopes. Either Documents with
// Recipients, or TemplateID with TemplateRoles, must be given.
type EnvelopeDefinition struct {
	EmailSubject  string         `json:"emailSubject"            validate:"required,max=100"`
	EmailBlurb    string         `json:"emailBlurb,omitempty"`
	Status        string         `json:"status"                  validate:"required,oneof=created sent"`
	Documents     []Document     `json:"documents,omitempty"     validate:"required_without=TemplateID,dive"`
	Recipients    *Recipients    `json:"recipients,omitempty"    validate:"required_with=Documents"`
	TemplateID    string         `json:"templateId,omitempty"    validate:"required_without=Documents"`
	TemplateRoles []TemplateRole `json:"templateRoles,omitempty" validate:"required_with=TemplateID,dive"`
}

// EnvelopeSummary is returned by envelope create and update calls.
type EnvelopeSummary struct {
	EnvelopeID     string `json:"envelopeId"               yaml:"envelope_id"`
	Status         string `json:"status,omitempty"         yaml:"status,omitempty"`
	StatusDateTime string `json:"statusDateTime,omitempty" yaml:"status_date_time,omitempty"`
	URI            string `json:"uri,omitempty"            yaml:"uri,omitempty"`
}

// Template is an envelope template.
type Template struct {
	TemplateID   string `json:"templateId"             yaml:"template_id"`
	Name         string `json:"name"                   yaml:"name"`
	Description  string `json:"description,omitempty"  yaml:"description,omitempty"`
	Shared       string `json:"shared,omitempty"       yaml:"shared,omitempty"`
	Created      string `json:"created,omitempty"      yaml:"created,omitempty"`
	LastModified string `json:"lastModified,omitempty" yaml:"last_modified,omitempty"`
	EmailSubject string `json:"emailSubject,omitempty" yaml:"email_subject,omitempty"`
	FolderName   string `json:"folderName,omitempty"   yaml:"folder_name,omitempty"`
}

// TemplatesPage is one page of GET /templates.
type TemplatesPage struct {
	EnvelopeTemplates []Template `json:"envelopeTemplates"`
	ResultSetSize     string     `json:"resultSetSize"`
	TotalSetSize      string     `json:"totalSetSize"`
	StartPosition     string     `json:"startPosition"`
	EndPosition       string     `json:"endPosition"`
	NextURI           string     `json:"nextUri"`
}

// TemplateListParams filters GET /templates.
type TemplateListParams struct {
	SearchText    string
	FolderIDs     []string
	StartPosition int `validate:"omitempty,min=0"`
	Count         int `validate:"omitempty,min=1,max=2000"`
}
