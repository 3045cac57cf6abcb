package github

import (
	"strconv"
	"time"
)

// User is a GitHub account.
type User struct {
	ID          int64     `json:"id"                     yaml:"id"`
	NodeID      string    `json:"node_id"                yaml:"node_id"`
	Login       string    `json:"login"                  yaml:"login"`
	Type        string    `json:"type"                   yaml:"type"`
	SiteAdmin   bool      `json:"site_admin"             yaml:"site_admin"`
	HTMLURL     string    `json:"html_url"               yaml:"html_url"`
	Name        string    `json:"name,omitempty"         yaml:"name,omitempty"`
	Email       string    `json:"email,omitempty"        yaml:"email,omitempty"`
	Company     string    `json:"company,omitempty"      yaml:"company,omitempty"`
	Location    string    `json:"location,omitempty"     yaml:"location,omitempty"`
	PublicRepos int       `json:"public_repos,omitempty" yaml:"public_repos,omitempty"`
	Followers   int       `json:"followers,omitempty"    yaml:"followers,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"   yaml:"created_at,omitempty"`
}

// CursorKey returns the numeric user ID, which GET /users takes as "since".
func (u User) CursorKey() (string, bool) {
	if u.ID <= 0 {
		return "", false
	}

	return strconv.FormatInt(u.ID, 10), true
}

// UserListParams filters GET /users.
type UserListParams struct {
	// Since returns users with an ID greater than this one. Ignored by ListAll.
	Since   int64
	PerPage int
}

// Repository is a GitHub repository.
type Repository struct {
	ID              int64     `json:"id"                    yaml:"id"`
	NodeID          string    `json:"node_id"               yaml:"node_id"`
	Name            string    `json:"name"                  yaml:"name"`
	FullName        string    `json:"full_name"             yaml:"full_name"`
	Owner           User      `json:"owner"                 yaml:"owner"`
	Private         bool      `json:"private"               yaml:"private"`
	Visibility      string    `json:"visibility,omitempty"  yaml:"visibility,omitempty"`
	Description     string    `json:"description,omitempty" yaml:"description,omitempty"`
	Homepage        string    `json:"homepage,omitempty"    yaml:"homepage,omitempty"`
	HTMLURL         string    `json:"html_url"              yaml:"html_url"`
	DefaultBranch   string    `json:"default_branch"        yaml:"default_branch"`
	Language        string    `json:"language,omitempty"    yaml:"language,omitempty"`
	Fork            bool      `json:"fork"                  yaml:"fork"`
	Archived        bool      `json:"archived"              yaml:"archived"`
	StargazersCount int       `json:"stargazers_count"      yaml:"stargazers_count"`
	ForksCount      int       `json:"forks_count"           yaml:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"     yaml:"open_issues_count"`
	Topics          []string  `json:"topics,omitempty"      yaml:"topics,omitempty"`
	CreatedAt       time.Time `json:"created_at"            yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"            yaml:"updated_at"`
	PushedAt        time.Time `json:"pushed_at"             yaml:"pushed_at"`
}

// RepositoryListParams filters GET /orgs/{org}/repos.
type RepositoryListParams struct {
	Type      string `validate:"omitempty,oneof=all public private forks sources member"`
	Sort      string `validate:"omitempty,oneof=created updated pushed full_name"`
	Direction string `validate:"omitempty,oneof=asc desc"`
	PerPage   int    `validate:"omitempty,min=1,max=100"`
	Page      int
}

// RepositoryCreateRequest is the body of POST /orgs/{org}/repos.
type RepositoryCreateRequest struct {
	Name              string `json:"name"                         validate:"required,max=100"`
	Description       string `json:"description,omitempty"`
	Homepage          string `json:"homepage,omitempty"           validate:"omitempty,url"`
	Private           bool   `json:"private,omitempty"`
	Visibility        string `json:"visibility,omitempty"         validate:"omitempty,oneof=public private internal"`
	HasIssues         *bool  `json:"has_issues,omitempty"`
	HasWiki           *bool  `json:"has_wiki,omitempty"`
	AutoInit          bool   `json:"auto_init,omitempty"`
	GitignoreTemplate string `json:"gitignore_template,omitempty"`
	LicenseTemplate   string `json:"license_template,omitempty"`
}

// RepositoryUpdateRequest is the body of PATCH /repos/{owner}/{repo}. Nil
// fields are left unchanged.
type RepositoryUpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Homepage      *string `json:"homepage,omitempty"`
	Private       *bool   `json:"private,omitempty"`
	Visibility    string  `json:"visibility,omitempty"     validate:"omitempty,oneof=public private internal"`
	Archived      *bool   `json:"archived,omitempty"`
	DefaultBranch string  `json:"default_branch,omitempty"`
}

// Label is an issue label.
type Label struct {
	ID          int64  `json:"id"                    yaml:"id"`
	Name        string `json:"name"                  yaml:"name"`
	Color       string `json:"color"                 yaml:"color"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Issue is a GitHub issue. Pull requests are returned by the issues
// endpoints too, with PullRequest set.
type Issue struct {
	ID          int64   `json:"id"                     yaml:"id"`
	Number      int     `json:"number"                 yaml:"number"`
	Title       string  `json:"title"                  yaml:"title"`
	Body        string  `json:"body,omitempty"         yaml:"body,omitempty"`
	State       string  `json:"state"                  yaml:"state"`
	StateReason string  `json:"state_reason,omitempty" yaml:"state_reason,omitempty"`
	User        User    `json:"user"                   yaml:"user"`
	Labels      []Label `json:"labels,omitempty"       yaml:"labels,omitempty"`
	Assignees   []User  `json:"assignees,omitempty"    yaml:"assignees,omitempty"`
	Comments    int     `json:"comments"               yaml:"comments"`
	HTMLURL     string  `json:"html_url"               yaml:"html_url"`
	PullRequest *struct {
		URL string `json:"url" yaml:"url"`
	} `json:"pull_request,omitempty" yaml:"pull_request,omitempty"`
	CreatedAt time.Time  `json:"created_at"          yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"          yaml:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
}

// IsPullRequest reports whether the issue is a pull request.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// IssueListParams filters GET /repos/{owner}/{repo}/issues.
type IssueListParams struct {
	State     string `validate:"omitempty,oneof=open closed all"`
	Labels    []string
	Assignee  string
	Creator   string
	Mentioned string
	Since     time.Time
	Sort      string `validate:"omitempty,oneof=created updated comments"`
	Direction string `validate:"omitempty,oneof=asc desc"`
	PerPage   int    `validate:"omitempty,min=1,max=100"`
	Page      int
}

// IssueCreateRequest is the body of POST /repos/{owner}/{repo}/issues.
type IssueCreateRequest struct {
	Title     string   `json:"title"               validate:"required"`
	Body      string   `json:"body,omitempty"`
	Assignees []string `json:"assignees,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Milestone *int     `json:"milestone,omitempty"`
}

// IssueUpdateRequest is the body of PATCH /repos/{owner}/{repo}/issues/{n}.
// A nil slice leaves labels or assignees unchanged; an empty one clears them.
type IssueUpdateRequest struct {
	Title       *string  `json:"title,omitempty"`
	Body        *string  `json:"body,omitempty"`
	State       string   `json:"state,omitempty"        validate:"omitempty,oneof=open closed"`
	StateReason string   `json:"state_reason,omitempty" validate:"omitempty,oneof=completed not_planned reopened"`
	Labels      []string `json:"labels,omitempty"`
	Assignees   []string `json:"assignees,omitempty"`
}

// PullRequest is the subset of pull request fields fetched over GraphQL.
type PullRequest struct {
	Number    int        `json:"number"              yaml:"number"`
	Title     string     `json:"title"               yaml:"title"`
	State     string     `json:"state"               yaml:"state"`
	URL       string     `json:"url"                 yaml:"url"`
	Author    string     `json:"author"              yaml:"author"`
	BaseRef   string     `json:"base_ref"            yaml:"base_ref"`
	HeadRef   string     `json:"head_ref"            yaml:"head_ref"`
	Merged    bool       `json:"merged"              yaml:"merged"`
	Additions int        `json:"additions"           yaml:"additions"`
	Deletions int        `json:"deletions"           yaml:"deletions"`
	CreatedAt time.Time  `json:"created_at"          yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"          yaml:"updated_at"`
	MergedAt  *time.Time `json:"merged_at,omitempty" yaml:"merged_at,omitempty"`
}

// PullRequestListParams filters pull requests. States take the GraphQL
// enum values OPEN, CLOSED and MERGED; empty means all.
type PullRequestListParams struct {
	States   []string `validate:"omitempty,dive,oneof=OPEN CLOSED MERGED"`
	PageSize int      `validate:"omitempty,min=1,max=100"`
}
