package model

import "time"

type Priority string

const (
	PriorityNormal  Priority = "Normal"
	PriorityMedia   Priority = "Media"
	PriorityUrgente Priority = "Urgente"
)

// Color returns the hex color used to render a priority badge.
// Unrecognized values fall back to the Normal color so legacy rows
// never break rendering.
func (p Priority) Color() string {
	switch p {
	case PriorityUrgente:
		return "#ef4444"
	case PriorityMedia:
		return "#f59e0b"
	case PriorityNormal:
		return "#6366f1"
	default:
		return "#6366f1"
	}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityMedia, PriorityUrgente:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusInReview   Status = "In Review"
	StatusCompleted  Status = "Completed"
	StatusAnulado    Status = "Anulado"
)

// Open reports whether the task still requires work. Completed and
// Anulado tasks are excluded from the due-soon feed and from calendars.
func (s Status) Open() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusInReview:
		return true
	case StatusCompleted, StatusAnulado:
		return false
	default:
		// Unknown statuses behave like open work rather than vanishing.
		return true
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusInReview, StatusCompleted, StatusAnulado:
		return true
	default:
		return false
	}
}

type User struct {
	ID                   string `json:"id"`
	Username             string `json:"username"`
	FullName             string `json:"fullName"`
	Role                 Role   `json:"role"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

type Role string

const (
	RoleUsuario     Role = "usuario"
	RoleUsuarioPlus Role = "usuario_plus"
	RoleSupervisor  Role = "supervisor"
	RoleGerente     Role = "gerente"
)

func (r Role) CanCreateTasks() bool {
	switch r {
	case RoleUsuarioPlus, RoleSupervisor, RoleGerente:
		return true
	default:
		return false
	}
}

func (r Role) CanSeeReports() bool {
	switch r {
	case RoleSupervisor, RoleGerente:
		return true
	default:
		return false
	}
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // #RRGGBB
}

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`

	// Dates are date-only YYYY-MM-DD strings; times, when present, are HH:MM.
	DueDate      string  `json:"dueDate"`
	DueTime      *string `json:"dueTime,omitempty"`
	PlannedStart *string `json:"plannedStart,omitempty"`

	// OriginalDueDate is set the first time a task is postponed and never
	// overwritten afterwards.
	OriginalDueDate *string `json:"originalDueDate,omitempty"`

	// ParentID links a child task to the task that unblocks it.
	ParentID *string `json:"parentId,omitempty"`
	Enabled  bool    `json:"enabled"`

	TimeSpentMinutes  int    `json:"timeSpentMinutes,omitempty"`
	CompletionComment string `json:"completionComment,omitempty"`

	Tags []Tag `json:"tags,omitempty"`

	CreatorID   string  `json:"creatorId"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
	RecurringID *string `json:"recurringId,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Expiration is a calendar entry ("vencimiento") visible to every user.
// Unlike tasks, any user may create one and they never appear in reports.
type Expiration struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatorID   string     `json:"creatorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	Tags        []Tag      `json:"tags,omitempty"`
}

type RecurrenceType string

const (
	RecurWeekdays RecurrenceType = "weekdays"
	RecurWeekly   RecurrenceType = "weekly"
	RecurMonthly  RecurrenceType = "monthly"
	RecurCustom   RecurrenceType = "custom"
)

func (t RecurrenceType) Valid() bool {
	switch t {
	case RecurWeekdays, RecurWeekly, RecurMonthly, RecurCustom:
		return true
	default:
		return false
	}
}

// RecurringTask defines a schedule that materializes concrete tasks.
type RecurringTask struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Priority    Priority       `json:"priority"`
	Type        RecurrenceType `json:"type"`

	// DaysOfWeek holds ISO weekday numbers (1=Monday .. 7=Sunday) for
	// weekly schedules.
	DaysOfWeek []int `json:"daysOfWeek,omitempty"`
	// DayOfMonth is 1-31 for monthly schedules; months shorter than the
	// configured day generate on their last day.
	DayOfMonth int `json:"dayOfMonth,omitempty"`
	// CustomDates lists explicit YYYY-MM-DD generation dates.
	CustomDates []string `json:"customDates,omitempty"`

	DueTime   string  `json:"dueTime"` // HH:MM
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"` // nil = forever

	Active            bool    `json:"active"`
	LastGeneratedDate *string `json:"lastGeneratedDate,omitempty"`

	CreatorID string    `json:"creatorId"`
	CreatedAt time.Time `json:"createdAt"`
}
