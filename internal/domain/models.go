// Package domain defines the persistence models for projects, chat sessions,
// chat messages, and the material catalog. These types are mapped with GORM
// and form the core data layer of the design-planning backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Session kinds. A project may own any number of sessions of either kind.
const (
	SessionDesignAssistant = "design_assistant"
	SessionStyleQuiz       = "style_quiz"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message types. The metadata shape attached to a message is correlated with
// its type; the frontend relies on this pairing, so both are persisted.
const (
	TypeText               = "text"
	TypeImage              = "image"
	TypeSuggestion         = "suggestion"
	TypeQuestion           = "question"
	TypeQuiz               = "quiz"
	TypeQuizAnswer         = "quiz_answer"
	TypeQuizResult         = "quiz_result"
	TypeMaterialSuggestion = "material_suggestion"
	TypeAnswer             = "answer"
)

// Project statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Project represents one renovation project: the unit of ownership for chat
// sessions, style preferences, and budget planning.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name / Description: user-provided project info.
//   - Status: pending | processing | completed | failed.
//   - StylePreferences / FamilyInfo / Preferences: free-form JSON documents
//     accumulated from the quiz and the assistant conversation.
//   - BudgetMin / BudgetMax: budget range in 万元 (CNY by default).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Project struct {
	ID          string `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string `json:"name"        gorm:"type:varchar(255);not null"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status"      gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','processing','completed','failed')"`

	StylePreferences JSONMap `json:"style_preferences" gorm:"type:text"`
	FamilyInfo       JSONMap `json:"family_info"       gorm:"type:text"`
	Preferences      JSONMap `json:"preferences"       gorm:"type:text"`

	BudgetMin      float64 `json:"budget_min"`
	BudgetMax      float64 `json:"budget_max"`
	BudgetCurrency string  `json:"budget_currency" gorm:"type:varchar(10);not null;default:'CNY'"`

	Progress float64 `json:"progress" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Project.
func (Project) TableName() string { return "projects" }

// ChatSession identifies one conversation thread owned by a project. A
// session is either a free-form design-assistant thread or a scripted style
// quiz. Sessions are immutable after creation except via appended messages.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ProjectID: foreign key to the owning project (indexed).
//   - Kind: design_assistant | style_quiz.
//   - Title: short human-readable label, auto-generated from the first user
//     prompt for assistant sessions.
//   - CreatedAt: timestamp managed by GORM.
type ChatSession struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	ProjectID string         `json:"project_id" gorm:"type:char(36);not null;index:idx_project_sessions"`
	Kind      string         `json:"kind"       gorm:"type:varchar(32);not null;default:'design_assistant';check:kind IN ('design_assistant','style_quiz')"`
	Title     string         `json:"title"      gorm:"type:varchar(255);not null;default:'新对话'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Project is the owning project. Sessions are cascade-deleted with it.
	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatSession.
func (ChatSession) TableName() string { return "chat_sessions" }

// ChatMessage is one turn within a session. Messages are append-only and
// never mutated after creation; ordering by (CreatedAt, ID) is the canonical
// conversation order.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SessionID: foreign key to the owning session (indexed with CreatedAt).
//   - Role: user | assistant | system.
//   - Content: full text content of the turn.
//   - Type: message-type tag (text, suggestion, quiz, quiz_result, ...).
//   - Metadata: open JSON attribute map carrying structured payloads such as
//     style suggestions, budget tiers, or quiz choices. Its shape is fixed
//     per message type for frontend compatibility.
type ChatMessage struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	SessionID string         `json:"session_id" gorm:"type:char(36);not null;index:idx_session_msgs,priority:1"`
	Role      string         `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant','system')"`
	Content   string         `json:"content"    gorm:"type:text;not null"`
	Type      string         `json:"message_type" gorm:"column:message_type;type:varchar(32);not null;default:'text'"`
	Metadata  JSONMap        `json:"metadata"   gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_session_msgs,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Session is the parent conversation. Messages are cascade-deleted
	// if their session is removed.
	Session ChatSession `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// Material is one entry in the purchasable material catalog. Catalog search
// is a plain filter query; style matching is a substring check against the
// serialized style list.
type Material struct {
	ID        string  `json:"id"        gorm:"type:char(36);primaryKey"`
	Name      string  `json:"name"      gorm:"type:varchar(255);not null;index"`
	Category  string  `json:"category"  gorm:"type:varchar(50);index"`
	Brand     string  `json:"brand"     gorm:"type:varchar(100)"`
	Price     float64 `json:"price"`
	PriceUnit string  `json:"price_unit" gorm:"type:varchar(20)"`
	Currency  string  `json:"currency"  gorm:"type:varchar(10);not null;default:'CNY'"`

	Styles JSONList `json:"styles" gorm:"type:text"`
	Colors JSONList `json:"colors" gorm:"type:text"`

	Supplier    string `json:"supplier"     gorm:"type:varchar(50)"`
	PurchaseURL string `json:"purchase_url" gorm:"type:varchar(500)"`
	ImageURL    string `json:"image_url"    gorm:"type:varchar(500)"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Material.
func (Material) TableName() string { return "materials" }

// Idempotency records a completed one-shot computation for a session, keyed
// by an operation string (e.g. "quiz:step:4"). The unique index makes the
// insert conditional: the first writer wins and later writers observe the
// recorded MessageID instead of recomputing.
type Idempotency struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SessionID string    `json:"session_id" gorm:"type:char(36);not null;uniqueIndex:ux_idem_session_key"`
	Key       string    `json:"key"        gorm:"type:varchar(200);not null;uniqueIndex:ux_idem_session_key"`
	MessageID string    `json:"message_id" gorm:"type:char(36)"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// TableName returns the database table name for Idempotency.
func (Idempotency) TableName() string { return "idempotency" }
