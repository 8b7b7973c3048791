// Status values are persisted exactly as the client application expects them,
// so the string constants below are part of the wire format.
package model

// ProjectStatus is the lifecycle status of a project (obra).
type ProjectStatus string

const (
	ProjectNotStarted       ProjectStatus = "nao_iniciada"
	ProjectInProgress       ProjectStatus = "em_andamento"
	ProjectAwaitingApproval ProjectStatus = "aguardando_aprovacao"
	ProjectCompleted        ProjectStatus = "concluida"
	ProjectCancelled        ProjectStatus = "cancelada"
)

var projectStatusLabels = map[ProjectStatus]string{
	ProjectNotStarted:       "Não Iniciada",
	ProjectInProgress:       "Em Andamento",
	ProjectAwaitingApproval: "Aguardando Aprovação",
	ProjectCompleted:        "Concluída",
	ProjectCancelled:        "Cancelada",
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

// Label returns the display label, falling back to the raw value.
func (s ProjectStatus) Label() string {
	if l, ok := projectStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// StageStatus is the lifecycle status of a stage (etapa).
type StageStatus string

const (
	StagePending    StageStatus = "pendente"
	StageInProgress StageStatus = "em_andamento"
	StageSubmitted  StageStatus = "submetida"
	StageApproved   StageStatus = "aprovada"
	StageRejected   StageStatus = "rejeitada"
)

// AllStageStatuses lists stage statuses in lifecycle order.
var AllStageStatuses = []StageStatus{
	StagePending,
	StageInProgress,
	StageSubmitted,
	StageApproved,
	StageRejected,
}

var stageStatusLabels = map[StageStatus]string{
	StagePending:    "Pendente",
	StageInProgress: "Em Andamento",
	StageSubmitted:  "Submetida",
	StageApproved:   "Aprovada",
	StageRejected:   "Rejeitada",
}

var stageStatusColors = map[StageStatus]string{
	StagePending:    "#9ca3af",
	StageInProgress: "#3b82f6",
	StageSubmitted:  "#f59e0b",
	StageApproved:   "#22c55e",
	StageRejected:   "#ef4444",
}

func (s StageStatus) Valid() bool {
	_, ok := stageStatusLabels[s]
	return ok
}

func (s StageStatus) Label() string {
	if l, ok := stageStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Color returns the badge colour as a #rrggbb string. Unknown statuses get the pending grey.
func (s StageStatus) Color() string {
	if c, ok := stageStatusColors[s]; ok {
		return c
	}
	return stageStatusColors[StagePending]
}

// AppRole is the platform role of a user.
type AppRole string

const (
	RoleAdmin        AppRole = "admin"
	RoleCollaborator AppRole = "colaborador"
)

func (r AppRole) Valid() bool {
	return r == RoleAdmin || r == RoleCollaborator
}

// Notification bookkeeping
type (
	NotificationChannel string
	NotificationKind    string
	NotificationResult  string
)

const (
	ChannelWhatsApp NotificationChannel = "whatsapp"
	ChannelEmail    NotificationChannel = "email"
)

const (
	KindSignatureRequest        NotificationKind = "signature_request"
	KindStageSummary            NotificationKind = "stage_summary"
	KindProjectReport           NotificationKind = "project_report"
	KindProjectSignatureRequest NotificationKind = "project_signature_request"
	KindFreeText                NotificationKind = "free_text"
)

const (
	ResultSent               NotificationResult = "sent"
	ResultFailed             NotificationResult = "failed"
	ResultChannelUnavailable NotificationResult = "channel_unavailable"
)
