package model

import "slices"

// EventType — тип события проекта.
type EventType string

const (
	EventCall    EventType = "call"
	EventMeeting EventType = "meeting"
	EventOther   EventType = "other"
)

// DeliverableType — тип результата фазы или пакета работ.
type DeliverableType string

const (
	DeliverableDocument     DeliverableType = "document"
	DeliverableBlockDiagram DeliverableType = "block_diagram"
	DeliverablePrototype    DeliverableType = "prototype"
	DeliverableReport       DeliverableType = "report"
	DeliverableCode         DeliverableType = "code"
	DeliverableOther        DeliverableType = "other"
)

var deliverableTypes = []DeliverableType{
	DeliverableDocument, DeliverableBlockDiagram, DeliverablePrototype,
	DeliverableReport, DeliverableCode, DeliverableOther,
}

// Valid сообщает, входит ли тип в перечисление.
func (t DeliverableType) Valid() bool {
	return slices.Contains(deliverableTypes, t)
}

// Категории задач. Набор шире типов результатов: добавлен "test".
const (
	CategoryDocument     = "document"
	CategoryBlockDiagram = "block_diagram"
	CategoryPrototype    = "prototype"
	CategoryReport       = "report"
	CategoryCode         = "code"
	CategoryTest         = "test"
	CategoryOther        = "other"
)

// SectionType — предопределённый тип секции конфигурации.
type SectionType struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

// SectionTypeOther хранится в БД как NULL.
const SectionTypeOther = "other"

// SectionTypes — статический список для GET /section-types.
var SectionTypes = []SectionType{
	{Slug: "links", Label: "Risorse e link"},
	{Slug: "repo", Label: "Repository"},
	{Slug: "docs", Label: "Documentazione"},
	{Slug: SectionTypeOther, Label: "Altro (personalizzato)"},
}
