package model

// Outcome : issue d'une opération de copie.
type Outcome string

const (
	OutcomeBusy     Outcome = "busy"      // une copie est déjà en cours, rien n'est fait
	OutcomeNotFound Outcome = "not_found" // pas de transcription après toutes les tentatives
	OutcomeCopied   Outcome = "copied"
	OutcomeFailed   Outcome = "failed"
)

// Strategy : étape de la chaîne d'extraction qui a produit le texte.
type Strategy string

const (
	StrategyNone     Strategy = ""
	StrategyCues     Strategy = "cues"     // blocs de sous-titres reconnus
	StrategyScan     Strategy = "scan"     // balayage filtré du panneau
	StrategyRendered Strategy = "rendered" // texte rendu brut du panneau
)

// NoticeKind : état d'une notification utilisateur.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice est un message transitoire montré à l'utilisateur.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Messages affichés à l'utilisateur.
const (
	MsgCopied        = "Transcript copied to clipboard!"
	MsgNotFound      = "Transcript not found. Please make sure the transcript panel is open."
	MsgCopyFailed    = "Failed to copy transcript. Please try again."
	MsgToggleMissing = "Could not find Transcript button."
	MsgTemplateSaved = "Template saved successfully!"
	MsgTemplateEmpty = "Template cannot be empty."
	MsgTemplateReset = "Template reset to default"

	// le magasin secondaire a refusé l'écriture
	MsgTemplateSaveFailed = "Could not save template. Please try again."
)
