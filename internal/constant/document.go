package constant

// DocumentState is the lifecycle state of a generated document.
type DocumentState string

const (
	DocumentDraft            DocumentState = "DRAFT"
	DocumentSentForSignature DocumentState = "SENT_FOR_SIGNATURE"
	DocumentPendingSignature DocumentState = "PENDING_SIGNATURE"
	DocumentSigned           DocumentState = "SIGNED"
)

func (s DocumentState) Valid() bool {
	switch s {
	case DocumentDraft, DocumentSentForSignature, DocumentPendingSignature, DocumentSigned:
		return true
	}
	return false
}

func (s DocumentState) String() string {
	return string(s)
}

// DocumentClass groups template types that share lifecycle behavior.
type DocumentClass string

const (
	ClassResolution  DocumentClass = "RESOLUTION"
	ClassMinutes     DocumentClass = "MINUTES"
	ClassCertificate DocumentClass = "CERTIFICATE"
	ClassOther       DocumentClass = "OTHER"
)

// RecordKind is the employment kind of a competition record.
type RecordKind string

const (
	RecordRegular RecordKind = "REGULAR"
	RecordInterim RecordKind = "INTERIM"
)

// ConcursoVisibility restricts a template to a record kind.
type ConcursoVisibility string

const (
	VisibilityRegular ConcursoVisibility = "REGULAR"
	VisibilityInterim ConcursoVisibility = "INTERIM"
	VisibilityBoth    ConcursoVisibility = "BOTH"
)

// SignedSubstatePrefix marks substates contributed by a fully signed document.
const SignedSubstatePrefix = "firmado:"

type DocumentAction string

const (
	ActionCompose     DocumentAction = "compose"
	ActionSend        DocumentAction = "send_for_signature"
	ActionOpen        DocumentAction = "open_for_signature"
	ActionUpload      DocumentAction = "upload_signed"
	ActionSign        DocumentAction = "sign"
	ActionAdminSign   DocumentAction = "admin_sign"
	ActionReset       DocumentAction = "reset_to_draft"
	ActionDeleteDraft DocumentAction = "delete_draft"
)
