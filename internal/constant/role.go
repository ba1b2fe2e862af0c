package constant

// ActorRole is the application-level role carried by the identity token.
type ActorRole string

const (
	ActorAdmin  ActorRole = "ADMIN"
	ActorSigner ActorRole = "SIGNER"
)

// TribunalRole is the role of a tribunal member within a record.
type TribunalRole string

const (
	TribunalPresident TribunalRole = "PRESIDENT"
	TribunalTitular   TribunalRole = "TITULAR"
	TribunalAlternate TribunalRole = "ALTERNATE"
)

// TribunalGroup is the constituency a tribunal member represents.
type TribunalGroup string

const (
	GroupAcademic TribunalGroup = "ACADEMIC"
	GroupStudent  TribunalGroup = "STUDENT"
	GroupGraduate TribunalGroup = "GRADUATE"
)

type DocumentPermission string

const (
	DocumentCompose      DocumentPermission = "document:compose"
	DocumentSend         DocumentPermission = "document:send"
	DocumentOpen         DocumentPermission = "document:open"
	DocumentUploadSigned DocumentPermission = "document:upload_signed"
	DocumentSign         DocumentPermission = "document:sign"
	DocumentAdminSign    DocumentPermission = "document:admin_sign"
	DocumentReset        DocumentPermission = "document:reset"
	DocumentDelete       DocumentPermission = "document:delete"
	DocumentDossier      DocumentPermission = "document:dossier"
)
