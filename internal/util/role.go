package util

import (
	"slices"

	"github.com/SeakMengs/AutoActa/internal/constant"
)

// Per-template flags narrow these further, see lifecycle.
var rolePermissions = map[constant.ActorRole][]constant.DocumentPermission{
	constant.ActorAdmin: {
		constant.DocumentCompose,
		constant.DocumentSend,
		constant.DocumentOpen,
		constant.DocumentUploadSigned,
		constant.DocumentAdminSign,
		constant.DocumentReset,
		constant.DocumentDelete,
		constant.DocumentDossier,
	},
	constant.ActorSigner: {
		constant.DocumentSign,
		constant.DocumentUploadSigned,
	},
}

// checks if all permissions are granted by at least one of the roles.
func HasPermission(roles []constant.ActorRole, permissions []constant.DocumentPermission) bool {
	for _, permission := range permissions {
		hasPermission := false
		for _, role := range roles {
			if slices.Contains(rolePermissions[role], permission) {
				hasPermission = true
				break
			}
		}
		if !hasPermission {
			return false
		}
	}
	return true
}

func HasRole(roles []constant.ActorRole, requiredRoles []constant.ActorRole) bool {
	for _, role := range requiredRoles {
		if slices.Contains(roles, role) {
			return true
		}
	}
	return false
}
