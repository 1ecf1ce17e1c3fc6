package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"bank:view",
		"topics:view",
		"guides:view",
		"quiz:take",
		"practice:take",
		"tutor:ask",
	},
	"admin": {
		"*", // everything
	},
}
