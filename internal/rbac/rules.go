package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"author": {
		"convert:create",
		"conversions:view",
		"formats:view",
	},
	"admin": {
		"*", // everything
	},
}
